package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentpool/internal/common"
	"talentpool/internal/domain/advert"
	"talentpool/internal/domain/application"
	"talentpool/internal/domain/auth"
	"talentpool/internal/domain/user"
)

type stepClock struct {
	current time.Time
}

func (c *stepClock) Now() time.Time {
	c.current = c.current.Add(time.Second)
	return c.current
}

func newTestStore() *Store {
	clock := &stepClock{current: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)}
	return NewStore().WithClock(clock.Now)
}

func TestAdvertListOrdering(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	adverts := store.Adverts()
	apps := store.Applications()

	draft, err := adverts.Create(ctx, advert.Advert{Title: "draft"})
	require.NoError(t, err)
	quiet, err := adverts.Create(ctx, advert.Advert{Title: "quiet", IsPublished: true})
	require.NoError(t, err)
	popular, err := adverts.Create(ctx, advert.Advert{Title: "popular", IsPublished: true})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := apps.Create(ctx, application.Application{AdvertID: popular.ID})
		require.NoError(t, err)
	}
	for i := 0; i < 5; i++ {
		_, err := apps.Create(ctx, application.Application{AdvertID: draft.ID})
		require.NoError(t, err)
	}

	page, err := adverts.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, popular.ID, page.Items[0].ID)
	assert.Equal(t, 2, page.Items[0].ApplicantCount)
	assert.Equal(t, quiet.ID, page.Items[1].ID)
	assert.Equal(t, draft.ID, page.Items[2].ID)
	assert.Equal(t, 5, page.Items[2].ApplicantCount)

	second, err := adverts.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, draft.ID, second.Items[0].ID)

	beyond, err := adverts.List(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 3, beyond.Total)
}

func TestAdvertDeleteCascadesAndGuardsPublished(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	adverts := store.Adverts()
	apps := store.Applications()

	published, err := adverts.Create(ctx, advert.Advert{Title: "live", IsPublished: true})
	require.NoError(t, err)
	err = adverts.Delete(ctx, published.ID)
	assert.True(t, common.Is(err, common.CodeNotFound))

	open, err := adverts.Create(ctx, advert.Advert{Title: "open"})
	require.NoError(t, err)
	submitted, err := apps.Create(ctx, application.Application{AdvertID: open.ID})
	require.NoError(t, err)

	require.NoError(t, adverts.Delete(ctx, open.ID))
	_, err = adverts.GetByID(ctx, open.ID)
	assert.True(t, common.Is(err, common.CodeNotFound))
	_, err = apps.GetByID(ctx, submitted.ID)
	assert.True(t, common.Is(err, common.CodeNotFound))
}

func TestPromoteScheduled(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	adverts := store.Adverts()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	due, err := adverts.Create(ctx, advert.Advert{Title: "due", IsScheduled: true, PublishAt: &past})
	require.NoError(t, err)
	_, err = adverts.Create(ctx, advert.Advert{Title: "later", IsScheduled: true, PublishAt: &future})
	require.NoError(t, err)

	items, err := adverts.ListDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, due.ID, items[0].ID)

	promoted, err := adverts.PromoteScheduled(ctx, due.ID, now)
	require.NoError(t, err)
	assert.True(t, promoted)

	again, err := adverts.PromoteScheduled(ctx, due.ID, now)
	require.NoError(t, err)
	assert.False(t, again)

	stored, err := adverts.GetByID(ctx, due.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPublished)
	assert.False(t, stored.IsScheduled)
	require.NotNil(t, stored.PublishedAt)
	assert.Equal(t, now, *stored.PublishedAt)
}

func TestUsersAndTokens(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	created, err := store.Users().Create(ctx, user.User{Username: "recruiter"})
	require.NoError(t, err)
	_, err = store.Users().Create(ctx, user.User{Username: "recruiter"})
	assert.True(t, common.Is(err, common.CodeConflict))

	found, err := store.Users().GetByUsername(ctx, "recruiter")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	tokens := store.Tokens()
	require.NoError(t, tokens.Replace(ctx, auth.Token{UserID: created.ID, Hash: "first"}))
	require.NoError(t, tokens.Replace(ctx, auth.Token{UserID: created.ID, Hash: "second"}))

	_, err = tokens.GetByHash(ctx, "first")
	assert.True(t, common.Is(err, common.CodeNotFound))
	token, err := tokens.GetByHash(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, created.ID, token.UserID)

	require.NoError(t, tokens.DeleteByHash(ctx, "second"))
	_, err = tokens.GetByHash(ctx, "second")
	assert.True(t, common.Is(err, common.CodeNotFound))
}
