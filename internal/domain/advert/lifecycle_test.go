package advert

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestState(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)

	assert.Equal(t, StateOpen, Advert{}.State())
	assert.Equal(t, StatePublished, Advert{IsPublished: true}.State())
	assert.Equal(t, StateScheduled, Advert{IsScheduled: true, PublishAt: &later}.State())
	assert.Equal(t, StateUnpublished, Advert{PublishedAt: &now}.State())
}

func TestConsistent(t *testing.T) {
	at := time.Now()
	assert.True(t, Advert{}.Consistent())
	assert.True(t, Advert{IsScheduled: true, PublishAt: &at}.Consistent())
	assert.False(t, Advert{IsScheduled: true}.Consistent())
	assert.False(t, Advert{IsScheduled: true, IsPublished: true, PublishAt: &at}.Consistent())
}

func TestDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Second)

	assert.True(t, Advert{IsScheduled: true, PublishAt: &past}.Due(now))
	assert.True(t, Advert{IsScheduled: true, PublishAt: &now}.Due(now))
	assert.False(t, Advert{IsScheduled: true, PublishAt: &future}.Due(now))
	assert.False(t, Advert{IsScheduled: true, IsPublished: true, PublishAt: &past}.Due(now))
	assert.False(t, Advert{PublishAt: &past}.Due(now))
}

func TestLessOrdering(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []Advert{
		{Title: "a", IsPublished: false, ApplicantCount: 9, CreatedAt: base},
		{Title: "b", IsPublished: true, ApplicantCount: 1, CreatedAt: base},
		{Title: "c", IsPublished: true, ApplicantCount: 3, CreatedAt: base.Add(time.Minute)},
		{Title: "d", IsPublished: true, ApplicantCount: 3, CreatedAt: base},
	}
	sort.SliceStable(items, func(i, j int) bool { return Less(items[i], items[j]) })

	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Title)
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, titles)
}

func TestPatchApply(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	title := "Platform Engineer"
	published := true
	current := Advert{Title: "old", Location: "Berlin", PublishAt: &at}

	next := Patch{Title: &title, IsPublished: &published}.Apply(current)
	assert.Equal(t, "Platform Engineer", next.Title)
	assert.Equal(t, "Berlin", next.Location)
	assert.True(t, next.IsPublished)
	assert.Equal(t, &at, next.PublishAt)
	assert.Equal(t, "old", current.Title)

	cleared := Patch{ClearPublishAt: true}.Apply(current)
	assert.Nil(t, cleared.PublishAt)
}

func TestPatchPublishAtChanged(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	same := at
	other := at.Add(time.Hour)

	assert.False(t, Patch{}.PublishAtChanged(Advert{PublishAt: &at}))
	assert.False(t, Patch{PublishAt: &same}.PublishAtChanged(Advert{PublishAt: &at}))
	assert.True(t, Patch{PublishAt: &other}.PublishAtChanged(Advert{PublishAt: &at}))
	assert.True(t, Patch{PublishAt: &at}.PublishAtChanged(Advert{}))
	assert.False(t, Patch{ClearPublishAt: true}.PublishAtChanged(Advert{PublishAt: &at}))
}
