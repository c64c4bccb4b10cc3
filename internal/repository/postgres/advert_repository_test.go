package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentpool/internal/common"
	"talentpool/internal/domain/advert"
	"talentpool/internal/domain/auth"
	"talentpool/internal/domain/user"
)

var advertRowColumns = []string{
	"id", "title", "company_name", "employment_type", "experience_level", "description", "job_description", "location",
	"is_published", "is_scheduled", "publish_at", "published_at", "created_at", "updated_at", "applicant_count",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestAdvertGetByIDScansNullableTimes(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdvertRepository(db)
	created := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	publishAt := created.Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM job_adverts a WHERE a.id = $1")).
		WithArgs("3f1c2a8e-7d4b-4c1a-9e2f-0a1b2c3d4e5f").
		WillReturnRows(sqlmock.NewRows(advertRowColumns).AddRow(
			"3f1c2a8e-7d4b-4c1a-9e2f-0a1b2c3d4e5f", "Backend Engineer", "Acme", "remote", "mid", "d", "jd", "Lisbon",
			false, true, publishAt, nil, created, created, 4,
		))

	item, err := repo.GetByID(context.Background(), common.UUID("3f1c2a8e-7d4b-4c1a-9e2f-0a1b2c3d4e5f"))
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", item.Title)
	assert.Equal(t, advert.EmploymentRemote, item.EmploymentType)
	require.NotNil(t, item.PublishAt)
	assert.True(t, publishAt.Equal(*item.PublishAt))
	assert.Nil(t, item.PublishedAt)
	assert.Equal(t, 4, item.ApplicantCount)
	assert.Equal(t, advert.StateScheduled, item.State())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvertGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdvertRepository(db)

	mock.ExpectQuery("FROM job_adverts a WHERE a.id").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), common.NewUUID())
	assert.True(t, common.Is(err, common.CodeNotFound))
}

func TestAdvertListOrdersAndCounts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdvertRepository(db)
	created := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM job_adverts")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY a.is_published DESC, applicant_count DESC, a.created_at ASC")).
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows(advertRowColumns).
			AddRow("a1", "t1", "c", "contract", "entry", "d", "jd", "l", true, false, nil, created, created, created, 2).
			AddRow("a2", "t2", "c", "contract", "entry", "d", "jd", "l", false, false, nil, nil, created, created, 0))

	page, err := repo.List(context.Background(), 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, common.UUID("a1"), page.Items[0].ID)
	require.NotNil(t, page.Items[0].PublishedAt)
	assert.Equal(t, advert.StateOpen, page.Items[1].State())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvertDeleteGuardsPublished(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdvertRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM job_adverts WHERE id = $1 AND is_published = FALSE")).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), common.UUID("a1"))
	assert.True(t, common.Is(err, common.CodeNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvertPromoteScheduledIsConditional(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdvertRepository(db)
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("WHERE id = $2 AND is_scheduled = TRUE AND is_published = FALSE AND publish_at <= $1")

	mock.ExpectExec(query).WithArgs(now, "a1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs(now, "a1").WillReturnResult(sqlmock.NewResult(0, 0))

	promoted, err := repo.PromoteScheduled(context.Background(), common.UUID("a1"), now)
	require.NoError(t, err)
	assert.True(t, promoted)

	promoted, err = repo.PromoteScheduled(context.Background(), common.UUID("a1"), now)
	require.NoError(t, err)
	assert.False(t, promoted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvertListDueFiltersScheduled(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdvertRepository(db)
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	publishAt := now.Add(-time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.is_scheduled = TRUE AND a.is_published = FALSE AND a.publish_at <= $1")).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows(advertRowColumns).
			AddRow("a1", "t1", "c", "contract", "entry", "d", "jd", "l", false, true, publishAt, nil, now, now, 0))

	items, err := repo.ListDue(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Due(now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateMapsUniqueViolation(t *testing.T) {
	for name, driverErr := range map[string]error{
		"pgx": &pgconn.PgError{Code: "23505"},
		"pq":  &pq.Error{Code: "23505"},
	} {
		t.Run(name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewUserRepository(db)
			mock.ExpectExec("INSERT INTO users").WillReturnError(driverErr)

			_, err := repo.Create(context.Background(), user.User{Username: "taken", PasswordHash: "x"})
			assert.True(t, common.Is(err, common.CodeConflict))
		})
	}
}

func TestTokenReplaceUpserts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTokenRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id) DO UPDATE SET token_hash = EXCLUDED.token_hash")).
		WithArgs("u1", "hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Replace(context.Background(), auth.Token{UserID: common.UUID("u1"), Hash: "hash"}))
	require.NoError(t, mock.ExpectationsWereMet())
}
