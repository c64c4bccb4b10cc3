package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"talentpool/internal/common"
	"talentpool/internal/domain/advert"
)

const advertColumns = `a.id, a.title, a.company_name, a.employment_type, a.experience_level, a.description, a.job_description, a.location,
	a.is_published, a.is_scheduled, a.publish_at, a.published_at, a.created_at, a.updated_at,
	(SELECT COUNT(*) FROM job_applications ja WHERE ja.job_advert_id = a.id) AS applicant_count`

type AdvertRepository struct {
	db *sql.DB
}

func NewAdvertRepository(db *sql.DB) *AdvertRepository {
	return &AdvertRepository{db: db}
}

func (r *AdvertRepository) Create(ctx context.Context, a advert.Advert) (*advert.Advert, error) {
	a.ID = common.NewUUID()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	a.ApplicantCount = 0
	_, err := r.db.ExecContext(ctx, `INSERT INTO job_adverts (id, title, company_name, employment_type, experience_level, description, job_description, location, is_published, is_scheduled, publish_at, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		a.ID, a.Title, a.CompanyName, a.EmploymentType, a.ExperienceLevel, a.Description, a.JobDescription, a.Location,
		a.IsPublished, a.IsScheduled, nullTime(a.PublishAt), nullTime(a.PublishedAt), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create job advert", err)
	}
	return &a, nil
}

func (r *AdvertRepository) Update(ctx context.Context, a advert.Advert) (*advert.Advert, error) {
	a.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE job_adverts SET title = $1, company_name = $2, employment_type = $3, experience_level = $4, description = $5, job_description = $6, location = $7,
		is_published = $8, is_scheduled = $9, publish_at = $10, published_at = $11, updated_at = $12
		WHERE id = $13`,
		a.Title, a.CompanyName, a.EmploymentType, a.ExperienceLevel, a.Description, a.JobDescription, a.Location,
		a.IsPublished, a.IsScheduled, nullTime(a.PublishAt), nullTime(a.PublishedAt), a.UpdatedAt, a.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job advert", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "job advert not found", sql.ErrNoRows)
	}
	return &a, nil
}

func (r *AdvertRepository) GetByID(ctx context.Context, id common.UUID) (*advert.Advert, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+advertColumns+` FROM job_adverts a WHERE a.id = $1`, id)
	a, err := scanAdvert(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "job advert not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load job advert", err)
	}
	return a, nil
}

func (r *AdvertRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM job_adverts WHERE id = $1 AND is_published = FALSE`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete job advert", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "job advert not found", sql.ErrNoRows)
	}
	return nil
}

func (r *AdvertRepository) List(ctx context.Context, limit, offset int) (advert.Page, error) {
	var page advert.Page
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_adverts`).Scan(&page.Total); err != nil {
		return advert.Page{}, common.NewError(common.CodeInternal, "failed to count job adverts", err)
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+advertColumns+` FROM job_adverts a
		ORDER BY a.is_published DESC, applicant_count DESC, a.created_at ASC, a.id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return advert.Page{}, common.NewError(common.CodeInternal, "failed to list job adverts", err)
	}
	defer rows.Close()
	page.Items, err = scanAdverts(rows)
	if err != nil {
		return advert.Page{}, err
	}
	return page, nil
}

func (r *AdvertRepository) ListDue(ctx context.Context, now time.Time) ([]advert.Advert, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+advertColumns+` FROM job_adverts a
		WHERE a.is_scheduled = TRUE AND a.is_published = FALSE AND a.publish_at <= $1 ORDER BY a.publish_at ASC`, now)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list due job adverts", err)
	}
	defer rows.Close()
	return scanAdverts(rows)
}

func (r *AdvertRepository) PromoteScheduled(ctx context.Context, id common.UUID, now time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE job_adverts SET is_published = TRUE, is_scheduled = FALSE, published_at = $1, updated_at = $1
		WHERE id = $2 AND is_scheduled = TRUE AND is_published = FALSE AND publish_at <= $1`, now, id)
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to publish scheduled job advert", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to publish scheduled job advert", err)
	}
	return rows > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdvert(row rowScanner) (*advert.Advert, error) {
	var a advert.Advert
	var publishAt, publishedAt pq.NullTime
	if err := row.Scan(&a.ID, &a.Title, &a.CompanyName, &a.EmploymentType, &a.ExperienceLevel, &a.Description, &a.JobDescription, &a.Location,
		&a.IsPublished, &a.IsScheduled, &publishAt, &publishedAt, &a.CreatedAt, &a.UpdatedAt, &a.ApplicantCount); err != nil {
		return nil, err
	}
	a.PublishAt = timePtr(publishAt)
	a.PublishedAt = timePtr(publishedAt)
	return &a, nil
}

func scanAdverts(rows *sql.Rows) ([]advert.Advert, error) {
	items := make([]advert.Advert, 0)
	for rows.Next() {
		a, err := scanAdvert(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan job advert", err)
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to iterate job adverts", err)
	}
	return items, nil
}

func nullTime(t *time.Time) pq.NullTime {
	if t == nil {
		return pq.NullTime{}
	}
	return pq.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t pq.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time.UTC()
	return &value
}
