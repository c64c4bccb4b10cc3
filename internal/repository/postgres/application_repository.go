package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"talentpool/internal/common"
	"talentpool/internal/domain/application"
)

const applicationColumns = `id, job_advert_id, first_name, last_name, email, phone, linkedin_profile, github_profile, website, years_of_experience, cover_letter, created_at`

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a application.Application) (*application.Application, error) {
	a.ID = common.NewUUID()
	a.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO job_applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.AdvertID, a.FirstName, a.LastName, a.Email, a.Phone, a.LinkedInProfile, a.GithubProfile,
		nullString(a.Website), a.YearsOfExperience, nullString(a.CoverLetter), a.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create job application", err)
	}
	return &a, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE id = $1`, id)
	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "job application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load job application", err)
	}
	return a, nil
}

func (r *ApplicationRepository) ListByAdvert(ctx context.Context, advertID common.UUID) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE job_advert_id = $1 ORDER BY created_at ASC`, advertID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list job applications", err)
	}
	defer rows.Close()
	items := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan job application", err)
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to iterate job applications", err)
	}
	return items, nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM job_applications WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete job application", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "job application not found", sql.ErrNoRows)
	}
	return nil
}

func scanApplication(row rowScanner) (*application.Application, error) {
	var a application.Application
	var website, coverLetter sql.NullString
	if err := row.Scan(&a.ID, &a.AdvertID, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.LinkedInProfile, &a.GithubProfile,
		&website, &a.YearsOfExperience, &coverLetter, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Website = stringPtr(website)
	a.CoverLetter = stringPtr(coverLetter)
	return &a, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	value := s.String
	return &value
}
