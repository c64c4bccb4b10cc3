package application

import (
	"context"
	"time"

	"talentpool/internal/common"
)

type YearsOfExperience string

const (
	Experience0To1  YearsOfExperience = "0-1"
	Experience1To2  YearsOfExperience = "1-2"
	Experience3To4  YearsOfExperience = "3-4"
	Experience5To6  YearsOfExperience = "5-6"
	Experience7Plus YearsOfExperience = "7+"
)

func (y YearsOfExperience) Valid() bool {
	switch y {
	case Experience0To1, Experience1To2, Experience3To4, Experience5To6, Experience7Plus:
		return true
	default:
		return false
	}
}

type Application struct {
	ID                common.UUID       `json:"uuid"`
	AdvertID          common.UUID       `json:"job_advert"`
	FirstName         string            `json:"first_name"`
	LastName          string            `json:"last_name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	LinkedInProfile   string            `json:"linkedin_profile"`
	GithubProfile     string            `json:"github_profile"`
	Website           *string           `json:"website"`
	YearsOfExperience YearsOfExperience `json:"years_of_experience"`
	CoverLetter       *string           `json:"cover_letter"`
	CreatedAt         time.Time         `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, application Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	ListByAdvert(ctx context.Context, advertID common.UUID) ([]Application, error)
	Delete(ctx context.Context, id common.UUID) error
}
