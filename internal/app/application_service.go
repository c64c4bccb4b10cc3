package app

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"talentpool/internal/common"
	"talentpool/internal/domain/advert"
	"talentpool/internal/domain/application"
)

const (
	maxPhoneLength = 20
	maxURLLength   = 200
)

type ApplicationService struct {
	repo    application.Repository
	adverts advert.Repository
}

func NewApplicationService(repo application.Repository, adverts advert.Repository) *ApplicationService {
	return &ApplicationService{repo: repo, adverts: adverts}
}

// Submit records an application against a published advert. The advert is
// checked once before the insert; a concurrent unpublish can still slip in
// between the two.
func (s *ApplicationService) Submit(ctx context.Context, a application.Application) (*application.Application, error) {
	fields := common.FieldErrors{}
	validateApplicationFields(a, fields)
	if a.AdvertID.IsZero() {
		fields.Add("job_advert", "job_advert is required")
	} else {
		target, err := s.adverts.GetByID(ctx, a.AdvertID)
		switch {
		case common.Is(err, common.CodeNotFound):
			fields.Add("job_advert", "job advert does not exist")
		case err != nil:
			return nil, err
		case !target.IsPublished:
			fields.Add("job_advert", "applications are only accepted for published job adverts")
		}
	}
	if err := fields.Err("invalid job application"); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, a)
}

// ListByAdvert returns the applications of an existing advert in submission
// order.
func (s *ApplicationService) ListByAdvert(ctx context.Context, advertID common.UUID) ([]application.Application, error) {
	if _, err := s.adverts.GetByID(ctx, advertID); err != nil {
		return nil, err
	}
	return s.repo.ListByAdvert(ctx, advertID)
}

func (s *ApplicationService) Get(ctx context.Context, id common.UUID) (*application.Application, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ApplicationService) Delete(ctx context.Context, id common.UUID) error {
	return s.repo.Delete(ctx, id)
}

func validateApplicationFields(a application.Application, fields common.FieldErrors) {
	requireChars(fields, "first_name", a.FirstName, maxCharFieldLength)
	requireChars(fields, "last_name", a.LastName, maxCharFieldLength)
	requireChars(fields, "phone", a.Phone, maxPhoneLength)
	if strings.TrimSpace(a.Email) == "" {
		fields.Add("email", "email is required")
	} else if !validEmail(a.Email) {
		fields.Add("email", "enter a valid email address")
	}
	requireURL(fields, "linkedin_profile", a.LinkedInProfile)
	requireURL(fields, "github_profile", a.GithubProfile)
	if a.Website != nil && strings.TrimSpace(*a.Website) != "" {
		requireURL(fields, "website", *a.Website)
	}
	if !a.YearsOfExperience.Valid() {
		fields.Add("years_of_experience", "years_of_experience must be one of 0-1, 1-2, 3-4, 5-6, 7+")
	}
}

func requireURL(fields common.FieldErrors, name, value string) {
	if strings.TrimSpace(value) == "" {
		fields.Add(name, name+" is required")
		return
	}
	if utf8.RuneCountInString(value) > maxURLLength {
		fields.Add(name, fmt.Sprintf("%s must be at most %d characters", name, maxURLLength))
		return
	}
	if !validURL(value) {
		fields.Add(name, "enter a valid URL")
	}
}

func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}
	at := strings.LastIndex(value, "@")
	return at > 0 && strings.Contains(value[at+1:], ".")
}

func validURL(value string) bool {
	parsed, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != "" && !strings.ContainsAny(value, " \t\n")
}
