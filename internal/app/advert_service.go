package app

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"talentpool/internal/common"
	"talentpool/internal/domain/advert"
)

const (
	maxCharFieldLength = 255
	minPublishLead     = 5 * time.Minute
)

type AdvertService struct {
	repo     advert.Repository
	leadTime time.Duration
	clock    func() time.Time
}

func NewAdvertService(repo advert.Repository, leadTime time.Duration) *AdvertService {
	if leadTime <= 0 {
		leadTime = minPublishLead
	}
	return &AdvertService{
		repo:     repo,
		leadTime: leadTime,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source used for publish_at validation.
func (s *AdvertService) WithClock(clock func() time.Time) *AdvertService {
	s.clock = clock
	return s
}

// Create stores a new advert. Without publish_at the advert goes live at once;
// with publish_at it is scheduled for the sweep. Lifecycle flags on the input
// are ignored.
func (s *AdvertService) Create(ctx context.Context, a advert.Advert) (*advert.Advert, error) {
	fields := common.FieldErrors{}
	validateAdvertFields(a, fields)
	now := s.clock()
	if a.PublishAt != nil {
		s.validatePublishAt(*a.PublishAt, now, fields)
	}
	if err := fields.Err("invalid job advert"); err != nil {
		return nil, err
	}

	a.PublishedAt = nil
	if a.PublishAt == nil {
		a.IsPublished = true
		a.IsScheduled = false
		publishedAt := now
		a.PublishedAt = &publishedAt
	} else {
		at := a.PublishAt.UTC()
		a.PublishAt = &at
		a.IsPublished = false
		a.IsScheduled = true
	}
	return s.repo.Create(ctx, a)
}

// Update applies the supplied fields. publish_at is re-validated when it
// changes or when the advert re-enters the schedule, and the result must keep
// a scheduled advert unpublished with a publish time.
func (s *AdvertService) Update(ctx context.Context, id common.UUID, patch advert.Patch) (*advert.Advert, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	next := patch.Apply(*current)

	fields := common.FieldErrors{}
	validateAdvertFields(next, fields)
	rescheduled := next.IsScheduled && !current.IsScheduled
	if next.PublishAt != nil && (patch.PublishAtChanged(*current) || rescheduled) {
		s.validatePublishAt(*next.PublishAt, now, fields)
	}
	if !next.Consistent() {
		fields.Add("is_scheduled", "a scheduled advert requires publish_at and must not be published")
	}
	if err := fields.Err("invalid job advert"); err != nil {
		return nil, err
	}

	if next.IsPublished && !current.IsPublished {
		publishedAt := now
		next.PublishedAt = &publishedAt
	}
	return s.repo.Update(ctx, next)
}

// Publish makes the advert visible and drops any pending schedule.
func (s *AdvertService) Publish(ctx context.Context, id common.UUID) (*advert.Advert, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.IsPublished {
		publishedAt := s.clock()
		current.PublishedAt = &publishedAt
	}
	current.IsPublished = true
	current.IsScheduled = false
	return s.repo.Update(ctx, *current)
}

func (s *AdvertService) Unpublish(ctx context.Context, id common.UUID) (*advert.Advert, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	current.IsPublished = false
	return s.repo.Update(ctx, *current)
}

func (s *AdvertService) Delete(ctx context.Context, id common.UUID) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.IsPublished {
		return common.NewValidationError("published adverts cannot be deleted", map[string]string{"is_published": "unpublish the advert before deleting it"})
	}
	return s.repo.Delete(ctx, id)
}

func (s *AdvertService) Get(ctx context.Context, id common.UUID) (*advert.Advert, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AdvertService) List(ctx context.Context, limit, offset int) (advert.Page, error) {
	if limit <= 0 || offset < 0 {
		return advert.Page{}, common.NewError(common.CodeValidation, "invalid pagination", nil)
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *AdvertService) validatePublishAt(at, now time.Time, fields common.FieldErrors) {
	if at.Before(now.Add(s.leadTime)) {
		fields.Add("publish_at", fmt.Sprintf("publish_at must be at least %s in the future", formatLead(s.leadTime)))
	}
}

func validateAdvertFields(a advert.Advert, fields common.FieldErrors) {
	requireChars(fields, "title", a.Title, maxCharFieldLength)
	requireChars(fields, "company_name", a.CompanyName, maxCharFieldLength)
	requireChars(fields, "location", a.Location, maxCharFieldLength)
	if strings.TrimSpace(a.Description) == "" {
		fields.Add("description", "description is required")
	}
	if strings.TrimSpace(a.JobDescription) == "" {
		fields.Add("job_description", "job_description is required")
	}
	if !a.EmploymentType.Valid() {
		fields.Add("employment_type", "employment_type must be full_time, contract, remote, or part_time")
	}
	if !a.ExperienceLevel.Valid() {
		fields.Add("experience_level", "experience_level must be entry, mid, or senior")
	}
}

func requireChars(fields common.FieldErrors, name, value string, max int) {
	if strings.TrimSpace(value) == "" {
		fields.Add(name, name+" is required")
		return
	}
	if utf8.RuneCountInString(value) > max {
		fields.Add(name, fmt.Sprintf("%s must be at most %d characters", name, max))
	}
}

func formatLead(d time.Duration) string {
	if d%time.Minute == 0 {
		minutes := int(d / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	return d.String()
}
