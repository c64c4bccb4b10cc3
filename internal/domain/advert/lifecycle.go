package advert

import "time"

type State string

const (
	StateOpen        State = "open"
	StateScheduled   State = "scheduled"
	StatePublished   State = "published"
	StateUnpublished State = "unpublished"
)

// State derives the lifecycle state from the stored flags.
func (a Advert) State() State {
	switch {
	case a.IsPublished:
		return StatePublished
	case a.IsScheduled:
		return StateScheduled
	case a.PublishedAt != nil:
		return StateUnpublished
	default:
		return StateOpen
	}
}

// Consistent reports whether a scheduled advert has a publish time and is not
// yet published.
func (a Advert) Consistent() bool {
	if !a.IsScheduled {
		return true
	}
	return a.PublishAt != nil && !a.IsPublished
}

// Due reports whether the sweep should promote the advert at now.
func (a Advert) Due(now time.Time) bool {
	return a.IsScheduled && !a.IsPublished && a.PublishAt != nil && !a.PublishAt.After(now)
}

// Less orders adverts for listing: published first, then by applicant count
// descending, then oldest first.
func Less(a, b Advert) bool {
	if a.IsPublished != b.IsPublished {
		return a.IsPublished
	}
	if a.ApplicantCount != b.ApplicantCount {
		return a.ApplicantCount > b.ApplicantCount
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// Apply copies the supplied patch fields onto a.
func (p Patch) Apply(a Advert) Advert {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.CompanyName != nil {
		a.CompanyName = *p.CompanyName
	}
	if p.EmploymentType != nil {
		a.EmploymentType = *p.EmploymentType
	}
	if p.ExperienceLevel != nil {
		a.ExperienceLevel = *p.ExperienceLevel
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.JobDescription != nil {
		a.JobDescription = *p.JobDescription
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.IsPublished != nil {
		a.IsPublished = *p.IsPublished
	}
	if p.IsScheduled != nil {
		a.IsScheduled = *p.IsScheduled
	}
	if p.ClearPublishAt {
		a.PublishAt = nil
	} else if p.PublishAt != nil {
		at := *p.PublishAt
		a.PublishAt = &at
	}
	return a
}

// PublishAtChanged reports whether applying p alters the publish time of a.
func (p Patch) PublishAtChanged(a Advert) bool {
	if p.ClearPublishAt {
		return false
	}
	if p.PublishAt == nil {
		return false
	}
	return a.PublishAt == nil || !a.PublishAt.Equal(*p.PublishAt)
}
