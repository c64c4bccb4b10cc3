package advert

import (
	"time"

	"talentpool/internal/common"
)

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "full_time"
	EmploymentContract EmploymentType = "contract"
	EmploymentRemote   EmploymentType = "remote"
	EmploymentPartTime EmploymentType = "part_time"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentFullTime, EmploymentContract, EmploymentRemote, EmploymentPartTime:
		return true
	default:
		return false
	}
}

type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
)

func (l ExperienceLevel) Valid() bool {
	switch l {
	case ExperienceEntry, ExperienceMid, ExperienceSenior:
		return true
	default:
		return false
	}
}

type Advert struct {
	ID              common.UUID     `json:"uuid"`
	Title           string          `json:"title"`
	CompanyName     string          `json:"company_name"`
	EmploymentType  EmploymentType  `json:"employment_type"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	Description     string          `json:"description"`
	JobDescription  string          `json:"job_description"`
	Location        string          `json:"location"`
	IsPublished     bool            `json:"is_published"`
	IsScheduled     bool            `json:"is_scheduled"`
	PublishAt       *time.Time      `json:"publish_at"`
	PublishedAt     *time.Time      `json:"published_at,omitempty"`
	ApplicantCount  int             `json:"applicant_count"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Patch carries a partial update. Nil fields are left untouched.
// ClearPublishAt distinguishes an explicit null publish_at from an absent one.
type Patch struct {
	Title           *string
	CompanyName     *string
	EmploymentType  *EmploymentType
	ExperienceLevel *ExperienceLevel
	Description     *string
	JobDescription  *string
	Location        *string
	IsPublished     *bool
	IsScheduled     *bool
	PublishAt       *time.Time
	ClearPublishAt  bool
}

// Page is one slice of the ordered advert listing.
type Page struct {
	Items []Advert
	Total int
}
