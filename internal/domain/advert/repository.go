package advert

import (
	"context"
	"time"

	"talentpool/internal/common"
)

type Repository interface {
	Create(ctx context.Context, advert Advert) (*Advert, error)
	Update(ctx context.Context, advert Advert) (*Advert, error)
	GetByID(ctx context.Context, id common.UUID) (*Advert, error)
	// Delete removes an unpublished advert. It reports CodeNotFound when no
	// unpublished row with that id exists.
	Delete(ctx context.Context, id common.UUID) error
	// List returns adverts in listing order (see Less).
	List(ctx context.Context, limit, offset int) (Page, error)
	// ListDue returns scheduled, unpublished adverts whose publish_at <= now.
	ListDue(ctx context.Context, now time.Time) ([]Advert, error)
	// PromoteScheduled flips one due advert to published. It reports false when
	// the row no longer matches the due predicate.
	PromoteScheduled(ctx context.Context, id common.UUID, now time.Time) (bool, error)
}
