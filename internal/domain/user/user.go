package user

import (
	"context"
	"time"

	"talentpool/internal/common"
)

type User struct {
	ID           common.UUID `json:"uuid"`
	Username     string      `json:"username"`
	Email        string      `json:"email,omitempty"`
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
}

type Repository interface {
	// Create reports CodeConflict when the username is taken.
	Create(ctx context.Context, user User) (*User, error)
	GetByID(ctx context.Context, id common.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}
