package auth

import (
	"context"
	"time"

	"talentpool/internal/common"
)

// Token is the single active bearer credential of a user. Only the hash of
// the raw token is stored.
type Token struct {
	UserID    common.UUID
	Hash      string
	CreatedAt time.Time
}

type TokenRepository interface {
	// Replace drops any existing token of the user and stores the new one.
	Replace(ctx context.Context, token Token) error
	GetByHash(ctx context.Context, hash string) (*Token, error)
	DeleteByHash(ctx context.Context, hash string) error
}
