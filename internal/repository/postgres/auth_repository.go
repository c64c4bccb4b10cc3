package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"talentpool/internal/common"
	"talentpool/internal/domain/auth"
	"talentpool/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (*user.User, error) {
	u.ID = common.NewUUID()
	u.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "username already taken", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create user", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "user not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load user", err)
	}
	return &u, nil
}

type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Replace(ctx context.Context, token auth.Token) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO auth_tokens (user_id, token_hash, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET token_hash = EXCLUDED.token_hash, created_at = EXCLUDED.created_at`,
		token.UserID, token.Hash, token.CreatedAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to store token", err)
	}
	return nil
}

func (r *TokenRepository) GetByHash(ctx context.Context, hash string) (*auth.Token, error) {
	row := r.db.QueryRowContext(ctx, `SELECT user_id, token_hash, created_at FROM auth_tokens WHERE token_hash = $1`, hash)
	var token auth.Token
	if err := row.Scan(&token.UserID, &token.Hash, &token.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "token not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load token", err)
	}
	return &token, nil
}

func (r *TokenRepository) DeleteByHash(ctx context.Context, hash string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE token_hash = $1`, hash); err != nil {
		return common.NewError(common.CodeInternal, "failed to delete token", err)
	}
	return nil
}
