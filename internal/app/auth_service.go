package app

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"talentpool/internal/common"
	"talentpool/internal/domain/auth"
	"talentpool/internal/domain/user"
	"talentpool/internal/security"
)

const (
	maxUsernameLength = 150
	minPasswordLength = 8
	maxPasswordBytes  = 72
)

// AuthService issues and checks the opaque bearer tokens used by the HTTP
// layer. Each user holds at most one token at a time.
type AuthService struct {
	users  user.Repository
	tokens auth.TokenRepository
	hasher *security.PasswordHasher
}

func NewAuthService(users user.Repository, tokens auth.TokenRepository, hasher *security.PasswordHasher) *AuthService {
	return &AuthService{users: users, tokens: tokens, hasher: hasher}
}

type Credentials struct {
	Username string
	Email    string
	Password string
}

type Session struct {
	User  *user.User
	Token string
}

func (s *AuthService) Register(ctx context.Context, creds Credentials) (*Session, error) {
	username := strings.TrimSpace(creds.Username)
	fields := common.FieldErrors{}
	if username == "" {
		fields.Add("username", "username is required")
	} else if utf8.RuneCountInString(username) > maxUsernameLength {
		fields.Add("username", "username must be at most 150 characters")
	}
	if utf8.RuneCountInString(creds.Password) < minPasswordLength {
		fields.Add("password", "password must be at least 8 characters")
	} else if len(creds.Password) > maxPasswordBytes {
		fields.Add("password", "password must be at most 72 bytes")
	}
	email := strings.TrimSpace(creds.Email)
	if email != "" && !validEmail(email) {
		fields.Add("email", "enter a valid email address")
	}
	if err := fields.Err("invalid user"); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(creds.Password)
	if errors.Is(err, security.ErrPasswordTooLong) {
		return nil, common.NewValidationError("invalid user", map[string]string{"password": "password must be at most 72 bytes"})
	}
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	account, err := s.users.Create(ctx, user.User{Username: username, Email: email, PasswordHash: hash})
	if err != nil {
		return nil, err
	}
	token, err := s.issueToken(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: account, Token: token}, nil
}

// Login checks credentials and rotates the user's token. Unknown users and
// wrong passwords fail with the same message.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, common.NewValidationError("unable to log in with provided credentials", nil)
	}
	account, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewValidationError("unable to log in with provided credentials", nil)
		}
		return nil, err
	}
	if !s.hasher.Verify(account.PasswordHash, password) {
		return nil, common.NewValidationError("unable to log in with provided credentials", nil)
	}
	token, err := s.issueToken(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: account, Token: token}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.tokens.DeleteByHash(ctx, security.HashToken(token))
}

// Authenticate resolves a raw bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*user.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, common.NewError(common.CodeUnauthorized, "authentication credentials were not provided", nil)
	}
	stored, err := s.tokens.GetByHash(ctx, security.HashToken(token))
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "invalid token", nil)
		}
		return nil, err
	}
	account, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "invalid token", nil)
		}
		return nil, err
	}
	return account, nil
}

func (s *AuthService) issueToken(ctx context.Context, userID common.UUID) (string, error) {
	raw, hash, err := security.NewToken()
	if err != nil {
		return "", common.NewError(common.CodeInternal, "failed to generate token", err)
	}
	if err := s.tokens.Replace(ctx, auth.Token{UserID: userID, Hash: hash}); err != nil {
		return "", err
	}
	return raw, nil
}
