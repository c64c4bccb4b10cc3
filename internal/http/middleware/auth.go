package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"talentpool/internal/common"
	"talentpool/internal/domain/user"
	"talentpool/internal/http/response"
)

const (
	contextUserKey  = "auth_user"
	contextTokenKey = "auth_token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.User, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate rejects requests without a valid bearer token. Both
// "Bearer <token>" and "Token <token>" schemes are accepted.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, common.NewError(common.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		account, err := m.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Set(contextUserKey, account)
		c.Set(contextTokenKey, token)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	scheme := strings.ToLower(parts[0])
	if scheme != "bearer" && scheme != "token" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func UserFromContext(c *gin.Context) (*user.User, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	account, ok := value.(*user.User)
	return account, ok
}

func TokenFromContext(c *gin.Context) (string, bool) {
	token := c.GetString(contextTokenKey)
	return token, token != ""
}
