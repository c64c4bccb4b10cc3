package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentpool/internal/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(err error) (*httptest.ResponseRecorder, map[string]map[string]any) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	Error(c, err)
	var body map[string]map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestErrorValidationFields(t *testing.T) {
	rec, body := render(common.NewValidationError("invalid job advert", map[string]string{"publish_at": "too soon"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, body, "error")
	assert.Equal(t, "validation_error", body["error"]["code"])
	assert.Equal(t, map[string]any{"publish_at": "too soon"}, body["error"]["fields"])
}

func TestErrorHidesInternalCause(t *testing.T) {
	rec, body := render(errors.New("pq: relation does not exist"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", body["error"]["message"])
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestErrorUnauthorizedHasNoDetail(t *testing.T) {
	rec, body := render(common.NewError(common.CodeUnauthorized, "invalid token", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication required", body["error"]["message"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(common.CodeNotFound))
	assert.Equal(t, http.StatusConflict, StatusFor(common.CodeConflict))
	assert.Equal(t, http.StatusTooManyRequests, StatusFor(common.CodeRateLimited))
	assert.Equal(t, http.StatusInternalServerError, StatusFor("unknown"))
}
