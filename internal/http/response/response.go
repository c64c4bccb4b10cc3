package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talentpool/internal/common"
)

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    common.Code       `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error renders err and aborts the chain. Internal causes are attached to the
// gin context for the access log and never written to the client.
func Error(c *gin.Context, err error) {
	appErr, ok := common.As(err)
	if !ok {
		appErr = common.NewError(common.CodeInternal, "internal server error", err)
	}
	if appErr.Cause != nil || appErr.Code == common.CodeInternal {
		_ = c.Error(err)
	}
	payload := errorPayload{Code: appErr.Code, Message: appErr.Message, Fields: appErr.Fields}
	switch appErr.Code {
	case common.CodeInternal:
		payload.Message = "internal server error"
		payload.Fields = nil
	case common.CodeUnauthorized:
		payload.Message = "authentication required"
		payload.Fields = nil
	}
	c.AbortWithStatusJSON(StatusFor(appErr.Code), errorBody{Error: payload})
}

func StatusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
