package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"talentpool/internal/common"
)

// bindJSON decodes the request body strictly enough to report malformed input
// as a validation error instead of a 500.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return common.NewValidationError("request body is required", nil)
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return common.NewValidationError("invalid request body", map[string]string{typeErr.Field: "invalid value"})
		}
		var timeErr *time.ParseError
		if errors.As(err, &timeErr) {
			return common.NewValidationError("invalid request body", map[string]string{"publish_at": "invalid datetime, use RFC 3339"})
		}
		return common.NewValidationError("invalid request body", nil)
	}
	return nil
}

// pathID parses a UUID path parameter. Malformed ids do not match any route
// and are reported as not found.
func pathID(c *gin.Context, name string) (common.UUID, error) {
	id, err := common.ParseUUID(c.Param(name))
	if err != nil {
		return "", common.NewError(common.CodeNotFound, "not found", nil)
	}
	return id, nil
}

// optionalTime records whether a JSON field was present, including an
// explicit null.
type optionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *optionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var value time.Time
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	value = value.UTC()
	o.Value = &value
	return nil
}
