package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"talentpool/internal/common"
	"talentpool/internal/http/response"
	"talentpool/internal/metrics"
	"talentpool/internal/observability"
)

const (
	HeaderRequestID = "X-Request-ID"
	requestIDKey    = "request_id"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func Logging(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			observability.FieldRequestID, RequestIDFromContext(c),
			observability.FieldMethod, c.Request.Method,
			observability.FieldPath, c.Request.URL.Path,
			observability.FieldStatus, status,
			observability.FieldDurationMS, time.Since(start).Milliseconds(),
			observability.FieldClientIP, c.ClientIP(),
		}
		if account, ok := UserFromContext(c); ok {
			fields = append(fields, observability.FieldUserID, account.ID.String())
		}
		if len(c.Errors) > 0 {
			fields = append(fields, observability.FieldError, c.Errors.String())
		}
		switch {
		case status >= 500:
			logger.Errorw("request failed", fields...)
		case status >= 400:
			logger.Infow("request rejected", fields...)
		default:
			logger.Infow("request completed", fields...)
		}
	}
}

// Recover turns a handler panic into a 500 response.
func Recover(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Errorw("panic recovered",
					observability.FieldRequestID, RequestIDFromContext(c),
					observability.FieldPath, c.Request.URL.Path,
					"panic", rec,
				)
				response.Error(c, common.NewError(common.CodeInternal, "internal server error", nil))
			}
		}()
		c.Next()
	}
}

func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		collector.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// Timeout bounds the request context; store calls observe the deadline.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
