package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"talentpool/internal/common"
	"talentpool/internal/http/handlers"
	httpmw "talentpool/internal/http/middleware"
	"talentpool/internal/http/response"
	"talentpool/internal/metrics"
	"talentpool/internal/observability"
)

const maxBodyBytes = 1 << 20

type RouterDependencies struct {
	AuthHandler        *handlers.AuthHandler
	AdvertHandler      *handlers.AdvertHandler
	ApplicationHandler *handlers.ApplicationHandler
	HealthHandler      *handlers.HealthHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Metrics            *metrics.Collector
	Logger             *zap.SugaredLogger
	RequestTimeout     time.Duration
	Limiter            httpmw.Limiter
	ApplyLimitPerMin   int
	LoginLimitPerMin   int
}

// NewRouter wires the public API. Listing adverts, signing up, logging in and
// submitting applications are open to guests; every other advert and
// application route requires a token.
func NewRouter(deps RouterDependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = observability.NewNop()
	}
	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.HandleMethodNotAllowed = true
	engine.Use(
		httpmw.RequestID(),
		httpmw.Logging(deps.Logger),
		httpmw.Recover(deps.Logger),
		httpmw.Metrics(deps.Metrics),
		httpmw.Timeout(deps.RequestTimeout),
		bodyLimit(maxBodyBytes),
	)
	engine.NoRoute(func(c *gin.Context) {
		response.Error(c, common.NewError(common.CodeNotFound, "not found", nil))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"error": gin.H{"code": "method_not_allowed", "message": "method not allowed"}})
	})

	engine.GET("/health", deps.HealthHandler.Get)
	if deps.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	requireAuth := deps.AuthMiddleware.Authenticate()
	loginLimit := httpmw.RateLimit(deps.Limiter, "login", deps.LoginLimitPerMin, time.Minute)
	applyLimit := httpmw.RateLimit(deps.Limiter, "apply", deps.ApplyLimitPerMin, time.Minute)

	users := engine.Group("/users")
	users.POST("/", loginLimit, deps.AuthHandler.Signup)
	users.POST("/login", loginLimit, deps.AuthHandler.Login)
	users.DELETE("/login", requireAuth, deps.AuthHandler.Logout)

	adverts := engine.Group("/job-adverts")
	adverts.GET("/", deps.AdvertHandler.List)
	adverts.POST("/", requireAuth, deps.AdvertHandler.Create)
	adverts.POST("/:id/", requireAuth, deps.AdvertHandler.Create)
	adverts.GET("/:id/", requireAuth, deps.AdvertHandler.Get)
	adverts.PUT("/:id/", requireAuth, deps.AdvertHandler.Update)
	adverts.DELETE("/:id/", requireAuth, deps.AdvertHandler.Delete)
	adverts.POST("/:id/publish/", requireAuth, deps.AdvertHandler.Publish)
	adverts.DELETE("/:id/publish/", requireAuth, deps.AdvertHandler.Unpublish)
	adverts.POST("/:id/applications/", applyLimit, deps.ApplicationHandler.Submit)
	adverts.GET("/:id/applications/", requireAuth, deps.ApplicationHandler.ListByAdvert)

	applications := engine.Group("/job-applications")
	applications.GET("/:id/", requireAuth, deps.ApplicationHandler.Get)
	applications.DELETE("/:id/", requireAuth, deps.ApplicationHandler.Delete)

	return engine
}

func bodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
