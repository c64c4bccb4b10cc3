package commands

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"talentpool/internal/app"
	apphttp "talentpool/internal/http"
	"talentpool/internal/http/handlers"
	httpmw "talentpool/internal/http/middleware"
	"talentpool/internal/metrics"
	"talentpool/internal/observability"
	"talentpool/internal/scheduler"
	"talentpool/internal/security"
)

const shutdownTimeout = 10 * time.Second

var serveNoSweep bool

// ServeCmd runs the HTTP API together with the scheduled publish sweeper.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the job board API",
	Long: `Run the job board HTTP API.

Scheduled adverts are promoted by an in-process sweeper unless SWEEP_ENABLED
is false or --no-sweep is given, in which case run "talentpool sweep" from an
external scheduler instead.`,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().BoolVar(&serveNoSweep, "no-sweep", false, "Do not start the scheduled publish sweeper")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	limiter, closeLimiter, err := newLimiter(ctx, cfg.RedisURL, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeLimiter() }()

	adverts := app.NewAdvertService(store.adverts, cfg.PublishLeadTime)
	applications := app.NewApplicationService(store.applications, store.adverts)
	authService := app.NewAuthService(store.users, store.tokens, security.NewPasswordHasher(bcrypt.DefaultCost))
	collector := metrics.NewCollector()

	var health *handlers.HealthHandler
	if store.db != nil {
		health = handlers.NewHealthHandler(store.db)
	} else {
		health = handlers.NewHealthHandler(nil)
	}

	gin.SetMode(cfg.GinMode)
	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:        handlers.NewAuthHandler(authService),
		AdvertHandler:      handlers.NewAdvertHandler(adverts, handlers.Paginator{DefaultSize: cfg.DefaultPageSize, MaxSize: cfg.MaxPageSize}),
		ApplicationHandler: handlers.NewApplicationHandler(applications),
		HealthHandler:      health,
		AuthMiddleware:     httpmw.NewAuthMiddleware(authService),
		Metrics:            collector,
		Logger:             logger,
		RequestTimeout:     cfg.RequestTimeout,
		Limiter:            limiter,
		ApplyLimitPerMin:   cfg.ApplyRateLimitPerMin,
		LoginLimitPerMin:   cfg.LoginRateLimitPerMin,
	})

	if cfg.SweepEnabled && !serveNoSweep {
		sweeper := scheduler.NewSweeper(store.adverts, scheduler.SweeperConfig{Interval: cfg.SweepInterval}, collector, logger)
		sweeper.Start(ctx)
		defer sweeper.Stop()
	}

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infow("API started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("graceful shutdown failed", observability.FieldError, err)
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
