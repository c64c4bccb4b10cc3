package commands

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"talentpool/internal/config"
	"talentpool/internal/database"
	"talentpool/internal/domain/advert"
	"talentpool/internal/domain/application"
	"talentpool/internal/domain/auth"
	"talentpool/internal/domain/user"
	httpmw "talentpool/internal/http/middleware"
	"talentpool/internal/observability"
	"talentpool/internal/repository/memory"
	"talentpool/internal/repository/postgres"
)

// backend bundles the repositories a command runs against.
type backend struct {
	db           *sql.DB
	adverts      advert.Repository
	applications application.Repository
	users        user.Repository
	tokens       auth.TokenRepository
}

func (b *backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

func loadRuntime() (config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, errors.Wrap(err, "build logger")
	}
	return cfg, logger, nil
}

// openBackend connects to Postgres and applies pending migrations. Without a
// DATABASE_URL the process keeps its data in memory.
func openBackend(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (*backend, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL is empty, using in-memory storage")
		store := memory.NewStore()
		return &backend{
			adverts:      store.Adverts(),
			applications: store.Applications(),
			users:        store.Users(),
			tokens:       store.Tokens(),
		}, nil
	}

	db, err := database.NewPostgres(ctx, database.PostgresConfig{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	}, logger)
	if err != nil {
		return nil, err
	}
	if _, err := database.Migrate(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &backend{
		db:           db,
		adverts:      postgres.NewAdvertRepository(db),
		applications: postgres.NewApplicationRepository(db),
		users:        postgres.NewUserRepository(db),
		tokens:       postgres.NewTokenRepository(db),
	}, nil
}

// newLimiter shares rate limit windows through Redis when REDIS_URL is set and
// reachable, and falls back to a per-process limiter otherwise.
func newLimiter(ctx context.Context, redisURL string, logger *zap.SugaredLogger) (httpmw.Limiter, func() error, error) {
	noop := func() error { return nil }
	if redisURL == "" {
		return httpmw.NewRateLimiter(), noop, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse REDIS_URL")
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warnw("redis unavailable, using in-process rate limiter", observability.FieldError, err)
		_ = client.Close()
		return httpmw.NewRateLimiter(), noop, nil
	}
	return httpmw.NewRedisLimiter(client, "talentpool:ratelimit"), client.Close, nil
}
