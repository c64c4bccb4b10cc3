package config

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the runtime configuration of the API and the sweeper.
type Config struct {
	HTTPPort             string
	DatabaseURL          string
	DBDriver             string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxIdle        time.Duration
	DBConnMaxLife        time.Duration
	RedisURL             string
	LogLevel             string
	LogFormat            string
	GinMode              string
	RequestTimeout       time.Duration
	SweepEnabled         bool
	SweepInterval        time.Duration
	ApplyRateLimitPerMin int
	LoginRateLimitPerMin int
	PublishLeadTime      time.Duration
	DefaultPageSize      int
	MaxPageSize          int
}

// Driver names accepted by database/sql for the registered drivers.
const (
	DriverPgx = "pgx"
	DriverPQ  = "postgres"
)

// LoadDotEnv reads .env style files into the process environment without
// overriding variables that are already set. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return errors.Wrapf(err, "load %s", path)
		}
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		HTTPPort:             strings.TrimSpace(v.GetString("http_port")),
		DatabaseURL:          strings.TrimSpace(v.GetString("database_url")),
		DBDriver:             normalizeDriver(v.GetString("db_driver")),
		DBMaxOpenConns:       v.GetInt("db_max_open_conns"),
		DBMaxIdleConns:       v.GetInt("db_max_idle_conns"),
		DBConnMaxIdle:        v.GetDuration("db_conn_max_idle"),
		DBConnMaxLife:        v.GetDuration("db_conn_max_life"),
		RedisURL:             strings.TrimSpace(v.GetString("redis_url")),
		LogLevel:             strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		LogFormat:            strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		GinMode:              strings.TrimSpace(v.GetString("gin_mode")),
		RequestTimeout:       v.GetDuration("request_timeout"),
		SweepEnabled:         v.GetBool("sweep_enabled"),
		SweepInterval:        v.GetDuration("sweep_interval"),
		ApplyRateLimitPerMin: v.GetInt("apply_rate_limit_per_min"),
		LoginRateLimitPerMin: v.GetInt("login_rate_limit_per_min"),
		PublishLeadTime:      v.GetDuration("publish_lead_time"),
		DefaultPageSize:      v.GetInt("default_page_size"),
		MaxPageSize:          v.GetInt("max_page_size"),
	}

	invalid := make([]string, 0, 8)
	if cfg.HTTPPort == "" {
		invalid = append(invalid, "HTTP_PORT")
	}
	if cfg.DBDriver != DriverPgx && cfg.DBDriver != DriverPQ {
		invalid = append(invalid, "DB_DRIVER")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		invalid = append(invalid, "LOG_FORMAT")
	}
	if cfg.SweepInterval <= 0 {
		invalid = append(invalid, "SWEEP_INTERVAL")
	}
	if cfg.RequestTimeout <= 0 {
		invalid = append(invalid, "REQUEST_TIMEOUT")
	}
	if cfg.ApplyRateLimitPerMin < 0 {
		invalid = append(invalid, "APPLY_RATE_LIMIT_PER_MIN")
	}
	if cfg.LoginRateLimitPerMin < 0 {
		invalid = append(invalid, "LOGIN_RATE_LIMIT_PER_MIN")
	}
	if cfg.PublishLeadTime < 0 {
		invalid = append(invalid, "PUBLISH_LEAD_TIME")
	}
	if cfg.DefaultPageSize <= 0 || cfg.MaxPageSize < cfg.DefaultPageSize {
		invalid = append(invalid, "DEFAULT_PAGE_SIZE/MAX_PAGE_SIZE")
	}
	if len(invalid) > 0 {
		return Config{}, errors.Newf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("db_driver", DriverPgx)
	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 10)
	v.SetDefault("db_conn_max_idle", 5*time.Minute)
	v.SetDefault("db_conn_max_life", 30*time.Minute)
	v.SetDefault("redis_url", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("sweep_enabled", true)
	v.SetDefault("sweep_interval", 60*time.Second)
	v.SetDefault("apply_rate_limit_per_min", 10)
	v.SetDefault("login_rate_limit_per_min", 10)
	v.SetDefault("publish_lead_time", 5*time.Minute)
	v.SetDefault("default_page_size", 10)
	v.SetDefault("max_page_size", 100)
}

func normalizeDriver(driver string) string {
	driver = strings.ToLower(strings.TrimSpace(driver))
	switch driver {
	case "pq", "postgres", "postgresql", "lib/pq":
		return DriverPQ
	case "", "pgx", "pgx/v5":
		return DriverPgx
	default:
		return driver
	}
}
