// Package config loads the server configuration from environment variables.
// Defaults are applied for unset values and everything is validated on
// startup so a misconfigured deployment fails fast.
package config

import (
	"strconv"
	"time"
	_ "time/tzdata" // SCHEDULE_TIMEZONE must resolve in minimal containers
	"unicode/utf8"
)

// Feed source kinds accepted by FEED_SOURCE.
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
	SourceDir      = "dir"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Feeds    FeedConfig
	Database DatabaseConfig
	Schedule ScheduleConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the chi Timeout middleware budget per request.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// FeedConfig selects where the three feeds come from and how they are read.
type FeedConfig struct {
	// Source is one of http, postgres, dir (default: http)
	Source string `env:"FEED_SOURCE" default:"http"`

	// Published sheet URLs, used when Source is http
	SchoolsURL         string `env:"FEED_SCHOOLS_URL"`
	ResourcePersonsURL string `env:"FEED_RESOURCE_PERSONS_URL" envAlt:"FEED_RP_URL"`
	TopicsURL          string `env:"FEED_TOPICS_URL"`

	// Dir holds schools.csv, resource_persons.csv and topics.csv when
	// Source is dir
	Dir string `env:"FEED_DIR" default:"data"`

	// Table holds the feed bodies when Source is postgres
	Table string `env:"FEED_TABLE" default:"training_feeds"`

	// SeedDir, if set with Source postgres, is copied into Table at startup
	SeedDir string `env:"FEED_SEED_DIR"`

	FetchTimeout time.Duration `env:"FEED_FETCH_TIMEOUT" default:"30s"`
	LoadTimeout  time.Duration `env:"FEED_LOAD_TIMEOUT" default:"2m"`

	// MaxSize caps each feed body in bytes (default: 10MB)
	MaxSize int64 `env:"FEED_MAX_SIZE" default:"10485760"`

	// RefreshInterval reloads feeds in the background; 0 disables
	RefreshInterval time.Duration `env:"FEED_REFRESH_INTERVAL" default:"15m"`

	// Delimiter separates fields in the tabular feeds (one character)
	Delimiter string `env:"FEED_DELIMITER" default:","`
}

// DatabaseConfig holds database connection settings. Only used by the
// postgres feed source.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL" envAlt:"DB_URL"`
	MaxConns        int           `env:"DB_MAX_CONNS" default:"5"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ScheduleConfig holds the booking calendar settings.
type ScheduleConfig struct {
	// Timezone decides what "today" is for the past-date check
	Timezone string `env:"SCHEDULE_TIMEZONE" default:"Asia/Kolkata"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// RefreshPerMinute limits POST /api/refresh per IP (default: 2)
	RefreshPerMinute int `env:"RATE_LIMIT_REFRESH" default:"2"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the refresh endpoint
	RequireAPIKey bool     `env:"REQUIRE_API_KEY" default:"false"`
	APIKeys       []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level     string `env:"LOG_LEVEL" default:"info"`
	Format    string `env:"LOG_FORMAT" default:"text"`
	AddSource bool   `env:"LOG_ADD_SOURCE" default:"false"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled      bool   `env:"METRICS_ENABLED" default:"true"`
	Namespace    string `env:"METRICS_NAMESPACE" default:"training"`
	GoCollectors bool   `env:"METRICS_GO_COLLECTORS" default:"true"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// DelimiterRune returns the configured delimiter, or ',' if it is not a
// single character.
func (c *FeedConfig) DelimiterRune() rune {
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Location returns the schedule time zone, or UTC if it cannot be loaded.
func (c *ScheduleConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
