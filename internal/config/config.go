package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Source kinds
const (
	SourceDrive = "drive"
	SourceLocal = "local"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Data file source configuration
	Source SourceConfig

	// Database configuration, optional; saved views are disabled without it
	Database DatabaseConfig

	// Result cache configuration
	Cache CacheConfig

	// JWT configuration
	JWT JWTConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// WebSocket configuration
	WebSocket WebSocketConfig

	// Logging configuration
	Logging LoggingConfig

	// Application metadata
	App AppConfig

	// Dashboard business rules
	Dashboard DashboardConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// SourceConfig selects where the ticket export and execution workbook come from
type SourceConfig struct {
	Kind                 string // drive, local
	Dir                  string
	DriveFolderID        string
	DriveCredentialsFile string
	TicketsFile          string
	ExecutionsFile       string
	RetryAttempts        uint
	AttemptTimeout       time.Duration
	BreakerFailures      uint32
	BreakerOpenTimeout   time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL             string
	MigrationsDir   string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// CacheConfig holds result cache configuration
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// JWTConfig holds JWT configuration. An empty secret leaves the API open.
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	ReloadRPS         float64 // Stricter limit for dataset reloads
	ReloadBurst       int
}

// WebSocketConfig holds WebSocket configuration
type WebSocketConfig struct {
	AllowedOrigins  []string
	ReadBufferSize  int
	WriteBufferSize int
	PongWait        time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// DashboardConfig holds the rules the dashboard computes with
type DashboardConfig struct {
	HotCommentThreshold int
	TicketsPerPage      int
	QuickFilters        []string
	BrowseURL           string
	TimezoneName        string
	TimezoneOffset      time.Duration
	StatusResolved      []string
	StatusInvalid       []string
	StatusReopen        []string
}

// Location returns the display time zone.
func (d DashboardConfig) Location() *time.Location {
	return time.FixedZone(d.TimezoneName, int(d.TimezoneOffset.Seconds()))
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", ":8080"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			AllowedOrigins:  getStringSliceOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Source: SourceConfig{
			Kind:                 getEnvOrDefault("SOURCE_KIND", SourceLocal),
			Dir:                  getEnvOrDefault("SOURCE_DIR", "./data"),
			DriveFolderID:        os.Getenv("DRIVE_FOLDER_ID"),
			DriveCredentialsFile: getEnvOrDefault("DRIVE_CREDENTIALS_FILE", "credentials.json"),
			TicketsFile:          getEnvOrDefault("TICKETS_FILE", "jira_tiket.csv"),
			ExecutionsFile:       getEnvOrDefault("EXECUTIONS_FILE", "data_allregresion.xlsx"),
			RetryAttempts:        uint(getIntOrDefault("SOURCE_RETRY_ATTEMPTS", 3)),
			AttemptTimeout:       getDurationOrDefault("SOURCE_ATTEMPT_TIMEOUT", 30*time.Second),
			BreakerFailures:      uint32(getIntOrDefault("SOURCE_BREAKER_FAILURES", 5)),
			BreakerOpenTimeout:   getDurationOrDefault("SOURCE_BREAKER_OPEN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MigrationsDir:   getEnvOrDefault("MIGRATIONS_DIR", "./migrations"),
			MaxOpenConns:    getIntOrDefault("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntOrDefault("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getDurationOrDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getDurationOrDefault("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Cache: CacheConfig{
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getIntOrDefault("REDIS_DB", 0),
			TTL:           getDurationOrDefault("CACHE_TTL", 10*time.Minute),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv("JWT_SECRET"),
			AccessTokenTTL: getDurationOrDefault("JWT_ACCESS_TOKEN_TTL", 8*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 10),
			BurstSize:         getIntOrDefault("RATE_LIMIT_BURST", 20),
			ReloadRPS:         getFloatOrDefault("RATE_LIMIT_RELOAD_RPS", 0.2),
			ReloadBurst:       getIntOrDefault("RATE_LIMIT_RELOAD_BURST", 2),
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins:  getStringSliceOrDefault("WS_ALLOWED_ORIGINS", []string{}),
			ReadBufferSize:  getIntOrDefault("WS_READ_BUFFER_SIZE", 1024),
			WriteBufferSize: getIntOrDefault("WS_WRITE_BUFFER_SIZE", 1024),
			PongWait:        getDurationOrDefault("WS_PONG_WAIT", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "testing-insight"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
		Dashboard: DashboardConfig{
			HotCommentThreshold: getIntOrDefault("HOT_COMMENT_THRESHOLD", 3),
			TicketsPerPage:      getIntOrDefault("TICKETS_PER_PAGE", 20),
			QuickFilters:        getStringSliceOrDefault("QUICK_FILTERS", []string{}),
			BrowseURL:           getEnvOrDefault("JIRA_BROWSE_URL", "https://jira.example.com/browse"),
			TimezoneName:        getEnvOrDefault("DISPLAY_TIMEZONE_NAME", "WIB"),
			TimezoneOffset:      getDurationOrDefault("DISPLAY_TIMEZONE_OFFSET", 7*time.Hour),
			StatusResolved:      getStringSliceOrDefault("STATUS_RESOLVED", []string{"Done", "RESOLVE", "Resolve", "Done.", "DONE", "Closed"}),
			StatusInvalid:       getStringSliceOrDefault("STATUS_INVALID", []string{"Invalid"}),
			StatusReopen:        getStringSliceOrDefault("STATUS_REOPEN", []string{"Reopened", "REOPEN"}),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []string

	switch c.Source.Kind {
	case SourceDrive:
		if c.Source.DriveFolderID == "" {
			errs = append(errs, "DRIVE_FOLDER_ID is required when SOURCE_KIND=drive")
		}
		if c.Source.DriveCredentialsFile == "" {
			errs = append(errs, "DRIVE_CREDENTIALS_FILE is required when SOURCE_KIND=drive")
		}
	case SourceLocal:
		if c.Source.Dir == "" {
			errs = append(errs, "SOURCE_DIR is required when SOURCE_KIND=local")
		}
	default:
		errs = append(errs, fmt.Sprintf("SOURCE_KIND must be %q or %q", SourceDrive, SourceLocal))
	}

	if c.Source.TicketsFile == "" {
		errs = append(errs, "TICKETS_FILE is required")
	}

	// Security validations
	if c.App.Environment == "production" {
		if len(c.JWT.Secret) < 32 {
			errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
		}

		if len(c.WebSocket.AllowedOrigins) == 0 {
			errs = append(errs, "WS_ALLOWED_ORIGINS must be set in production")
		}
	}

	// Logical validations
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, "DB_MAX_IDLE_CONNS cannot be greater than DB_MAX_OPEN_CONNS")
	}

	if c.Dashboard.TicketsPerPage <= 0 {
		errs = append(errs, "TICKETS_PER_PAGE must be positive")
	}

	if c.Dashboard.HotCommentThreshold < 0 {
		errs = append(errs, "HOT_COMMENT_THRESHOLD cannot be negative")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// SavedViewsEnabled reports whether a database is configured.
func (c *Config) SavedViewsEnabled() bool {
	return c.Database.URL != ""
}

// AuthEnabled reports whether API requests need a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWT.Secret != ""
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: %s, Source: %s, DB: %s, Redis: %s, JWT: [REDACTED], RateLimit: %v, Environment: %s}",
		c.Server.Port,
		c.Source.Kind,
		redactURL(c.Database.URL),
		c.Cache.RedisAddr,
		c.RateLimit.Enabled,
		c.App.Environment,
	)
}

// redactURL redacts sensitive parts of a database URL
func redactURL(url string) string {
	if url == "" {
		return ""
	}
	if idx := strings.Index(url, "@"); idx > 0 {
		return "[REDACTED]" + url[idx:]
	}
	return "[REDACTED]"
}
