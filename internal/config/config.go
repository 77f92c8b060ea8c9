package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Log      LogConfig
	Fleet    FleetConfig
	Admin    AdminConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// AuthConfig holds token secrets and lifetimes.
type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	CookieMaxAge  time.Duration
	RotateRefresh bool

	// Login and refresh attempts allowed per client IP and window.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// StorageConfig holds the S3 bucket used for profile images.
type StorageConfig struct {
	Bucket           string
	Region           string
	AccessKeyID      string
	SecretAccessKey  string
	CloudFrontDomain string
}

// Enabled reports whether an upload bucket is configured.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != ""
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
	File  string
}

// FleetConfig holds domain thresholds.
type FleetConfig struct {
	TireCriticalWear float64
}

// AdminConfig holds the account created at start-up when it does not exist yet.
type AdminConfig struct {
	Email    string
	Password string
	FullName string
}

// Enabled reports whether a bootstrap admin is configured.
func (a AdminConfig) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

var defaults = map[string]any{
	"APP_ENV":                  "development",
	"SERVER_PORT":              "8080",
	"SERVER_READ_TIMEOUT":      10 * time.Second,
	"SERVER_WRITE_TIMEOUT":     10 * time.Second,
	"CORS_ALLOWED_ORIGINS":     "http://localhost:3000",
	"DB_HOST":                  "localhost",
	"DB_PORT":                  "5432",
	"DB_USER":                  "postgres",
	"DB_PASSWORD":              "postgres",
	"DB_NAME":                  "fleet",
	"DB_SSLMODE":               "disable",
	"REDIS_ADDR":               "localhost:6379",
	"REDIS_PASSWORD":           "",
	"REDIS_DB":                 0,
	"NEW_RELIC_APP_NAME":       "fleet-service",
	"NEW_RELIC_LICENSE_KEY":    "",
	"NEW_RELIC_ENABLED":        false,
	"AUTH_ACCESS_SECRET":       "",
	"AUTH_REFRESH_SECRET":      "",
	"AUTH_ACCESS_TTL":          15 * time.Minute,
	"AUTH_REFRESH_TTL":         30 * 24 * time.Hour,
	"AUTH_COOKIE_MAX_AGE":      7 * 24 * time.Hour,
	"AUTH_ROTATE_REFRESH":      false,
	"AUTH_RATE_LIMIT_REQUESTS": 10,
	"AUTH_RATE_LIMIT_WINDOW":   time.Minute,
	"S3_BUCKET":                "",
	"S3_REGION":                "eu-west-3",
	"S3_ACCESS_KEY_ID":         "",
	"S3_SECRET_ACCESS_KEY":     "",
	"S3_CLOUDFRONT_DOMAIN":     "",
	"LOG_LEVEL":                "info",
	"LOG_FILE":                 "",
	"TIRE_CRITICAL_WEAR":       80.0,
	"ADMIN_EMAIL":              "",
	"ADMIN_PASSWORD":           "",
	"ADMIN_FULL_NAME":          "Fleet Admin",
}

// Development-only secrets so a fresh checkout can boot.
const (
	devAccessSecret  = "dev-access-secret"
	devRefreshSecret = "dev-refresh-secret"
)

// Load reads an optional .env file, then the environment, into a Config.
func Load() (*Config, error) {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{
		Env: v.GetString("APP_ENV"),
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			ReadTimeout:    v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetDuration("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		NewRelic: NewRelicConfig{
			AppName:    v.GetString("NEW_RELIC_APP_NAME"),
			LicenseKey: v.GetString("NEW_RELIC_LICENSE_KEY"),
			Enabled:    v.GetBool("NEW_RELIC_ENABLED"),
		},
		Auth: AuthConfig{
			AccessSecret:      v.GetString("AUTH_ACCESS_SECRET"),
			RefreshSecret:     v.GetString("AUTH_REFRESH_SECRET"),
			AccessTTL:         v.GetDuration("AUTH_ACCESS_TTL"),
			RefreshTTL:        v.GetDuration("AUTH_REFRESH_TTL"),
			CookieMaxAge:      v.GetDuration("AUTH_COOKIE_MAX_AGE"),
			RotateRefresh:     v.GetBool("AUTH_ROTATE_REFRESH"),
			RateLimitRequests: v.GetInt("AUTH_RATE_LIMIT_REQUESTS"),
			RateLimitWindow:   v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
		},
		Storage: StorageConfig{
			Bucket:           v.GetString("S3_BUCKET"),
			Region:           v.GetString("S3_REGION"),
			AccessKeyID:      v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey:  v.GetString("S3_SECRET_ACCESS_KEY"),
			CloudFrontDomain: v.GetString("S3_CLOUDFRONT_DOMAIN"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
		Fleet: FleetConfig{
			TireCriticalWear: v.GetFloat64("TIRE_CRITICAL_WEAR"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
			FullName: v.GetString("ADMIN_FULL_NAME"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !cfg.IsProduction() {
		if cfg.Auth.AccessSecret == "" {
			cfg.Auth.AccessSecret = devAccessSecret
		}
		if cfg.Auth.RefreshSecret == "" {
			cfg.Auth.RefreshSecret = devRefreshSecret
		}
	}

	return cfg, nil
}

// Validate rejects configurations that cannot run safely.
func (c *Config) Validate() error {
	var errs []error

	if c.IsProduction() {
		if c.Auth.AccessSecret == "" {
			errs = append(errs, errors.New("AUTH_ACCESS_SECRET is required in production"))
		}
		if c.Auth.RefreshSecret == "" {
			errs = append(errs, errors.New("AUTH_REFRESH_SECRET is required in production"))
		}
	}
	if c.Auth.AccessSecret != "" && c.Auth.AccessSecret == c.Auth.RefreshSecret {
		errs = append(errs, errors.New("AUTH_ACCESS_SECRET and AUTH_REFRESH_SECRET must differ"))
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.Fleet.TireCriticalWear < 0 || c.Fleet.TireCriticalWear > 100 {
		errs = append(errs, errors.New("TIRE_CRITICAL_WEAR must be between 0 and 100"))
	}

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
