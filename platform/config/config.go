// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// AppConfig provides public-facing application settings.
type AppConfig interface {
	GetAppBaseURL() string
}

// SMTPConfig provides settings for outgoing email.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsEmailEnabled() bool
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketListingPhotos() string
	IsMinIOEnabled() bool
}

// SchedulerConfig provides settings for the Redis-backed job scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// BookingConfig provides settings for the bookings module.
type BookingConfig interface {
	GetBookingReminderDelay() time.Duration
}

// GazetteerConfig provides the location of the bundled college table.
type GazetteerConfig interface {
	GetGazetteerPath() string
}

// SearchConfig provides search defaults and limits.
type SearchConfig interface {
	GetSearchDefaultMaxDistanceKm() float64
	GetSearchMaxDistanceLimitKm() float64
	GetSearchDefaultMinPrice() int
	GetSearchDefaultMaxPrice() int
}

// KafkaConfig provides settings for mirroring domain events to Kafka.
type KafkaConfig interface {
	GetKafkaBrokers() []string
	GetKafkaTopic() string
	IsKafkaEnabled() bool
}

// RealtimeConfig provides settings for the websocket endpoint.
type RealtimeConfig interface {
	JWTConfig
	GetWSAllowedOrigins() []string
	IsRedisPresenceEnabled() bool
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// GeocoderConfig provides settings for address lookup.
type GeocoderConfig interface {
	GetGeocoderURL() string
	GetGeocoderCountryCodes() string
	GetGeocoderUserAgent() string
}

// PhoneConfig provides the default region for phone parsing.
type PhoneConfig interface {
	GetPhoneRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                        string
	HTTPAddr                   string
	DatabaseURL                string
	JWTAccessSecret            string
	AccessTokenTTL             time.Duration
	CORSAllowAll               bool
	CORSOrigins                []string
	CORSAllowCreds             bool
	AppBaseURL                 string
	SMTPHost                   string
	SMTPPort                   int
	SMTPUsername               string
	SMTPPassword               string
	EmailFromName              string
	EmailFromAddress           string
	MinIOEndpoint              string
	MinIOAccessKey             string
	MinIOSecretKey             string
	MinIOUseSSL                bool
	MinIOMaxFileSize           int64
	MinioBucketListingPhotos   string
	RedisURL                   string
	RedisTLSInsecure           bool
	RedisPresence              bool
	AsynqQueueName             string
	AsynqConcurrency           int
	BookingReminderDelay       time.Duration
	GazetteerPath              string
	SearchDefaultMaxDistanceKm float64
	SearchMaxDistanceLimitKm   float64
	SearchDefaultMinPrice      int
	SearchDefaultMaxPrice      int
	KafkaBrokers               []string
	KafkaTopic                 string
	WSAllowedOrigins           []string
	GeocoderURL                string
	GeocoderCountryCodes       string
	GeocoderUserAgent          string
	PhoneRegion                string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// AuthServiceConfig implementation
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// AppConfig implementation
func (c *Config) GetAppBaseURL() string { return c.AppBaseURL }

// SMTPConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsEmailEnabled() bool        { return c.SMTPHost != "" }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string            { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string           { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string           { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool                { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64          { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketListingPhotos() string { return c.MinioBucketListingPhotos }
func (c *Config) IsMinIOEnabled() bool                { return c.MinIOEndpoint != "" }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// BookingConfig implementation
func (c *Config) GetBookingReminderDelay() time.Duration { return c.BookingReminderDelay }

// GazetteerConfig implementation
func (c *Config) GetGazetteerPath() string { return c.GazetteerPath }

// SearchConfig implementation
func (c *Config) GetSearchDefaultMaxDistanceKm() float64 { return c.SearchDefaultMaxDistanceKm }
func (c *Config) GetSearchMaxDistanceLimitKm() float64   { return c.SearchMaxDistanceLimitKm }
func (c *Config) GetSearchDefaultMinPrice() int          { return c.SearchDefaultMinPrice }
func (c *Config) GetSearchDefaultMaxPrice() int          { return c.SearchDefaultMaxPrice }

// KafkaConfig implementation
func (c *Config) GetKafkaBrokers() []string { return c.KafkaBrokers }
func (c *Config) GetKafkaTopic() string     { return c.KafkaTopic }
func (c *Config) IsKafkaEnabled() bool      { return len(c.KafkaBrokers) > 0 }

// RealtimeConfig implementation
func (c *Config) GetWSAllowedOrigins() []string { return c.WSAllowedOrigins }
func (c *Config) IsRedisPresenceEnabled() bool  { return c.RedisPresence && c.RedisURL != "" }

// GeocoderConfig implementation
func (c *Config) GetGeocoderURL() string          { return c.GeocoderURL }
func (c *Config) GetGeocoderCountryCodes() string { return c.GeocoderCountryCodes }
func (c *Config) GetGeocoderUserAgent() string    { return c.GeocoderUserAgent }

// PhoneConfig implementation
func (c *Config) GetPhoneRegion() string { return c.PhoneRegion }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                        getEnv("APP_ENV", "development"),
		HTTPAddr:                   getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:                getEnv("DATABASE_URL", ""),
		JWTAccessSecret:            getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:             mustDuration(getEnv("JWT_ACCESS_TTL", "24h")),
		CORSAllowAll:               corsAllowAll,
		CORSOrigins:                corsOrigins,
		CORSAllowCreds:             strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		AppBaseURL:                 strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:5000"), "/"),
		SMTPHost:                   getEnv("SMTP_HOST", ""),
		SMTPPort:                   mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:               getEnv("SMTP_USERNAME", ""),
		SMTPPassword:               getEnv("SMTP_PASSWORD", ""),
		EmailFromName:              getEnv("EMAIL_FROM_NAME", "Stayfinder"),
		EmailFromAddress:           getEnv("EMAIL_FROM_ADDRESS", ""),
		MinIOEndpoint:              getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:             getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:             getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:                strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:           mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "10485760")),
		MinioBucketListingPhotos:   getEnv("MINIO_BUCKET_LISTING_PHOTOS", "stayfinder-hostels"),
		RedisURL:                   getEnv("REDIS_URL", ""),
		RedisTLSInsecure:           strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		RedisPresence:              strings.EqualFold(getEnv("REALTIME_REDIS_PRESENCE", "false"), "true"),
		AsynqQueueName:             getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:           mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		BookingReminderDelay:       mustDuration(getEnv("BOOKING_REMINDER_DELAY", "24h")),
		GazetteerPath:              getEnv("GAZETTEER_PATH", "data/colleges.json"),
		SearchDefaultMaxDistanceKm: mustFloat(getEnv("SEARCH_DEFAULT_MAX_DISTANCE_KM", "5")),
		SearchMaxDistanceLimitKm:   mustFloat(getEnv("SEARCH_MAX_DISTANCE_LIMIT_KM", "100")),
		SearchDefaultMinPrice:      mustInt(getEnv("SEARCH_DEFAULT_MIN_PRICE", "0")),
		SearchDefaultMaxPrice:      mustInt(getEnv("SEARCH_DEFAULT_MAX_PRICE", "10000")),
		KafkaBrokers:               splitCSV(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:                 getEnv("KAFKA_TOPIC", "stayfinder.events"),
		WSAllowedOrigins:           splitCSV(getEnv("WS_ALLOWED_ORIGINS", "")),
		GeocoderURL:                getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
		GeocoderCountryCodes:       getEnv("GEOCODER_COUNTRY_CODES", "in"),
		GeocoderUserAgent:          getEnv("GEOCODER_USER_AGENT", "Stayfinder/1.0"),
		PhoneRegion:                getEnv("PHONE_REGION", "IN"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.AccessTokenTTL <= 0 {
		return nil, fmt.Errorf("JWT_ACCESS_TTL must be a positive duration")
	}
	if cfg.IsEmailEnabled() && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when SMTP_HOST is set")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.SearchDefaultMaxDistanceKm <= 0 || cfg.SearchDefaultMaxDistanceKm > cfg.SearchMaxDistanceLimitKm {
		return nil, fmt.Errorf("SEARCH_DEFAULT_MAX_DISTANCE_KM must be in (0, SEARCH_MAX_DISTANCE_LIMIT_KM]")
	}
	if cfg.SearchDefaultMinPrice > cfg.SearchDefaultMaxPrice {
		return nil, fmt.Errorf("SEARCH_DEFAULT_MIN_PRICE cannot exceed SEARCH_DEFAULT_MAX_PRICE")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
