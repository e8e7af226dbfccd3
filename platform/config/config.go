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
	"github.com/robfig/cron/v3"
)

// PDF engines and analyses store backends accepted by Load.
const (
	PDFEngineMinimal = "minimal"
	PDFEngineMaroto  = "maroto"

	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	GetMigrationsDir() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RateLimitConfig provides per-IP rate limit settings for the public API.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// ScoringBackendConfig provides settings for the external ML scoring backend.
type ScoringBackendConfig interface {
	GetScoringBackendURL() string
	GetScoringBackendTimeout() time.Duration
}

// ReportConfig provides settings for report rendering.
type ReportConfig interface {
	GetReportPDFEngine() string
}

// AnalysesConfig selects the analyses store backend.
type AnalysesConfig interface {
	GetAnalysesStore() string
}

// IntakeConfig provides settings for lead intake validation.
type IntakeConfig interface {
	GetPhoneDefaultRegion() string
}

// SchedulerConfig provides settings for the asynq task queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// TrainingConfig provides settings for the periodic retrain trigger.
type TrainingConfig interface {
	GetTrainSchedule() string
	GetTrainDatasetType() string
	GetTrainModelType() string
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketReports() string
	IsMinIOEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	DatabaseURL           string
	MigrationsDir         string
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	RateLimitRPS          float64
	RateLimitBurst        int
	ScoringBackendURL     string
	ScoringBackendTimeout time.Duration
	ReportPDFEngine       string
	AnalysesStore         string
	PhoneDefaultRegion    string
	RedisURL              string
	RedisTLSInsecure      bool
	AsynqQueueName        string
	AsynqConcurrency      int
	TrainSchedule         string
	TrainDatasetType      string
	TrainModelType        string
	MinIOEndpoint         string
	MinIOAccessKey        string
	MinIOSecretKey        string
	MinIOUseSSL           bool
	MinIOMaxFileSize      int64
	MinioBucketReports    string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string   { return c.DatabaseURL }
func (c *Config) GetMigrationsDir() string { return c.MigrationsDir }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// ScoringBackendConfig implementation
func (c *Config) GetScoringBackendURL() string { return c.ScoringBackendURL }
func (c *Config) GetScoringBackendTimeout() time.Duration {
	return c.ScoringBackendTimeout
}

// ReportConfig implementation
func (c *Config) GetReportPDFEngine() string { return c.ReportPDFEngine }

// AnalysesConfig implementation
func (c *Config) GetAnalysesStore() string { return c.AnalysesStore }

// IntakeConfig implementation
func (c *Config) GetPhoneDefaultRegion() string { return c.PhoneDefaultRegion }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string        { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool  { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string  { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int   { return c.AsynqConcurrency }

// TrainingConfig implementation
func (c *Config) GetTrainSchedule() string    { return c.TrainSchedule }
func (c *Config) GetTrainDatasetType() string { return c.TrainDatasetType }
func (c *Config) GetTrainModelType() string   { return c.TrainModelType }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string      { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string     { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string     { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool          { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64    { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketReports() string { return c.MinioBucketReports }
func (c *Config) IsMinIOEnabled() bool          { return c.MinIOEndpoint != "" }

// Load reads configuration from the environment (and .env when present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		MigrationsDir:         getEnv("MIGRATIONS_DIR", "migrations"),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitRPS:          mustFloat(getEnv("RATE_LIMIT_RPS", "10")),
		RateLimitBurst:        int(mustInt64(getEnv("RATE_LIMIT_BURST", "20"))),
		ScoringBackendURL:     strings.TrimRight(getEnv("SCORING_BACKEND_URL", "http://localhost:8000"), "/"),
		ScoringBackendTimeout: mustDuration(getEnv("SCORING_BACKEND_TIMEOUT", "15s")),
		ReportPDFEngine:       strings.ToLower(getEnv("REPORT_PDF_ENGINE", PDFEngineMinimal)),
		AnalysesStore:         strings.ToLower(getEnv("ANALYSES_STORE", StoreMemory)),
		PhoneDefaultRegion:    strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "US")),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisTLSInsecure:      strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:        getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:      int(mustInt64(getEnv("ASYNQ_CONCURRENCY", "5"))),
		TrainSchedule:         strings.TrimSpace(getEnv("TRAIN_SCHEDULE", "")),
		TrainDatasetType:      getEnv("TRAIN_DATASET_TYPE", "bank"),
		TrainModelType:        getEnv("TRAIN_MODEL_TYPE", "random_forest"),
		MinIOEndpoint:         getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:        getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:           strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:      mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "10485760")),
		MinioBucketReports:    getEnv("MINIO_BUCKET_REPORTS", "lead-reports"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ScoringBackendURL == "" {
		return fmt.Errorf("SCORING_BACKEND_URL is required")
	}
	if c.ScoringBackendTimeout <= 0 {
		return fmt.Errorf("SCORING_BACKEND_TIMEOUT must be a positive duration")
	}
	switch c.ReportPDFEngine {
	case PDFEngineMinimal, PDFEngineMaroto:
	default:
		return fmt.Errorf("REPORT_PDF_ENGINE must be %q or %q, got %q", PDFEngineMinimal, PDFEngineMaroto, c.ReportPDFEngine)
	}
	switch c.AnalysesStore {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when ANALYSES_STORE is postgres")
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when ANALYSES_STORE is redis")
		}
	default:
		return fmt.Errorf("ANALYSES_STORE must be one of memory, postgres, redis, got %q", c.AnalysesStore)
	}
	if c.TrainSchedule != "" {
		if _, err := cron.ParseStandard(c.TrainSchedule); err != nil {
			return fmt.Errorf("TRAIN_SCHEDULE is not a valid cron expression: %w", err)
		}
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	return nil
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

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
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
