package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageFile     = "file"
	StorageS3       = "s3"
	StoragePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Storage
	StorageBackend string
	DataDir        string
	ActualsFormat  domain.SnapshotShape
	DatabaseURL    string

	// S3 Storage
	S3 S3Config

	// Rate limiting
	RateLimit RateLimitConfig

	// Report colors
	Theme domain.ReportTheme

	// How often the rollover worker checks for a new month; zero disables it
	RolloverInterval time.Duration
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	perMinute, err := getEnvInt("RATE_LIMIT_PER_MINUTE", 120)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, err
	}

	rolloverMinutes, err := getEnvInt("ROLLOVER_INTERVAL_MINUTES", 60)
	if err != nil {
		return nil, err
	}

	theme, err := loadTheme()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		CORSOrigins:    strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:            getEnv("ENV", "development"),
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageFile)),
		DataDir:        getEnv("DATA_DIR", defaultDataDir()),
		ActualsFormat:  domain.SnapshotShape(strings.ToLower(getEnv("ACTUALS_FORMAT", string(domain.SnapshotShapeFlat)))),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "budgetking-data"),
			Prefix:          getEnv("S3_PREFIX", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: perMinute,
			Burst:             burst,
		},
		Theme:            theme,
		RolloverInterval: time.Duration(rolloverMinutes) * time.Minute,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case StorageFile:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the file storage backend")
		}
	case StorageS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 storage backend")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of file, s3, postgres (got %q)", c.StorageBackend)
	}
	if !c.ActualsFormat.IsValid() {
		return fmt.Errorf("ACTUALS_FORMAT must be flat or nested (got %q)", c.ActualsFormat)
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	if c.RolloverInterval < 0 {
		return fmt.Errorf("ROLLOVER_INTERVAL_MINUTES must not be negative")
	}
	return nil
}

func loadTheme() (domain.ReportTheme, error) {
	theme := domain.DefaultReportTheme()
	colors := []struct {
		key    string
		target *domain.RGB
	}{
		{"REPORT_HEADER_COLOR", &theme.HeaderColor},
		{"REPORT_SECTION_COLOR", &theme.SectionColor},
		{"REPORT_ROW_COLOR", &theme.RowColor},
	}
	for _, c := range colors {
		value := os.Getenv(c.key)
		if value == "" {
			continue
		}
		rgb, err := domain.ParseHexColor(value)
		if err != nil {
			return theme, fmt.Errorf("%s: %w", c.key, err)
		}
		*c.target = rgb
	}
	return theme, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, "Documents", "BudgetKing")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
