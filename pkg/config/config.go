package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (catalog store)
	Database DatabaseConfig

	// Redis (recommendation cache, rate limit)
	Redis RedisConfig

	// Pipeline inputs and outputs
	Pipeline PipelineConfig

	// Recommendation API
	API APIConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
	MetricsPort    string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// PipelineConfig holds batch build configuration
type PipelineConfig struct {
	DataDir         string
	RatingsFile     string
	MoviesFile      string
	OutputDir       string
	DatasetURL      string // cinemood fetch 대상 (MovieLens zip)
	FetchTimeout    time.Duration
	ShrinkageM      int    // 베이지안 m (기본 1000)
	RebuildSchedule string // cron (seconds 포함)
}

// RatingsPath returns the full path of the ratings source
func (p PipelineConfig) RatingsPath() string {
	return filepath.Join(p.DataDir, p.RatingsFile)
}

// MoviesPath returns the full path of the movies source
func (p PipelineConfig) MoviesPath() string {
	return filepath.Join(p.DataDir, p.MoviesFile)
}

// APIConfig holds read-path configuration
type APIConfig struct {
	MoodTablePath      string
	CacheTTL           time.Duration
	RateLimitPerMinute int // 0 = 비활성
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables and requires DATABASE_URL
// ⭐ SSOT: 이 함수와 LoadOptionalStore만 os.Getenv()를 호출함
func Load() (*Config, error) {
	cfg := load()

	if err := cfg.validate(true); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOptionalStore is Load without the DATABASE_URL requirement.
// Used by commands that can run entirely in memory (build --dry-run, report).
func LoadOptionalStore() (*Config, error) {
	cfg := load()

	if err := cfg.validate(false); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func load() *Config {
	// Try multiple paths for .env file
	loadEnvFile()

	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Pipeline
		Pipeline: PipelineConfig{
			DataDir:         getEnv("DATA_DIR", "data"),
			RatingsFile:     getEnv("RATINGS_FILE", "ratings.csv"),
			MoviesFile:      getEnv("MOVIES_FILE", "movies.csv"),
			OutputDir:       getEnv("OUTPUT_DIR", "output"),
			DatasetURL:      getEnv("DATASET_URL", "https://files.grouplens.org/datasets/movielens/ml-latest-small.zip"),
			FetchTimeout:    getEnvAsDuration("FETCH_TIMEOUT", "5m"),
			ShrinkageM:      getEnvAsInt("SHRINKAGE_M", 1000),
			RebuildSchedule: getEnv("REBUILD_SCHEDULE", "0 0 4 * * *"),
		},

		// API
		API: APIConfig{
			MoodTablePath:      getEnv("MOOD_TABLE_PATH", ""),
			CacheTTL:           getEnvAsDuration("CACHE_TTL", "10m"),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		MetricsPort:    getEnv("METRICS_PORT", "9090"),
	}
}

// validate checks if required configuration values are set
func (c *Config) validate(requireStore bool) error {
	// Database URL is required for anything touching the catalog
	if requireStore && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Pipeline.ShrinkageM < 0 {
		return fmt.Errorf("SHRINKAGE_M must be >= 0")
	}

	if c.API.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be >= 0")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	items := make([]string, 0)
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}

	return items
}
