// Package config loads the service configuration from the environment
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Environment is the deployment stage
type Environment string

const (
	EnvDevelopment Environment = "dev"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
)

// Cache backends
const (
	CacheMemory   = "memory"
	CacheRedis    = "redis"
	CachePostgres = "postgres"
	CacheS3       = "s3"
)

// Config holds all application configuration
type Config struct {
	Port              string
	Address           string
	Env               Environment
	LogLevel          string
	LogDir            string
	LogRetentionWeeks int   // Number of weeks to keep log files
	MaxLogFileSize    int64 // Maximum log file size in bytes
	MaxRequestBody    int64 // Maximum request body size in bytes
	MaxHeaderSize     int64 // Maximum header size in bytes

	SpreadsheetID  string
	SheetGID       string
	CacheTTL       time.Duration
	CacheBackend   string
	RedisURL       string
	DatabaseURL    string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string // set for MinIO and other S3 compatible stores
	S3Prefix       string
	FetchTimeout   time.Duration
	SearchDebounce time.Duration
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8000"),
		Address:           getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:               Environment(strings.ToLower(getEnvWithDefault("ENV", "dev"))),
		LogLevel:          strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		LogDir:            getEnvWithDefault("LOG_DIR", "logs"),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),         // 4 weeks default
		MaxLogFileSize:    getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 104857600), // 100MB default
		MaxRequestBody:    getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576),    // 1MB default
		MaxHeaderSize:     getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),     // 1MB default

		SpreadsheetID:  os.Getenv("SPREADSHEET_ID"),
		SheetGID:       getEnvWithDefault("SHEET_GID", "0"),
		CacheTTL:       getDurationEnvWithDefault("CACHE_TTL", time.Hour),
		CacheBackend:   strings.ToLower(getEnvWithDefault("CACHE_BACKEND", CacheMemory)),
		RedisURL:       os.Getenv("REDIS_URL"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       getEnvWithDefault("S3_REGION", "us-east-1"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3Prefix:       getEnvWithDefault("S3_PREFIX", "medicines-catalog/"),
		FetchTimeout:   getDurationEnvWithDefault("FETCH_TIMEOUT", 15*time.Second),
		SearchDebounce: getDurationEnvWithDefault("SEARCH_DEBOUNCE", 250*time.Millisecond),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: %w", err)
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateMaxLogFileSize(cfg.MaxLogFileSize); err != nil {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: %w", err)
	}

	if err := validateSpreadsheetID(cfg.SpreadsheetID); err != nil {
		return fmt.Errorf("invalid SPREADSHEET_ID: %w", err)
	}

	if err := validateDuration(cfg.CacheTTL, time.Minute, 7*24*time.Hour); err != nil {
		return fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	if err := validateDuration(cfg.FetchTimeout, time.Second, 5*time.Minute); err != nil {
		return fmt.Errorf("invalid FETCH_TIMEOUT: %w", err)
	}

	if err := validateDuration(cfg.SearchDebounce, time.Millisecond, 5*time.Second); err != nil {
		return fmt.Errorf("invalid SEARCH_DEBOUNCE: %w", err)
	}

	if err := validateCacheBackend(cfg); err != nil {
		return fmt.Errorf("invalid CACHE_BACKEND: %w", err)
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	// 0.0.0.0 is allowed for containers; public addresses are not
	if !ip.IsLoopback() && !ip.IsPrivate() && !ip.IsUnspecified() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges for security", address)
	}

	return nil
}

// validateEnv validates the ENV environment variable
func validateEnv(env Environment) error {
	valid := []Environment{EnvDevelopment, EnvStaging, EnvProduction, EnvTest}
	if !slices.Contains(valid, env) {
		return fmt.Errorf("ENV must be one of: %v, got: %s", valid, env)
	}
	return nil
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, logLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
	}
	return nil
}

// validateSizeLimit validates size limit configuration values
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

// validateLogRetentionWeeks validates the LOG_RETENTION_WEEKS environment variable
func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 {
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

// validateMaxLogFileSize validates the MAX_LOG_FILE_SIZE environment variable
func validateMaxLogFileSize(size int64) error {
	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}

	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}

	return nil
}

// validateSpreadsheetID accepts the id segment of a sheet URL. Empty means
// the service runs on the fallback dataset only.
func validateSpreadsheetID(id string) error {
	if id == "" {
		return nil
	}
	for _, r := range id {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return fmt.Errorf("SPREADSHEET_ID may only contain letters, digits, '-' and '_', got: %s", id)
		}
	}
	return nil
}

// validateDuration checks that d lies within [lo, hi]
func validateDuration(d, lo, hi time.Duration) error {
	if d < lo || d > hi {
		return fmt.Errorf("must be between %s and %s, got: %s", lo, hi, d)
	}
	return nil
}

// validateCacheBackend checks the backend name and the settings it needs
func validateCacheBackend(cfg *Config) error {
	switch cfg.CacheBackend {
	case CacheMemory:
		return nil
	case CacheRedis:
		if cfg.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND=redis")
		}
		u, err := url.Parse(cfg.RedisURL)
		if err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			return fmt.Errorf("REDIS_URL must be a redis:// or rediss:// URL, got: %s", cfg.RedisURL)
		}
		return nil
	case CachePostgres:
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when CACHE_BACKEND=postgres")
		}
		u, err := url.Parse(cfg.DatabaseURL)
		if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
			return fmt.Errorf("DATABASE_URL must be a postgres:// URL")
		}
		return nil
	case CacheS3:
		if cfg.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when CACHE_BACKEND=s3")
		}
		if cfg.S3Endpoint != "" {
			u, err := url.Parse(cfg.S3Endpoint)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				return fmt.Errorf("S3_ENDPOINT must be an http:// or https:// URL, got: %s", cfg.S3Endpoint)
			}
		}
		return nil
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: %v, got: %s",
			[]string{CacheMemory, CacheRedis, CachePostgres, CacheS3}, cfg.CacheBackend)
	}
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnvWithDefault reads a Go duration ("1h", "250ms"). A bare
// number is taken as seconds.
func getDurationEnvWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"PORT",
		"ADDRESS",
		"ENV",
		"LOG_LEVEL",
		"LOG_DIR",
		"LOG_RETENTION_WEEKS",
		"MAX_LOG_FILE_SIZE",
		"MAX_REQUEST_BODY",
		"MAX_HEADER_SIZE",
		"SPREADSHEET_ID",
		"SHEET_GID",
		"CACHE_TTL",
		"CACHE_BACKEND",
		"REDIS_URL",
		"DATABASE_URL",
		"S3_BUCKET",
		"S3_REGION",
		"S3_ENDPOINT",
		"S3_PREFIX",
		"FETCH_TIMEOUT",
		"SEARCH_DEBOUNCE",
	}
}
