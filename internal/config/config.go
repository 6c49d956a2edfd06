package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string

	PSIAPIKey  string
	PSIBaseURL string

	AuditTTL     time.Duration
	HistoryLimit int

	RateLimit       int
	RateLimitWindow time.Duration

	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string
	PostgresDatabase string
	PostgresSSLMode  string

	ArchiveBucket    string
	ArchiveRegion    string
	ArchiveEndpoint  string
	ArchiveAccessKey string
	ArchiveSecretKey string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg := &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		PSIAPIKey:  mustGetEnv("GOOGLE_PSI_API_KEY"),
		PSIBaseURL: getEnv("PSI_BASE_URL", ""),

		AuditTTL:     time.Duration(getEnvInt("AUDIT_TTL_MINUTES", 60)) * time.Minute,
		HistoryLimit: getEnvInt("HISTORY_LIMIT", 10),

		RateLimit:       getEnvInt("RATE_LIMIT", 30),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		PostgresUser:     getEnv("POSTGRES_USER", "webaudit"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDatabase: getEnv("POSTGRES_DATABASE", "webaudit"),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),

		ArchiveBucket:    getEnv("ARCHIVE_BUCKET", ""),
		ArchiveRegion:    getEnv("ARCHIVE_REGION", "us-east-1"),
		ArchiveEndpoint:  getEnv("ARCHIVE_ENDPOINT", ""),
		ArchiveAccessKey: getEnv("ARCHIVE_ACCESS_KEY", ""),
		ArchiveSecretKey: getEnv("ARCHIVE_SECRET_KEY", ""),
	}

	if cfg.ArchiveBucket != "" && (cfg.ArchiveAccessKey == "" || cfg.ArchiveSecretKey == "") {
		panic("ARCHIVE_BUCKET is set but archive credentials are missing")
	}

	return cfg
}

// ArchiveEnabled reports whether raw payload archival is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveBucket != ""
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword,
		c.PostgresDatabase, c.PostgresSSLMode)
}

func mustGetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic("Missing required environment variable: " + key)
	}
	return value
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
