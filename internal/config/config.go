// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Gallery modes. ModeDB serves database-backed pagination; ModeStorage
// serves bucket-native pagination with no database at all.
const (
	ModeDB      = "db"
	ModeStorage = "storage"
)

// Storage backends.
const (
	BackendMinio = "minio"
	BackendS3    = "s3"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port   string
	AppEnv string

	// Mode selects between the database-backed gallery (ModeDB) and the
	// storage-only gallery (ModeStorage).
	Mode string

	// Object storage (S3-compatible: MinIO locally, AWS S3 in production)
	StorageBackend   string
	StorageRegion    string
	StorageEndpoint  string // MinIO backend only
	StorageAccessKey string // optional; absent means ambient credentials
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool

	// Metadata database (ModeDB only). Credentials come from the secrets
	// service, not the environment.
	DBHost     string
	DBPort     string
	DBSecretID string
	DBSSLMode  string
}

// Load reads configuration from a .env file (if present) and environment
// variables. It returns an error when a required setting is missing so the
// process can refuse to start.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	cfg := &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "development"),
		Mode:   getEnv("GALLERY_MODE", ModeDB),

		StorageBackend:   getEnv("STORAGE_BACKEND", BackendMinio),
		StorageRegion:    os.Getenv("AWS_REGION"),
		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		StorageSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		StorageBucket:    os.Getenv("S3_BUCKET"),
		StorageUseSSL:    getEnv("STORAGE_USE_SSL", "false") == "true",

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSecretID: os.Getenv("DB_SECRET_NAME"),
		DBSSLMode:  getEnv("DB_SSLMODE", "require"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Mode != ModeDB && c.Mode != ModeStorage {
		return fmt.Errorf("GALLERY_MODE must be %q or %q, got %q", ModeDB, ModeStorage, c.Mode)
	}
	if c.StorageBackend != BackendMinio && c.StorageBackend != BackendS3 {
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendMinio, BackendS3, c.StorageBackend)
	}
	if c.StorageRegion == "" {
		return fmt.Errorf("AWS_REGION must be set")
	}
	if c.StorageBucket == "" {
		return fmt.Errorf("S3_BUCKET must be set")
	}
	if c.Mode == ModeDB {
		if c.DBHost == "" {
			return fmt.Errorf("DB_HOST must be set")
		}
		if c.DBSecretID == "" {
			return fmt.Errorf("DB_SECRET_NAME must be set")
		}
	}
	return nil
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
