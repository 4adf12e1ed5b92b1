// Package config loads the Media URL Validation Engine's configuration
// from the environment, grounded on the teacher's
// media-api/internal/config/config.go style: flat getEnv-with-default
// reads, grouped into nested structs per subsystem, with a validation
// pass for genuinely required keys.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds every key spec.md §6 recognizes, plus the adapters'
// own connection settings.
type Config struct {
	MediaCollection         string
	ReportsCollection       string
	RepairReportsCollection string

	BatchSize int

	PlaceholderImageURL string
	PlaceholderVideoURL string
	BaseURL             string

	ProbeTimeoutMs int
	MaxRedirects   int

	ProcessingIntervalMs int
	MaxConcurrentBatches int
	Enabled              bool

	Firestore FirestoreConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
}

// FirestoreConfig groups the Cloud Firestore adapter's connection
// settings.
type FirestoreConfig struct {
	ProjectID       string
	CredentialsPath string
}

// RedisConfig groups the Redis queue adapter's connection settings.
type RedisConfig struct {
	URL string
}

// MinIOConfig groups the MinIO placeholder-asset provider's connection
// settings (teacher precedent: media-api/internal/config.MinIOConfig).
type MinIOConfig struct {
	Endpoint        string
	AccessKey       string
	SecretKey       string
	UseSSL          bool
	BucketPlaceholders string
}

// Load reads Config from the environment, applying the defaults
// spec.md §6 lists, and validates that the Firestore project id is
// present (the one setting with no sane default).
func Load() (*Config, error) {
	cfg := &Config{
		MediaCollection:         getEnv("MEDIA_COLLECTION", "listings"),
		ReportsCollection:       getEnv("REPORTS_COLLECTION", "mediaValidationReports"),
		RepairReportsCollection: getEnv("REPAIR_REPORTS_COLLECTION", "mediaRepairReports"),

		BatchSize: getEnvInt("BATCH_SIZE", 50),

		PlaceholderImageURL: getEnv("PLACEHOLDER_IMAGE_URL", ""),
		PlaceholderVideoURL: getEnv("PLACEHOLDER_VIDEO_URL", ""),
		BaseURL:             getEnv("BASE_URL", ""),

		ProbeTimeoutMs: getEnvInt("PROBE_TIMEOUT_MS", 5000),
		MaxRedirects:   getEnvInt("MAX_REDIRECTS", 5),

		ProcessingIntervalMs: getEnvInt("PROCESSING_INTERVAL_MS", 5000),
		MaxConcurrentBatches: getEnvInt("MAX_CONCURRENT_BATCHES", 5),
		Enabled:              getEnv("ENABLED", "true") == "true",

		Firestore: FirestoreConfig{
			ProjectID:       getEnv("FIRESTORE_PROJECT_ID", ""),
			CredentialsPath: getEnv("FIRESTORE_CREDENTIALS_PATH", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		MinIO: MinIOConfig{
			Endpoint:           getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:          getEnv("MINIO_ACCESS_KEY", "minio"),
			SecretKey:          getEnv("MINIO_SECRET_KEY", "minio12345"),
			UseSSL:             getEnv("MINIO_USE_SSL", "false") == "true",
			BucketPlaceholders: getEnv("MINIO_BUCKET_PLACEHOLDERS", "media-placeholders"),
		},
	}

	if cfg.Firestore.ProjectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_ID is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}
