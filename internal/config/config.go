package config

import (
	"os"
)

// StorageConfig holds the Google Cloud Storage gateway settings.
type StorageConfig struct {
	// Bucket is the default upload bucket (GCP_BUCKET_NAME). May be empty.
	Bucket string

	// CredentialsJSON is the service-account key blob (GCP_SA_CREDENTIALS).
	// When empty the storage gateway runs disabled.
	CredentialsJSON string

	// SpoolDir is where incoming files are staged before upload
	// (STORAGE_PATH).
	SpoolDir string
}

// Config is the centralized configuration struct for the application. It is
// populated from environment variables, captured once at process start.
type Config struct {
	Port    string
	Storage StorageConfig
}

// Load reads configuration from environment variables. A .env file can be
// auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables
// take precedence.
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),
		Storage: StorageConfig{
			Bucket:          getEnv("GCP_BUCKET_NAME", ""),
			CredentialsJSON: getEnv("GCP_SA_CREDENTIALS", ""),
			SpoolDir:        getEnv("STORAGE_PATH", "/tmp/"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
