package config

import (
	"os"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string
	SeedsPath      string

	StaticFilesPath string
	AudioPath       string
	GenerateTTS     bool

	SessionDuration time.Duration

	// Amazon SES result summary emails; disabled when FromEmail is empty
	SESRegion    string
	SESFromEmail string
	SESFromName  string
	EmailDebug   bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:     getEnv("DB_URL", ""),
		DatabasePath:    getEnv("DB_PATH", "./wordquest.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		SeedsPath:       getEnv("SEEDS_PATH", "./seeds"),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		AudioPath:       getEnv("AUDIO_PATH", "./static/audio"),
		GenerateTTS:     getEnv("GENERATE_TTS", "") == "true",
		SessionDuration: 30 * 24 * time.Hour,
		SESRegion:       getEnv("SES_REGION", "eu-west-1"),
		SESFromEmail:    getEnv("SES_FROM_EMAIL", ""),
		SESFromName:     getEnv("SES_FROM_NAME", "WordQuest"),
		EmailDebug:      getEnv("EMAIL_DEBUG", "") == "true",
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
