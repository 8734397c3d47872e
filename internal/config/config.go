// Package config reads service settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string // HTTP listen port
	DBPath    string // SQLite database file or DSN
	UploadDir string // Root directory for uploaded files

	JWTSecret string
	JWTTTL    time.Duration

	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration

	KafkaBrokers []string // Empty disables event publishing

	LogLevel  string
	LogFormat string // console or json

	SeedSampleData bool
	AdminEmail     string
	AdminPassword  string
}

// Load reads .env files (missing files are ignored) and then the environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8000"),
		DBPath:        getEnv("DB_PATH", "medicart.db"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		LLMAPIKey:     os.Getenv("GROQ_API_KEY"),
		LLMBaseURL:    getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMModel:      getEnv("LLM_MODEL", "llama3-8b-8192"),
		KafkaBrokers:  splitList(os.Getenv("KAFKA_BROKERS")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@medicart.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 72*time.Hour); err != nil {
		return nil, err
	}
	if cfg.LLMTimeout, err = getDuration("LLM_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.SeedSampleData, err = getBool("SEED_SAMPLE_DATA", true); err != nil {
		return nil, err
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("PORT: %q is not a number", cfg.Port)
	}
	return cfg, nil
}

func (c *Config) Addr() string { return ":" + c.Port }

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
