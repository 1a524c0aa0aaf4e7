package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every runtime setting. It is built once in main via Load
// and passed by reference to the components that need it.
type Config struct {
	BackendPort string
	FrontendURL string

	// PostgreSQL
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string

	// Auth
	JWTSecret                string
	RefreshSecret            string
	AccessTokenExpireMinutes int
	RefreshTokenExpireDays   int
	APISecretKey             string

	// Object storage: "local" or "s3"
	StorageBackend   string
	LocalStoragePath string
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3UseSSL         bool

	// Embeddings
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	EmbeddingModel   string
	EmbeddingTimeout time.Duration
	EmbedAnswers     bool

	// Background parsing
	ParseWorkers         int
	ParseMaxAttempts     int
	DeleteAfterParse     bool
	AllowDuplicateSuffix bool

	// Search
	SearchTopK int
}

// Load reads the configuration from environment variables.
// Secrets have no defaults and are validated here so a misconfigured
// process fails at startup instead of on the first request.
func Load() (*Config, error) {
	cfg := &Config{
		BackendPort: getEnv("BACKEND_PORT", "8000"),
		FrontendURL: getEnv("FRONTEND_URL", "*"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),

		JWTSecret:                os.Getenv("JWT_SECRET"),
		RefreshSecret:            os.Getenv("REFRESH_SECRET"),
		AccessTokenExpireMinutes: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		RefreshTokenExpireDays:   getEnvInt("REFRESH_TOKEN_EXPIRE_DAYS", 3),
		APISecretKey:             os.Getenv("BIDHIVE_API_SECRET_KEY"),

		StorageBackend:   getEnv("STORAGE_BACKEND", "local"),
		LocalStoragePath: getEnv("LOCAL_STORAGE_PATH", "./uploaded_docs"),
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3AccessKey:      os.Getenv("AWS_ACCESS_KEY_ID"),
		S3SecretKey:      os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3Bucket:         os.Getenv("S3_BUCKET_NAME"),
		S3UseSSL:         getEnvBool("S3_USE_SSL", true),

		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
		EmbeddingTimeout: getEnvDuration("EMBEDDING_TIMEOUT", 30*time.Second),
		EmbedAnswers:     getEnvBool("EMBED_ANSWERS", false),

		ParseWorkers:         getEnvInt("PARSE_WORKERS", 3),
		ParseMaxAttempts:     getEnvInt("PARSE_MAX_ATTEMPTS", 3),
		DeleteAfterParse:     getEnvBool("DELETE_AFTER_PARSE", true),
		AllowDuplicateSuffix: getEnvBool("ALLOW_DUPLICATE_TAG_SUFFIX", false),

		SearchTopK: getEnvInt("SEARCH_TOP_K", 1),
	}

	if cfg.JWTSecret == "" || cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET and REFRESH_SECRET must be set")
	}
	if cfg.APISecretKey == "" {
		return nil, fmt.Errorf("BIDHIVE_API_SECRET_KEY must be set")
	}
	if cfg.StorageBackend != "local" && cfg.StorageBackend != "s3" {
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	if cfg.StorageBackend == "s3" && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET_NAME must be set for the s3 backend")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
