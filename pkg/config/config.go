package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	GigaChat GigaChatConfig
	Chat     ChatConfig
	Indexer  IndexerConfig
	Auth     AuthConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	EmbeddingModel     string
	InsecureSkipVerify bool
	MaxAttempts        int
	RetryBaseDelay     time.Duration
}

type ChatConfig struct {
	SimilarityThreshold float64
	SearchLimit         int
	ExchangeRate        float64 // USD -> VND display rate
}

type IndexerConfig struct {
	BulkDelay time.Duration
}

type AuthConfig struct {
	ServiceSecret string
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	maxAttempts, _ := strconv.Atoi(getEnv("GIGACHAT_MAX_ATTEMPTS", "3"))
	retryBaseMs, _ := strconv.Atoi(getEnv("GIGACHAT_RETRY_BASE_MS", "1000"))
	threshold, _ := strconv.ParseFloat(getEnv("CHAT_SIMILARITY_THRESHOLD", "0.45"), 64)
	searchLimit, _ := strconv.Atoi(getEnv("CHAT_SEARCH_LIMIT", "5"))
	exchangeRate, _ := strconv.ParseFloat(getEnv("CHAT_EXCHANGE_RATE_VND", "26372"), 64)
	bulkDelayMs, _ := strconv.Atoi(getEnv("INDEXER_BULK_DELAY_MS", "500"))
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true"

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   getEnv("DB_NAME", "shopsmart"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		GigaChat: GigaChatConfig{
			APIKey:             os.Getenv("GIGACHAT_API_KEY"),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
			EmbeddingModel:     getEnv("GIGACHAT_EMBEDDING_MODEL", "Embeddings"),
			InsecureSkipVerify: insecureSkipVerify,
			MaxAttempts:        maxAttempts,
			RetryBaseDelay:     time.Duration(retryBaseMs) * time.Millisecond,
		},
		Chat: ChatConfig{
			SimilarityThreshold: threshold,
			SearchLimit:         searchLimit,
			ExchangeRate:        exchangeRate,
		},
		Indexer: IndexerConfig{
			BulkDelay: time.Duration(bulkDelayMs) * time.Millisecond,
		},
		Auth: AuthConfig{
			ServiceSecret: getEnv("SERVICE_TOKEN_SECRET", "change-me-in-production"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	// The model key and store credentials are hard startup requirements; their
	// absence is a configuration error, not something to discover per request.
	if cfg.GigaChat.APIKey == "" {
		return nil, fmt.Errorf("GIGACHAT_API_KEY is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
