package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"flipkart-recommender/internal/apperr"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Session  SessionConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	Groq        string
	HuggingFace string
}

type AIConfig struct {
	LLMProvider       string // "groq" or "ollama"
	LLMModel          string
	LLMTemperature    float64
	EmbeddingProvider string // "huggingface" or "ollama"
	EmbeddingModel    string
	OllamaBaseURL     string
	OllamaModel       string
	RetrievalTopK     int
	RequestTimeout    time.Duration // per external call
}

type SessionConfig struct {
	TTL           time.Duration
	PurgeInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			Groq:        getEnv("GROQ_API_KEY", ""),
			HuggingFace: getEnv("HF_TOKEN", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "groq"),
			LLMModel:          getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
			LLMTemperature:    getEnvAsFloat("LLM_TEMPERATURE", 0.0),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "huggingface"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "BAAI/bge-base-en-v1.5"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			RetrievalTopK:     getEnvAsInt("RETRIEVAL_TOP_K", 3),
			RequestTimeout:    time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Session: SessionConfig{
			TTL:           time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
			PurgeInterval: time.Duration(getEnvAsInt("SESSION_PURGE_MINUTES", 10)) * time.Minute,
		},
	}
}

// Validate fails fast when required settings are absent so the process never
// accepts traffic it cannot serve.
func (c *Config) Validate() error {
	var missing []string

	if c.Database.Connection == "" {
		missing = append(missing, "DB_CONNECTION_STRING")
	}
	if c.Ai.LLMProvider == "groq" && c.Keys.Groq == "" {
		missing = append(missing, "GROQ_API_KEY")
	}
	if c.Ai.EmbeddingProvider == "huggingface" && c.Keys.HuggingFace == "" {
		missing = append(missing, "HF_TOKEN")
	}

	if len(missing) > 0 {
		return apperr.Configuration(
			fmt.Sprintf("missing required environment variables: %s", strings.Join(missing, ", ")),
		)
	}
	if c.Ai.RetrievalTopK <= 0 {
		return apperr.Configuration("RETRIEVAL_TOP_K must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
