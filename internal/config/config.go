package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Ai        AIConfig
	Assistant AssistantConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	StaffEmail string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "jina"
	GeminiAPIKey      string
	JinaAPIKey        string
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "groq" or "ollama"
	LLMBaseURL        string
	LLMModel          string // e.g. "llama-3.1-8b-instant", "llama3"
	LLMAPIKey         string
	EmbedProductTopic string
}

// AssistantConfig carries the ranking and classification policy knobs.
type AssistantConfig struct {
	MinSimilarity    float64
	MinAcceptable    int
	SimilarityWeight float64
	AttributeBonus   float64
	SearchLimit      int
	TopN             int
	HistoryLimit     int
	SessionTTLHours  int
	HistoryTTLHours  int
}

type AdminConfig struct {
	JWTSecret string
	Email     string
	Password  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "EstroTech Jewellery"),
			StaffEmail: getEnv("STAFF_NOTIFY_EMAIL", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			GeminiAPIKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			JinaAPIKey:        getEnv("JINA_API_KEY", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "groq"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			LLMModel:          getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
			LLMAPIKey:         getEnv("LLM_API_KEY", ""),
			EmbedProductTopic: getEnv("EMBED_PRODUCT_TOPIC_NAME", "EMBED_PRODUCT"),
		},
		Assistant: AssistantConfig{
			MinSimilarity:    getEnvAsFloat("RECOMMEND_MIN_SIMILARITY", 0.5),
			MinAcceptable:    getEnvAsInt("RECOMMEND_MIN_ACCEPTABLE", 3),
			SimilarityWeight: getEnvAsFloat("RECOMMEND_SIMILARITY_WEIGHT", 0.7),
			AttributeBonus:   getEnvAsFloat("RECOMMEND_ATTRIBUTE_BONUS", 0.1),
			SearchLimit:      getEnvAsInt("RECOMMEND_SEARCH_LIMIT", 20),
			TopN:             getEnvAsInt("RECOMMEND_TOP_N", 5),
			HistoryLimit:     getEnvAsInt("CHAT_HISTORY_LIMIT", 5),
			SessionTTLHours:  getEnvAsInt("SESSION_TTL_HOURS", 1),
			HistoryTTLHours:  getEnvAsInt("HISTORY_TTL_HOURS", 2),
		},
		Admin: AdminConfig{
			JWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
			Email:     getEnv("ADMIN_EMAIL", ""),
			Password:  getEnv("ADMIN_PASSWORD", ""),
		},
	}
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
