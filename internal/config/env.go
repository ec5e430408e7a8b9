package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL      string
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string
	AIAPIKey         string
	AIBaseURL        string
	ChatModel        string
	EmbedProvider    string // "openai" or "gemini"
	EmbedModel       string
	EmbedDim         int
	GeminiAPIKey     string
	ChunkSize        int
	ChunkOverlap     int
	EmbedBatchSize   int
	IngestWorkers    int
	Port             string
}

// LoadConfig loads the environment variables and returns the config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey:     getEnv("QDRANT_API_KEY", ""),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "agent_documents"),
		AIAPIKey:         getEnv("DEEPSEEK_API_KEY", ""),
		AIBaseURL:        getEnv("AI_BASE_URL", "https://api.deepseek.com/v1"),
		ChatModel:        getEnv("CHAT_MODEL", "deepseek-chat"),
		EmbedProvider:    getEnv("EMBED_PROVIDER", "openai"),
		EmbedModel:       getEnv("EMBED_MODEL", "text-embedding-3-small"),
		EmbedDim:         getEnvInt("EMBED_DIM", 384),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		ChunkSize:        getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:     getEnvInt("CHUNK_OVERLAP", 100),
		EmbedBatchSize:   getEnvInt("EMBED_BATCH_SIZE", 16),
		IngestWorkers:    getEnvInt("INGEST_WORKERS", 4),
		Port:             getEnv("PORT", "8080"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}
