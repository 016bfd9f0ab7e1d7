package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// Database設定
	Database DatabaseConfig

	// OpenAI設定
	OpenAI OpenAIConfig

	// HTTPサーバー設定
	Server ServerConfig

	// ドキュメントストアの種類（"postgres" または "memory"）
	Store string

	// チャンク分割の設定
	Chunking ChunkingConfig

	// 質問応答の設定
	Ask AskConfig
}

// DatabaseConfig はデータベース接続設定
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// OpenAIConfig はOpenAI API設定（Embeddings + Chat）
type OpenAIConfig struct {
	APIKey             string
	EmbeddingModel     string
	EmbeddingDimension int
	ChatModel          string
}

// ServerConfig はHTTPサーバー設定
type ServerConfig struct {
	Addr           string
	MaxUploadBytes int64
	CORSOrigin     string
}

// ChunkingConfig はチャンク分割設定
type ChunkingConfig struct {
	MaxChars int
	Overlap  int
}

// AskConfig は質問応答設定
type AskConfig struct {
	ContextTokenLimit int
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "docmind"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "docmind"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel:     getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimension: getEnvAsInt("OPENAI_EMBEDDING_DIMENSION", 1536),
			ChatModel:          getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		},
		Server: ServerConfig{
			Addr:           getEnv("SERVER_ADDR", ":8080"),
			MaxUploadBytes: int64(getEnvAsInt("SERVER_MAX_UPLOAD_BYTES", 20<<20)),
			CORSOrigin:     getEnv("SERVER_CORS_ORIGIN", "http://localhost:3000"),
		},
		Store: getEnv("DOCMIND_STORE", "postgres"),
		Chunking: ChunkingConfig{
			MaxChars: getEnvAsInt("CHUNK_MAX_CHARS", 1200),
			Overlap:  getEnvAsInt("CHUNK_OVERLAP", 150),
		},
		Ask: AskConfig{
			ContextTokenLimit: getEnvAsInt("ASK_CONTEXT_TOKEN_LIMIT", 6000),
		},
	}

	if cfg.Store != "postgres" && cfg.Store != "memory" {
		return nil, fmt.Errorf("invalid DOCMIND_STORE: %s (expected postgres or memory)", cfg.Store)
	}

	return cfg, nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
