package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DBMode          string // "" picks sqlite/postgres by DatabaseURL; "memory" forces in-memory
	SQLitePath      string
	LogLevel        string
	LLMProvider     string
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
	LLMMaxTokens    int
	HistoryWindow   int
	CORSOrigin      string
	ChatRateLimit   int
	NatsURL         string
	NatsToken       string
}

func Load() Config {
	// A local .env overrides nothing already in the environment.
	_ = godotenv.Load()

	return Config{
		Port:            envInt("SUPPORTCHAT_PORT", 3000),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		DBMode:          envStr("SUPPORTCHAT_DB", ""),
		SQLitePath:      envStr("SQLITE_PATH", "data/supportchat.db"),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		LLMProvider:     envStr("LLM_PROVIDER", "anthropic"),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  envStr("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
		GeminiAPIKey:    envStr("GEMINI_API_KEY", ""),
		GeminiModel:     envStr("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		LLMMaxTokens:    envInt("LLM_MAX_TOKENS", 300),
		HistoryWindow:   envInt("HISTORY_WINDOW", 10),
		CORSOrigin:      envStr("CORS_ORIGIN", "http://localhost:5173"),
		ChatRateLimit:   envInt("CHAT_RATE_LIMIT", 20),
		NatsURL:         envStr("NATS_URL", ""),
		NatsToken:       envStr("NATS_TOKEN", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
