package config

import (
	"os"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	StorePath       string
	DatabaseURL     string
	OpenAIAPIKey    string
	LLMModel        string
	Env             string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		StorePath:       getEnv("STORE_PATH", "./data/saved_thoughts.json"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		LLMModel:        getEnv("LLM_MODEL", "gpt-4o"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
	}
}

// Warnings reports non-fatal configuration problems. A missing API key does not
// stop the server, but every analysis request will fail against the real endpoint.
func (c Config) Warnings() []string {
	var out []string
	if strings.TrimSpace(c.OpenAIAPIKey) == "" {
		out = append(out, "OPENAI_API_KEY is not set; thought analysis requests will fail")
	}
	if strings.TrimSpace(c.LLMModel) == "" {
		out = append(out, "LLM_MODEL is empty; requests will be rejected by the endpoint")
	}
	return out
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
