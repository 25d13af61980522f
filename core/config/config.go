package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env     string
	LLM     LLMConfig
	Store   StoreConfig
	Log     LogConfig
	Preview PreviewConfig
}

type LLMConfig struct {
	Provider  string // "openai" or "anthropic"
	APIKey    string
	BaseURL   string // optional, for custom endpoints
	Model     string
	MaxTokens int
}

type StoreConfig struct {
	Path string // SQLite transcript database; empty disables recording
}

type LogConfig struct {
	Level string // debug, info, warn, error; empty follows Env
}

type PreviewConfig struct {
	Port string
}

// Load reads configuration from environment variables. In development a
// .env file in the working directory is honored first. No variable is
// required at load time; whether a missing API key matters is the
// command's call (generate refuses without one unless --skip-ai is set).
func Load() (Config, error) {
	if getEnv("GITDECK_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	provider := getEnv("GITDECK_LLM_PROVIDER", "openai")

	cfg := Config{
		Env: getEnv("GITDECK_ENV", "development"),
		LLM: LLMConfig{
			Provider:  provider,
			APIKey:    apiKeyFor(provider),
			BaseURL:   getEnv("GITDECK_LLM_BASE_URL", ""),
			Model:     getEnv("GITDECK_LLM_MODEL", ""),
			MaxTokens: getEnvInt("GITDECK_LLM_MAX_TOKENS", 1200),
		},
		Store: StoreConfig{
			Path: getEnv("GITDECK_TRANSCRIPTS_DB", ""),
		},
		Log: LogConfig{
			Level: getEnv("GITDECK_LOG_LEVEL", ""),
		},
		Preview: PreviewConfig{
			Port: getEnv("GITDECK_PREVIEW_PORT", "3030"),
		},
	}

	return cfg, nil
}

// apiKeyFor resolves the credential for a provider: the explicit
// GITDECK_LLM_API_KEY wins, then the provider's conventional variable.
func apiKeyFor(provider string) string {
	if key := getEnv("GITDECK_LLM_API_KEY", ""); key != "" {
		return key
	}
	switch provider {
	case "anthropic":
		return getEnv("ANTHROPIC_API_KEY", "")
	default:
		return getEnv("OPENAI_API_KEY", "")
	}
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// PreviewPort returns the preview port as an int, falling back to the
// default when the variable is unset or not a number.
func (c Config) PreviewPort() int {
	if p, err := strconv.Atoi(c.Preview.Port); err == nil && p > 0 {
		return p
	}
	return 3030
}

func (c LLMConfig) Enabled() bool {
	return c.APIKey != "" && (c.Provider == "openai" || c.Provider == "anthropic")
}

func (c StoreConfig) Enabled() bool {
	return c.Path != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
