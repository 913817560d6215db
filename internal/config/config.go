package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort           = 8080
	defaultEnv            = "development"
	defaultDatabaseFile   = "database.db"
	defaultRequestTimeout = 25
	defaultRateLimit      = 45

	defaultGeminiModel     = "gemini-flash-latest"
	defaultOpenRouterModel = "openai/gpt-3.5-turbo"
)

// MaxTopicLength bounds user-supplied topic text before it reaches the
// prompt builder.
const MaxTopicLength = 2000

// Load reads the YAML config file (if present), applies environment
// overrides and fills defaults. A missing file is not an error; the app can
// run from environment alone.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// env-only setup
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("DATABASE_FILE"); v != "" {
		cfg.DatabaseFile = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RequestTimeout = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = n
		}
	}

	// Credentials always come from the environment when present, so a
	// committed config file never needs to carry keys.
	for i := range cfg.AI.Providers {
		p := &cfg.AI.Providers[i]
		if key := os.Getenv(providerKeyEnv(p.ID)); key != "" {
			p.APIKey = key
		}
	}
}

func providerKeyEnv(id string) string {
	id = strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(id)), "-", "_")
	return id + "_API_KEY"
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DatabaseFile == "" {
		cfg.DatabaseFile = defaultDatabaseFile
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = defaultRateLimit
	}

	if len(cfg.AI.Providers) == 0 {
		cfg.AI.Providers = defaultProviders()
	}
	for i := range cfg.AI.Providers {
		normalizeProvider(&cfg.AI.Providers[i])
	}
}

// defaultProviders is the stock gemini-primary / openrouter-backup pair.
func defaultProviders() []AIProvider {
	return []AIProvider{
		{
			ID:     "gemini",
			Name:   "Gemini",
			Type:   "gemini",
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  defaultGeminiModel,
		},
		{
			ID:     "openrouter",
			Name:   "OpenRouter",
			Type:   "openrouter",
			APIKey: os.Getenv("OPENROUTER_API_KEY"),
			Model:  os.Getenv("OPENROUTER_MODEL"),
		},
	}
}

func normalizeProvider(p *AIProvider) {
	p.ID = strings.ToLower(strings.TrimSpace(p.ID))
	p.Type = strings.ToLower(strings.TrimSpace(p.Type))
	if p.Type == "" {
		p.Type = p.ID
	}
	if p.Name == "" && p.ID != "" {
		p.Name = strings.ToUpper(p.ID[:1]) + p.ID[1:]
	}
	if p.Model == "" {
		switch p.Type {
		case "gemini":
			p.Model = defaultGeminiModel
		case "openrouter":
			p.Model = defaultOpenRouterModel
		}
	}
}
