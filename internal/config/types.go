package config

// AppConfig holds runtime startup configuration loaded from YAML with
// environment-variable overrides.
type AppConfig struct {
	Port               int      `yaml:"port"`
	Env                string   `yaml:"env"` // "development" | "production"
	DatabaseFile       string   `yaml:"database_file"`
	RedisURL           string   `yaml:"redis_url"`
	JWTSecret          string   `yaml:"jwt_secret"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
	RequestTimeout     int      `yaml:"request_timeout"` // seconds per provider attempt
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
	AI                 AIConfig `yaml:"ai"`
}

// AIConfig holds the ordered provider list used by the gateway. The first
// configured provider is the default when a request names no preference.
type AIConfig struct {
	Providers []AIProvider `yaml:"providers"`
}

// AIProvider describes one text-generation backend.
type AIProvider struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Type     string `yaml:"type"` // gemini | openrouter | openai | openai-compatible | anthropic
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// Configured reports whether the provider carries a credential. Providers
// without one are treated as permanently unavailable and skipped in fallback.
func (p AIProvider) Configured() bool { return p.APIKey != "" }

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }
