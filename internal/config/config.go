// Package config provides the configuration schema, loader, and validation
// for the inklint grammar-check server.
package config

// LogLevel controls log verbosity for the inklint server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for inklint.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Limits    LimitsConfig    `yaml:"limits"`
	Providers ProvidersConfig `yaml:"providers"`
	Heuristic HeuristicConfig `yaml:"heuristic"`
}

// ServerConfig holds network, logging, and rate-limit settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// RateLimit configures the per-client request cap on /api/ routes.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig caps API request rates per client address.
type RateLimitConfig struct {
	// RequestsPerMinute is the sustained per-client allowance. Zero uses the
	// default of 20.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// LimitsConfig bounds accepted inputs.
type LimitsConfig struct {
	// MaxTextLen is the maximum text length in characters. Zero uses the
	// default of 50000.
	MaxTextLen int `yaml:"max_text_len"`

	// MaxBodyBytes caps the JSON request body size. Zero uses the default of
	// 10MB.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// ProvidersConfig declares the ordered provider chain. Both slots are
// optional; with neither configured the local heuristic checker serves all
// requests.
type ProvidersConfig struct {
	Primary   ProviderEntry `yaml:"primary"`
	Secondary ProviderEntry `yaml:"secondary"`
}

// ProviderEntry is the configuration block shared by both provider slots.
type ProviderEntry struct {
	// Name selects the backend: "openai", "gemini", or any name supported by
	// the anyllm adapter (anthropic, ollama, deepseek, mistral, groq).
	// Empty means the slot is unconfigured.
	Name string `yaml:"name"`

	// APIKey authenticates against the backend. When empty, the loader
	// falls back to the backend's conventional environment variable
	// (OPENAI_API_KEY, GEMINI_API_KEY, ...).
	APIKey string `yaml:"api_key"`

	// Model selects a specific model within the backend. Empty uses the
	// adapter default.
	Model string `yaml:"model"`

	// BaseURL overrides the backend's default API endpoint where the
	// adapter supports it. Leave empty for the built-in default.
	BaseURL string `yaml:"base_url"`
}

// Configured reports whether the slot selects a backend.
func (e ProviderEntry) Configured() bool { return e.Name != "" }

// HeuristicConfig tunes the local fallback checker.
type HeuristicConfig struct {
	// SimulateLatency makes locally served results pause for one second so
	// they pace like a real provider round-trip.
	SimulateLatency bool `yaml:"simulate_latency"`
}
