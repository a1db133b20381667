package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists the backend names the server knows how to build.
// Used by [Validate] to reject typos early instead of at first request.
var ValidProviderNames = []string{
	"openai", "gemini", "anthropic", "ollama", "deepseek", "mistral", "groq",
}

// envKeyByProvider maps backend names to the conventional environment
// variable holding their API key.
var envKeyByProvider = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"deepseek":  "DEEPSEEK_API_KEY",
	"mistral":   "MISTRAL_API_KEY",
	"groq":      "GROQ_API_KEY",
}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies environment-variable
// API key fallbacks, and validates the result. Useful in tests where configs
// are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}

	applyEnvKeys(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvKeys fills empty api_key fields from the backend's conventional
// environment variable. Explicit file values always win.
func applyEnvKeys(cfg *Config) {
	for _, e := range []*ProviderEntry{&cfg.Providers.Primary, &cfg.Providers.Secondary} {
		if !e.Configured() || e.APIKey != "" {
			continue
		}
		if envKey, ok := envKeyByProvider[strings.ToLower(e.Name)]; ok {
			e.APIKey = os.Getenv(envKey)
		}
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit.requests_per_minute must not be negative"))
	}
	if cfg.Limits.MaxTextLen < 0 {
		errs = append(errs, fmt.Errorf("limits.max_text_len must not be negative"))
	}
	if cfg.Limits.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("limits.max_body_bytes must not be negative"))
	}

	for slot, e := range map[string]ProviderEntry{
		"providers.primary":   cfg.Providers.Primary,
		"providers.secondary": cfg.Providers.Secondary,
	} {
		if !e.Configured() {
			continue
		}
		if !slices.Contains(ValidProviderNames, strings.ToLower(e.Name)) {
			errs = append(errs, fmt.Errorf("%s.name %q is invalid; valid values: %s",
				slot, e.Name, strings.Join(ValidProviderNames, ", ")))
		}
	}

	if !cfg.Providers.Primary.Configured() && cfg.Providers.Secondary.Configured() {
		slog.Warn("providers.secondary is configured without a primary; it will serve as the only remote backend")
	}
	if !cfg.Providers.Primary.Configured() && !cfg.Providers.Secondary.Configured() {
		slog.Warn("no remote provider configured; the local heuristic checker will serve all requests")
	}

	return errors.Join(errs...)
}
