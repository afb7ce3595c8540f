// Package config loads the server configuration from an optional JSON file
// overlaid with environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is the full server configuration.
type Config struct {
	Port    int           `json:"port"`
	Gemini  GeminiConfig  `json:"gemini"`
	Dedalus DedalusConfig `json:"dedalus"`
}

// GeminiConfig configures the primary generative backend.
// An empty APIKey leaves the service in a degraded state where every chat
// request returns the fallback reply.
type GeminiConfig struct {
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
	APIBase string `json:"apiBase"`
}

// DedalusConfig configures the secondary semantic-answer backend.
type DedalusConfig struct {
	Enabled bool   `json:"enabled"`
	Model   string `json:"model"`
	APIKey  string `json:"apiKey"`
	APIBase string `json:"apiBase"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Port: 5001,
		Gemini: GeminiConfig{
			Model:   "models/gemini-1.5-flash-latest",
			APIBase: "https://generativelanguage.googleapis.com/v1beta",
		},
		Dedalus: DedalusConfig{
			Enabled: true,
			Model:   "openai/gpt-5",
			APIBase: "https://api.dedaluslabs.ai/v1",
		},
	}
}

// falseValues are the recognised "disabled" spellings for boolean env vars.
var falseValues = map[string]struct{}{
	"0": {}, "false": {}, "off": {}, "no": {},
}

// ApplyEnv overlays recognised environment variables onto cfg.
// Unset variables leave the current value untouched.
func (cfg *Config) ApplyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Port = port
		}
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("GEMINI_API_BASE"); v != "" {
		cfg.Gemini.APIBase = v
	}
	if v, ok := os.LookupEnv("DEDALUS_ENABLED"); ok {
		_, isFalse := falseValues[strings.ToLower(strings.TrimSpace(v))]
		cfg.Dedalus.Enabled = !isFalse
	}
	if v := os.Getenv("DEDALUS_MODEL"); v != "" {
		cfg.Dedalus.Model = v
	}
	if v := os.Getenv("DEDALUS_API_KEY"); v != "" {
		cfg.Dedalus.APIKey = v
	}
	if v := os.Getenv("DEDALUS_API_BASE"); v != "" {
		cfg.Dedalus.APIBase = v
	}
}
