// Package config loads sprout configuration from TOML, YAML, or JSON files.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for sprout.
type Config struct {
	// Data locates the built reference dataset.
	Data DataConfig `koanf:"data"`

	// Server configures the webhook HTTP server.
	Server ServerConfig `koanf:"server"`

	// LLM configures the chat-completion upstream.
	LLM LLMConfig `koanf:"llm"`

	// Session configures conversation-state storage.
	Session SessionConfig `koanf:"session"`
}

// DataConfig locates the reference dataset.
type DataConfig struct {
	Dataset string `koanf:"dataset"`
}

// ServerConfig controls the webhook server.
type ServerConfig struct {
	Addr            string `koanf:"addr"`
	ReadTimeoutSec  int    `koanf:"read_timeout_sec"`
	WriteTimeoutSec int    `koanf:"write_timeout_sec"`
	ShutdownSec     int    `koanf:"shutdown_sec"`
}

// LLMConfig controls the chat-completion client. The API key is read from
// the environment variable named by APIKeyEnv, never from the file itself.
type LLMConfig struct {
	BaseURL         string `koanf:"base_url"`
	Model           string `koanf:"model"`
	APIKeyEnv       string `koanf:"api_key_env"`
	TimeoutSec      int    `koanf:"timeout_sec"`
	MaxRetries      int    `koanf:"max_retries"`
	BreakerFailures int    `koanf:"breaker_failures"`
}

// SessionConfig controls conversation-state storage.
type SessionConfig struct {
	Backend string `koanf:"backend"` // sqlite or memory
	Path    string `koanf:"path"`    // sqlite file path
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dataset: "growth-reference.json",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeoutSec:  10,
			WriteTimeoutSec: 30,
			ShutdownSec:     10,
		},
		LLM: LLMConfig{
			BaseURL:         "https://api.openai.com/v1",
			Model:           "gpt-4o-mini",
			APIKeyEnv:       "SPROUT_LLM_API_KEY",
			TimeoutSec:      20,
			MaxRetries:      3,
			BreakerFailures: 5,
		},
		Session: SessionConfig{
			Backend: "sqlite",
			Path:    ".sprout/sessions.db",
		},
	}
}

// Load loads configuration from a file, with the parser chosen by extension.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault tries standard config locations and falls back to defaults.
func LoadOrDefault() *Config {
	names := []string{
		"sprout.toml",
		"sprout.yaml",
		"sprout.yml",
		"sprout.json",
		".sprout.toml",
		".sprout.yaml",
		".sprout.yml",
		".sprout.json",
	}
	for _, dir := range []string{".", ".sprout"} {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				if cfg, err := Load(path); err == nil {
					return cfg
				}
			}
		}
	}
	return DefaultConfig()
}
