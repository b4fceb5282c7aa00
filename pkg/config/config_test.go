package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "growth-reference.json", cfg.Data.Dataset)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "SPROUT_LLM_API_KEY", cfg.LLM.APIKeyEnv)
	assert.Equal(t, "sqlite", cfg.Session.Backend)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sprout.toml", `
[data]
dataset = "/var/lib/sprout/who.json"

[server]
addr = ":9090"

[llm]
model = "gpt-4o"

[session]
backend = "memory"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/sprout/who.json", cfg.Data.Dataset)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "memory", cfg.Session.Backend)
	// Untouched keys keep their defaults.
	assert.Equal(t, 10, cfg.Server.ReadTimeoutSec)
	assert.Equal(t, "SPROUT_LLM_API_KEY", cfg.LLM.APIKeyEnv)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sprout.yaml", `
server:
  addr: ":7070"
  shutdown_sec: 5
llm:
  timeout_sec: 45
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Server.ShutdownSec)
	assert.Equal(t, 45, cfg.LLM.TimeoutSec)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sprout.json", `{
  "session": {"backend": "sqlite", "path": "/tmp/sessions.db"},
  "llm": {"breaker_failures": 8}
}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/sessions.db", cfg.Session.Path)
	assert.Equal(t, 8, cfg.LLM.BreakerFailures)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)

	path := writeFile(t, t.TempDir(), "sprout.toml", "this is = not [valid toml")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	// No config anywhere: defaults.
	cfg := LoadOrDefault()
	assert.Equal(t, ":8080", cfg.Server.Addr)

	// A sprout.toml in the working directory wins.
	writeFile(t, dir, "sprout.toml", "[server]\naddr = \":6060\"\n")
	cfg = LoadOrDefault()
	assert.Equal(t, ":6060", cfg.Server.Addr)
}
