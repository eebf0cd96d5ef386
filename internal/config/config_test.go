package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}
	if cfg.Format != "human" {
		t.Errorf("Format = %q, want %q", cfg.Format, "human")
	}
	if !cfg.Cache.Enabled {
		t.Error("cache should be enabled by default")
	}
	if !slices.Contains(cfg.Exclude, ".git") {
		t.Error("default excludes should include .git")
	}
	if len(cfg.Select) != 0 {
		t.Errorf("Select = %v, want empty", cfg.Select)
	}
}

func TestLoadConfigWithoutFiles(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir(), "")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
	if cfg.Format != "human" || !cfg.Cache.Enabled {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".bugbear.yaml", `
extend_select: [B9]
ignore: [B018]
jobs: 3
cache:
  enabled: false
`)
	cfg, err := LoadConfig(dir, "")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !slices.Equal(cfg.ExtendSelect, []string{"B9"}) {
		t.Errorf("ExtendSelect = %v, want [B9]", cfg.ExtendSelect)
	}
	if !slices.Equal(cfg.Ignore, []string{"B018"}) {
		t.Errorf("Ignore = %v, want [B018]", cfg.Ignore)
	}
	if cfg.Jobs != 3 {
		t.Errorf("Jobs = %d, want 3", cfg.Jobs)
	}
	if cfg.Cache.Enabled {
		t.Error("cache.enabled from file was ignored")
	}
	if cfg.Format != "human" {
		t.Errorf("Format = %q, want default", cfg.Format)
	}
	if filepath.Base(cfg.Source) != ".bugbear.yaml" {
		t.Errorf("Source = %q", cfg.Source)
	}
}

func TestLoadConfigPyproject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", `
[project]
name = "demo"

[tool.bugbear]
extend-immutable-calls = ["fastapi.Depends"]
select = ["B0", "B909"]
`)
	cfg, err := LoadConfig(dir, "")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !slices.Equal(cfg.ExtendImmutableCalls, []string{"fastapi.Depends"}) {
		t.Errorf("ExtendImmutableCalls = %v", cfg.ExtendImmutableCalls)
	}
	if !slices.Equal(cfg.Select, []string{"B0", "B909"}) {
		t.Errorf("Select = %v", cfg.Select)
	}
	if filepath.Base(cfg.Source) != "pyproject.toml" {
		t.Errorf("Source = %q", cfg.Source)
	}
}

func TestLoadConfigPrefersDotfileOverPyproject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", "[tool.bugbear]\nformat = \"json\"\n")
	writeFile(t, dir, ".bugbear.toml", "format = \"sarif\"\n")

	cfg, err := LoadConfig(dir, "")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Format != "sarif" {
		t.Errorf("Format = %q, want sarif", cfg.Format)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, err := LoadConfig(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("BUGBEAR_FORMAT", "json")
	t.Setenv("BUGBEAR_CACHE_ENABLED", "false")

	cfg, err := LoadConfig(t.TempDir(), "")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if cfg.Cache.Enabled {
		t.Error("BUGBEAR_CACHE_ENABLED was ignored")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad prefix", func(c *Config) { c.Select = []string{"b0"} }, "select"},
		{"bad ignore", func(c *Config) { c.Ignore = []string{"B-1"} }, "ignore"},
		{"negative jobs", func(c *Config) { c.Jobs = -1 }, "jobs"},
		{"unknown format", func(c *Config) { c.Format = "xml" }, "format"},
		{"unknown level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestSelectionAndSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Select = []string{"B0"}
	cfg.ExtendImmutableCalls = []string{"a.b"}

	if sel := cfg.Selection(); !slices.Equal(sel.Select, []string{"B0"}) {
		t.Errorf("Selection().Select = %v", sel.Select)
	}
	if s := cfg.EngineSettings(); !slices.Equal(s.ExtendImmutableCalls, []string{"a.b"}) {
		t.Errorf("EngineSettings().ExtendImmutableCalls = %v", s.ExtendImmutableCalls)
	}
}
