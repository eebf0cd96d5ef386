package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"bugbear/internal/catalog"
	"bugbear/internal/engine"
)

// Config represents the complete bugbear configuration
type Config struct {
	Select       []string `json:"select" mapstructure:"select"`
	ExtendSelect []string `json:"extendSelect" mapstructure:"extend_select"`
	Ignore       []string `json:"ignore" mapstructure:"ignore"`
	Exclude      []string `json:"exclude" mapstructure:"exclude"`

	ExtendImmutableCalls  []string `json:"extendImmutableCalls" mapstructure:"extend_immutable_calls"`
	ClassmethodDecorators []string `json:"classmethodDecorators" mapstructure:"classmethod_decorators"`

	Jobs   int    `json:"jobs" mapstructure:"jobs"`
	Format string `json:"format" mapstructure:"format"`

	Cache   CacheConfig   `json:"cache" mapstructure:"cache"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Source is the file the configuration was read from, empty for defaults.
	Source string `json:"-" mapstructure:"-"`
}

// CacheConfig contains result cache configuration
type CacheConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Dir     string `json:"dir" mapstructure:"dir"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `json:"level" mapstructure:"level"`
}

// Formats lists the accepted output formats.
var Formats = []string{"human", "json", "yaml", "sarif"}

// DefaultExclude holds directories never worth linting.
var DefaultExclude = []string{".git", ".hg", ".svn", ".tox", ".nox", ".venv", "venv", "__pycache__", "node_modules", "build", "dist"}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Exclude:               slices.Clone(DefaultExclude),
		ClassmethodDecorators: []string{"classmethod"},
		Format:                "human",
		Cache: CacheConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// configName is looked up in the project root with any viper-supported
// extension (.yaml, .yml, .toml, .json).
const configName = ".bugbear"

// LoadConfig loads configuration for the project rooted at root. An explicit
// path wins; otherwise .bugbear.* in root is read, then [tool.bugbear] in
// root/pyproject.toml. BUGBEAR_* environment variables override file values.
func LoadConfig(root, explicit string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix("BUGBEAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	source := ""
	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return nil, &ConfigError{Field: "config", Message: err.Error()}
		}
		source = explicit
	default:
		v.SetConfigName(configName)
		v.AddConfigPath(root)
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		switch {
		case err == nil:
			source = v.ConfigFileUsed()
		case errors.As(err, &notFound):
			path := filepath.Join(root, "pyproject.toml")
			section, err := readPyproject(path)
			if err != nil {
				return nil, err
			}
			if section != nil {
				if err := v.MergeConfigMap(section); err != nil {
					return nil, &ConfigError{Field: "tool.bugbear", Message: err.Error()}
				}
				source = path
			}
		default:
			return nil, &ConfigError{Field: "config", Message: err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Field: "config", Message: err.Error()}
	}
	cfg.Source = source
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("select", d.Select)
	v.SetDefault("extend_select", d.ExtendSelect)
	v.SetDefault("ignore", d.Ignore)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("extend_immutable_calls", d.ExtendImmutableCalls)
	v.SetDefault("classmethod_decorators", d.ClassmethodDecorators)
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("format", d.Format)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("logging.level", d.Logging.Level)
}

// readPyproject returns the [tool.bugbear] table of a pyproject.toml, with
// flake8-style dashed keys normalised to underscores. A missing file or
// section yields nil.
func readPyproject(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &ConfigError{Field: "pyproject.toml", Message: err.Error()}
	}

	var doc struct {
		Tool struct {
			Bugbear map[string]any `toml:"bugbear"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Field: "pyproject.toml", Message: err.Error()}
	}
	if doc.Tool.Bugbear == nil {
		return nil, nil
	}
	out := make(map[string]any, len(doc.Tool.Bugbear))
	for k, val := range doc.Tool.Bugbear {
		out[strings.ReplaceAll(k, "-", "_")] = val
	}
	return out, nil
}

var prefixPattern = regexp.MustCompile(`^[A-Z]+[0-9]*$`)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	for field, prefixes := range map[string][]string{
		"select":        c.Select,
		"extend_select": c.ExtendSelect,
		"ignore":        c.Ignore,
	} {
		for _, p := range prefixes {
			if !prefixPattern.MatchString(strings.TrimSpace(p)) {
				return &ConfigError{Field: field, Message: fmt.Sprintf("invalid code prefix %q", p)}
			}
		}
	}
	if c.Jobs < 0 {
		return &ConfigError{Field: "jobs", Message: "must not be negative"}
	}
	if !slices.Contains(Formats, c.Format) {
		return &ConfigError{Field: "format", Message: fmt.Sprintf("unknown format %q (want one of %s)", c.Format, strings.Join(Formats, ", "))}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error", "silent", "off":
	default:
		return &ConfigError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}
	return nil
}

// Selection returns the code selection configured for a run.
func (c *Config) Selection() catalog.Selection {
	return catalog.Selection{
		Select:       c.Select,
		ExtendSelect: c.ExtendSelect,
		Ignore:       c.Ignore,
	}
}

// EngineSettings returns the analysis settings handed to the engine.
func (c *Config) EngineSettings() engine.Settings {
	return engine.Settings{
		ExtendImmutableCalls:  c.ExtendImmutableCalls,
		ClassmethodDecorators: c.ClassmethodDecorators,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
