// Package config loads the optional lito.yaml tool configuration.
//
// This is the configuration of the tool itself (paths, toolchain, logging,
// dev-mode timings), not the docs-config.json site configuration that the
// pipeline synthesizes.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "lito.yaml"

// Defaults.
const (
	DefaultTemplate      = "default"
	DefaultRendering     = "static"
	DefaultEventsSubject = "lito.pipeline"
	DefaultDevPort       = 4321
	DefaultDebounce      = 300 * time.Millisecond
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// Config is the tool configuration.
type Config struct {
	WorkspaceDir string       `yaml:"workspace_dir"` // parent of the .lito workspace
	CacheDir     string       `yaml:"cache_dir"`
	Template     string       `yaml:"template"`
	Toolchain    string       `yaml:"toolchain"`
	Provider     string       `yaml:"provider"`
	Rendering    string       `yaml:"rendering"`
	MetricsFile  string       `yaml:"metrics_file"`
	Log          LogConfig    `yaml:"log"`
	Events       EventsConfig `yaml:"events"`
	Dev          DevConfig    `yaml:"dev"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// EventsConfig enables publishing pipeline events to NATS.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// DevConfig tunes dev mode.
type DevConfig struct {
	Port           int           `yaml:"port"`
	Debounce       time.Duration `yaml:"debounce"`
	ResyncInterval time.Duration `yaml:"resync_interval"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the tool configuration.
//
// An empty path reads DefaultFile if it exists and falls back to defaults
// otherwise. An explicit path must exist. .env and .env.local are loaded
// first so ${VAR} references in the file can use them.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := loadEnvFiles(filepath.Dir(path)); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return Default(), nil
	default:
		return nil, ferrors.WrapError(err, ferrors.CategoryConfigParse, "read tool configuration").
			WithContext("path", path).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		var ce *ferrors.ClassifiedError
		if errors.As(err, &ce) {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML after environment expansion, applies defaults, and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfigParse, "malformed tool configuration").Build()
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	if c.Rendering == "" {
		c.Rendering = DefaultRendering
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Events.Subject == "" {
		c.Events.Subject = DefaultEventsSubject
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultDevPort
	}
	if c.Dev.Debounce == 0 {
		c.Dev.Debounce = DefaultDebounce
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("template=%s rendering=%s toolchain=%s provider=%s", c.Template, c.Rendering, c.Toolchain, c.Provider)
}
