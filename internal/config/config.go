// Package config loads the dashboard configuration: embedded defaults merged
// with an optional user YAML file and environment overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrUnknownPreset is returned for a particle preset name that does not exist.
var ErrUnknownPreset = errors.New("config: unknown particle preset")

// Config holds every tunable of the dashboard.
type Config struct {
	Seed    int64         `yaml:"seed"` // 0 = time-based
	Window  WindowConfig  `yaml:"window"`
	Fixture FixtureConfig `yaml:"fixture"`
	Pages   PagesConfig   `yaml:"pages"`
	Upload  UploadConfig  `yaml:"upload"`
	Chat    ChatConfig    `yaml:"chat"`
	Fields  FieldsConfig  `yaml:"fields"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	TPS    int    `yaml:"tps"`
}

// FixtureConfig selects the analysis document. An empty path uses the embedded fixture.
type FixtureConfig struct {
	Path     string        `yaml:"path"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// PagesConfig holds pagination for the card grids.
type PagesConfig struct {
	PerPage int `yaml:"per_page"`
}

// UploadConfig drives the simulated processing run.
type UploadConfig struct {
	Duration time.Duration `yaml:"duration"`
	Tick     time.Duration `yaml:"tick"`
	Chime    bool          `yaml:"chime"`
	Notify   bool          `yaml:"notify"`
}

// ChatConfig holds the generative-language client settings.
type ChatConfig struct {
	Model      string        `yaml:"model"`
	APIKey     string        `yaml:"api_key"`
	APIKeyEnv  string        `yaml:"api_key_env"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxHistory int           `yaml:"max_history"`
}

// FieldsConfig holds one particle preset per hosting context.
type FieldsConfig struct {
	Background FieldConfig `yaml:"background"`
	Crystal    FieldConfig `yaml:"crystal"`
	Modal      FieldConfig `yaml:"modal"`
	Processing FieldConfig `yaml:"processing"`
}

// Presets lists the preset names in a stable order.
var Presets = []string{"background", "crystal", "modal", "processing"}

// Load reads the embedded defaults and, if path is non-empty, merges the
// file at path over them. Only fields present in the file are overwritten.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded defaults. It panics if they are malformed.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if c.Chat.APIKey == "" && c.Chat.APIKeyEnv != "" {
		c.Chat.APIKey = os.Getenv(c.Chat.APIKeyEnv)
	}
	if p := os.Getenv("EDNA_FIXTURE"); p != "" && c.Fixture.Path == "" {
		c.Fixture.Path = p
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Pages.PerPage <= 0:
		return fmt.Errorf("config: pages.per_page %d must be positive", c.Pages.PerPage)
	case c.Upload.Tick <= 0:
		return fmt.Errorf("config: upload.tick %v must be positive", c.Upload.Tick)
	case c.Upload.Duration < c.Upload.Tick:
		return fmt.Errorf("config: upload.duration %v shorter than tick %v", c.Upload.Duration, c.Upload.Tick)
	case c.Chat.MaxHistory < 0:
		return fmt.Errorf("config: chat.max_history %d < 0", c.Chat.MaxHistory)
	}
	for _, name := range Presets {
		if _, err := c.Field(name); err != nil {
			return err
		}
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.MarshalYAMLBytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// MarshalYAMLBytes renders the effective configuration. The API key is redacted.
func (c *Config) MarshalYAMLBytes() ([]byte, error) {
	out := *c
	if out.Chat.APIKey != "" {
		out.Chat.APIKey = "<redacted>"
	}
	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}
