package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/gyeh/kaltime"
	"github.com/gyeh/kaltime/format"
	"github.com/gyeh/kaltime/internal/logging"
)

// Config holds all runtime configuration for a ktparse run.
type Config struct {
	ConfigPath string
	LogFormat  string // "text" or "json"
	LogLevel   string
	NaiveZone  string // "utc", "reject" or "+HH:MM"; empty means utc
	Reference  string // fully specified timestamp; empty means now
	FilePath   string // batch input
	Column     string // batch Parquet column
	Partial    bool   // append partial formats such as "%H:%M" after Formats

	Formats []FormatSpec
}

// FormatSpec is one registry entry as written in the config file.
type FormatSpec struct {
	ID      string `yaml:"id"`
	Pattern string `yaml:"pattern"`
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	NaiveZone string       `yaml:"naive_zone"`
	Partial   *bool        `yaml:"partial"`
	LogLevel  string       `yaml:"log_level"`
	Formats   []FormatSpec `yaml:"formats"`
}

// Default returns the configuration used when no file or flags say otherwise.
// NaiveZone and LogLevel stay empty so a config file can still set them.
func Default() Config {
	return Config{
		LogFormat: "text",
		Column:    "timestamp",
		Partial:   true,
	}
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Values already set from flags are kept. Patterns are compiled here;
// shadowed formats are left for Validate so they can still be listed.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if c.NaiveZone == "" && yc.NaiveZone != "" {
		c.NaiveZone = yc.NaiveZone
	}
	if c.LogLevel == "" && yc.LogLevel != "" {
		c.LogLevel = yc.LogLevel
	}
	if yc.Partial != nil {
		c.Partial = *yc.Partial
	}
	c.Formats = yc.Formats
	c.ConfigPath = path

	if _, err := c.Compile(); err != nil {
		return err
	}
	return nil
}

// Zone returns the naive zone policy.
func (c *Config) Zone() (kaltime.NaiveZone, error) {
	return kaltime.ParseNaiveZone(c.NaiveZone)
}

// Registry compiles the configured formats like Compile, and also rejects
// formats that can never win because an earlier one accepts the same inputs.
func (c *Config) Registry() (*format.Registry, error) {
	reg, err := c.Compile()
	if err != nil {
		return nil, err
	}
	if shadows := reg.Shadowed(); len(shadows) > 0 {
		msgs := make([]string, len(shadows))
		for i, s := range shadows {
			msgs[i] = s.String()
		}
		return nil, fmt.Errorf("formats: %s", strings.Join(msgs, "; "))
	}
	return reg, nil
}

// Compile builds the configured registry without the shadowing check.
// Without a formats section the built-in registry is used.
func (c *Config) Compile() (*format.Registry, error) {
	if len(c.Formats) == 0 {
		if c.Partial {
			return format.WithPartial(), nil
		}
		return format.Default(), nil
	}

	formats := make([]format.TimestampFormat, 0, len(c.Formats))
	for i, entry := range c.Formats {
		f, err := format.New(entry.ID, entry.Pattern)
		if err != nil {
			return nil, fmt.Errorf("formats[%d]: %w", i, err)
		}
		formats = append(formats, f)
	}
	if c.Partial {
		formats = append(formats, format.Partial()...)
	}

	reg, err := format.NewRegistry(formats...)
	if err != nil {
		return nil, fmt.Errorf("formats: %w", err)
	}
	return reg, nil
}

// Resolver builds a resolver from the configuration, tracing attempts to log.
func (c *Config) Resolver(log zerolog.Logger) (*kaltime.Resolver, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	zone, err := c.Zone()
	if err != nil {
		return nil, err
	}
	return kaltime.NewResolver(
		kaltime.WithRegistry(reg),
		kaltime.WithNaiveZone(zone),
		kaltime.WithLogger(log),
	), nil
}

// Validate checks the logging options, the zone policy and the registry.
func (c *Config) Validate() error {
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("--log-format must be text or json, got %q", c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := c.Zone(); err != nil {
		return err
	}
	if _, err := c.Registry(); err != nil {
		return err
	}
	return nil
}

// ValidateFile checks that the batch input file is set and readable.
func (c *Config) ValidateFile() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	return nil
}
