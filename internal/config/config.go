// Package config loads praisebot configuration from files, environment
// and flags.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/masoncj/praisebot/internal/raster"
)

// EnvPrefix prefixes environment overrides, e.g. PRAISEBOT_RASTER_COMMAND.
const EnvPrefix = "PRAISEBOT"

// Config is the root configuration.
type Config struct {
	Templates TemplatesConfig `mapstructure:"templates" yaml:"templates"`
	Directory DirectoryConfig `mapstructure:"directory" yaml:"directory"`
	Raster    RasterConfig    `mapstructure:"raster" yaml:"raster"`
	Render    RenderConfig    `mapstructure:"render" yaml:"render"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// TemplatesConfig controls where templates are found.
type TemplatesConfig struct {
	// Paths are searched before the standard locations.
	Paths []string `mapstructure:"paths" yaml:"paths"`

	// Builtin enables the bundled templates as a last resort.
	Builtin bool `mapstructure:"builtin" yaml:"builtin"`

	// Watch clears the template cache when template files change.
	Watch bool `mapstructure:"watch" yaml:"watch"`
}

// DirectoryConfig points at the identity directory used for wrapped
// references.
type DirectoryConfig struct {
	Path      string `mapstructure:"path" yaml:"path"`
	CacheSize int    `mapstructure:"cache_size" yaml:"cache_size"`
}

// RasterConfig selects the SVG converter binary.
type RasterConfig struct {
	Command string `mapstructure:"command" yaml:"command"`
}

// RenderConfig tunes rendering.
type RenderConfig struct {
	// Defaults seed every praise's variables.
	Defaults map[string]string `mapstructure:"defaults" yaml:"defaults"`

	// Concurrency bounds parallel renders in batch mode.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// LoggingConfig configures zerolog.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Templates: TemplatesConfig{
			Builtin: true,
		},
		Directory: DirectoryConfig{
			CacheSize: 256,
		},
		Raster: RasterConfig{
			Command: raster.DefaultCommand,
		},
		Render: RenderConfig{
			Defaults:    map[string]string{},
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// SetDefaults registers DefaultConfig values on v so that environment
// variables and partial files layer over them.
func SetDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("templates.builtin", def.Templates.Builtin)
	v.SetDefault("templates.watch", def.Templates.Watch)
	v.SetDefault("directory.path", def.Directory.Path)
	v.SetDefault("directory.cache_size", def.Directory.CacheSize)
	v.SetDefault("raster.command", def.Raster.Command)
	v.SetDefault("render.defaults", def.Render.Defaults)
	v.SetDefault("render.concurrency", def.Render.Concurrency)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Render.Defaults == nil {
		cfg.Render.Defaults = map[string]string{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	var problems []string

	if c.Directory.CacheSize <= 0 {
		problems = append(problems, "directory.cache_size must be positive")
	}
	if c.Render.Concurrency <= 0 {
		problems = append(problems, "render.concurrency must be positive")
	}
	if strings.TrimSpace(c.Raster.Command) == "" {
		problems = append(problems, "raster.command is required")
	}
	for _, dir := range c.Templates.Paths {
		if strings.TrimSpace(dir) == "" {
			problems = append(problems, "templates.paths must not contain empty entries")
			break
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q must be console or json", c.Logging.Format))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ValidationError lists every invalid setting found.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}
