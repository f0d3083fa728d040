// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the application configuration assembled from defaults, the
// optional YAML config file, environment variables and CLI flags.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`

	// ConfPath is the location of the opendns.conf credential/state file.
	ConfPath string `mapstructure:"conf_path" yaml:"conf_path"`
}

// LoggerConfig holds settings for the zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"` // megabytes, per rotated file
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

// BrowserConfig holds settings for the Chrome session and the dashboard
// automation timeouts.
type BrowserConfig struct {
	Headless bool   `mapstructure:"headless" yaml:"headless"`
	Binary   string `mapstructure:"binary" yaml:"binary"`

	// Debug enables diagnostic screenshot and page-source capture on failures.
	Debug bool `mapstructure:"debug" yaml:"debug"`

	// ArtifactsDir is where screenshots, page dumps and per-run audit files go.
	ArtifactsDir string `mapstructure:"artifacts_dir" yaml:"artifacts_dir"`

	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	FindTimeout       time.Duration `mapstructure:"find_timeout" yaml:"find_timeout"`
	ConfirmTimeout    time.Duration `mapstructure:"confirm_timeout" yaml:"confirm_timeout"`
}

// SetDefaults registers the default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.service_name", "opendnsctl")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.artifacts_dir", "screenshots")
	v.SetDefault("browser.navigation_timeout", 60*time.Second)
	v.SetDefault("browser.find_timeout", 10*time.Second)
	v.SetDefault("browser.confirm_timeout", 20*time.Second)

	v.SetDefault("conf_path", defaultConfPath())
}

// defaultConfPath prefers an opendns.conf in the working directory, falling
// back to ~/.opendns.conf.
func defaultConfPath() string {
	if env := os.Getenv("OPENDNS_CONFIG"); env != "" {
		return env
	}
	if _, err := os.Stat("opendns.conf"); err == nil {
		return "opendns.conf"
	}
	home, err := homedir.Dir()
	if err != nil {
		return "opendns.conf"
	}
	return filepath.Join(home, ".opendns.conf")
}

// Load unmarshals the viper state into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the rest of the program cannot work with.
func (c *Config) Validate() error {
	switch c.Logger.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("unsupported logger format %q", c.Logger.Format)
	}
	if c.Browser.FindTimeout <= 0 {
		return fmt.Errorf("browser.find_timeout must be positive, got %s", c.Browser.FindTimeout)
	}
	if c.Browser.ConfirmTimeout <= 0 {
		return fmt.Errorf("browser.confirm_timeout must be positive, got %s", c.Browser.ConfirmTimeout)
	}
	return nil
}
