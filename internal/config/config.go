// Package config handles loading and saving user configuration for textlens.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/f3rmion/textlens/internal/api"
	"github.com/f3rmion/textlens/internal/series"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. TEXTLENS_API_URL.
const EnvPrefix = "TEXTLENS"

// Config holds all user configuration for textlens.
type Config struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// APIConfig points at the analysis service.
type APIConfig struct {
	URL             string `mapstructure:"url" yaml:"url"`                             // Base address, e.g. http://localhost:8000
	SubmitPerMinute int    `mapstructure:"submit_per_minute" yaml:"submit_per_minute"` // Local throttle for /analyze, 0 = off
}

// UIConfig holds display settings.
type UIConfig struct {
	EmotionLines string `mapstructure:"emotion_lines" yaml:"emotion_lines"` // "first" or "union"
	ChartHeight  int    `mapstructure:"chart_height" yaml:"chart_height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
	File  string `mapstructure:"file" yaml:"file"`   // Log file used while the TUI owns the terminal
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			URL:             api.DefaultBaseURL,
			SubmitPerMinute: 20,
		},
		UI: UIConfig{
			EmotionLines: string(series.LinesFirst),
			ChartHeight:  10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("api.url", d.API.URL)
	v.SetDefault("api.submit_per_minute", d.API.SubmitPerMinute)
	v.SetDefault("ui.emotion_lines", d.UI.EmotionLines)
	v.SetDefault("ui.chart_height", d.UI.ChartHeight)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing priority. With cfgFile empty the file is looked
// up in the config directory and may be absent.
func Load(cfgFile string) (*Config, error) {
	// .env is optional, the way the web build picks up VITE_API_URL
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := GetConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	_ = v.BindEnv("api.url", EnvPrefix+"_API_URL", "VITE_API_URL")
	_ = v.BindEnv("api.submit_per_minute", EnvPrefix+"_API_SUBMIT_PER_MINUTE")
	_ = v.BindEnv("ui.emotion_lines", EnvPrefix+"_UI_EMOTION_LINES")
	_ = v.BindEnv("ui.chart_height", EnvPrefix+"_UI_CHART_HEIGHT")
	_ = v.BindEnv("logging.level", EnvPrefix+"_LOGGING_LEVEL")
	_ = v.BindEnv("logging.file", EnvPrefix+"_LOGGING_FILE")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.url must be an http(s) address, got %q", c.API.URL)
	}
	if c.API.SubmitPerMinute < 0 {
		return fmt.Errorf("api.submit_per_minute must not be negative")
	}
	if _, err := series.ParseLineMode(c.UI.EmotionLines); err != nil {
		return fmt.Errorf("ui.emotion_lines: %w", err)
	}
	if c.UI.ChartHeight < 0 {
		return fmt.Errorf("ui.chart_height must not be negative")
	}
	return nil
}

// Save writes the configuration as YAML.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "textlens"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "textlens"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
