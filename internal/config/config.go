package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	UI      UIConfig      `mapstructure:"ui"`
	Search  SearchConfig  `mapstructure:"search"`
	History HistoryConfig `mapstructure:"history"`
}

type ServerConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	BasePath   string `mapstructure:"base_path"`
	CSRFCookie string `mapstructure:"csrf_cookie"`
	Timeout    int    `mapstructure:"timeout"`
	ProjectID  int    `mapstructure:"project_id"`
}

type UIConfig struct {
	Theme           string `mapstructure:"theme"`
	MouseEnabled    bool   `mapstructure:"mouse_enabled"`
	PanelWidthRatio int    `mapstructure:"panel_width_ratio"`
	// FlashDuration and InlineFlashDuration are in seconds.
	FlashDuration       int `mapstructure:"flash_duration"`
	InlineFlashDuration int `mapstructure:"inline_flash_duration"`
}

type SearchConfig struct {
	// MinQueryLength is the number of characters before a type-ahead
	// search is issued.
	MinQueryLength int `mapstructure:"min_query_length"`
}

type HistoryConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxEntries int  `mapstructure:"max_entries"`
	Persist    bool `mapstructure:"persist"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:    "http://localhost:8000",
			BasePath:   "/ajax/",
			CSRFCookie: "csrftoken",
			Timeout:    30,
			ProjectID:  0,
		},
		UI: UIConfig{
			Theme:               "default",
			MouseEnabled:        true,
			PanelWidthRatio:     25,
			FlashDuration:       5,
			InlineFlashDuration: 2,
		},
		Search: SearchConfig{
			MinQueryLength: 2,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 1000,
			Persist:    true,
		},
	}
}

// Load loads configuration from files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config paths in priority order: user config dir, then cwd.
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "geoadmin"))
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("server.base_url", "http://localhost:8000")
	v.SetDefault("server.base_path", "/ajax/")
	v.SetDefault("server.csrf_cookie", "csrftoken")
	v.SetDefault("server.timeout", 30)
	v.SetDefault("server.project_id", 0)
	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.mouse_enabled", true)
	v.SetDefault("ui.panel_width_ratio", 25)
	v.SetDefault("ui.flash_duration", 5)
	v.SetDefault("ui.inline_flash_duration", 2)
	v.SetDefault("search.min_query_length", 2)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.max_entries", 1000)
	v.SetDefault("history.persist", true)

	// Missing config file is fine, the defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "geoadmin"), nil
}
