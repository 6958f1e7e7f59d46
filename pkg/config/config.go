package config

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Chat   ChatConfig   `mapstructure:"chat"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type ChatConfig struct {
	UserID int64 `mapstructure:"user_id"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.base_url", "http://127.0.0.1:8000")
	v.SetDefault("server.timeout_seconds", 90)
	v.SetDefault("chat.user_id", 1)
	v.SetDefault("log.path", "bookdesk.log")
	v.SetDefault("log.level", "info")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file; a missing file just means defaults
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Environment overrides
	if baseURL := v.GetString("BOOKDESK_BASE_URL"); baseURL != "" {
		config.Server.BaseURL = baseURL
	}

	if userID := v.GetInt64("BOOKDESK_USER_ID"); userID != 0 {
		config.Chat.UserID = userID
	}

	if logPath := v.GetString("BOOKDESK_LOG_PATH"); logPath != "" {
		config.Log.Path = logPath
	}

	return &config, nil
}
