package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all client configuration
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Keystore KeystoreConfig `mapstructure:"keystore"`
	Polling  PollingConfig  `mapstructure:"polling"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// KeystoreConfig selects the credential store backend: "keyring" for
// the OS keychain, "file" for the encrypted file store, "memory" for
// ephemeral sessions.
type KeystoreConfig struct {
	Backend    string `mapstructure:"backend"`
	FilePath   string `mapstructure:"file_path"`
	Passphrase string `mapstructure:"passphrase"`
}

type PollingConfig struct {
	LiveInterval time.Duration `mapstructure:"live_interval"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// API
	v.SetDefault("api.base_url", "https://lux.ashadegreener.co.uk/api/v1/mobile")
	v.SetDefault("api.timeout", "30s")

	// Keystore
	v.SetDefault("keystore.backend", "keyring")
	v.SetDefault("keystore.file_path", "./lux_credentials.enc")

	// Polling
	v.SetDefault("polling.live_interval", "30s")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("api.base_url", "LUX_API_BASE_URL")
	v.BindEnv("keystore.backend", "LUX_KEYSTORE_BACKEND")
	v.BindEnv("keystore.passphrase", "LUX_KEYSTORE_PASSPHRASE")
	v.BindEnv("logging.level", "LUX_LOG_LEVEL")
}
