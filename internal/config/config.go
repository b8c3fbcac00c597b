// Package config loads config.yaml from the workbench configuration
// directory, layered under WORKBENCH_* environment variables and an optional
// .env file in the same directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/workbench/internal/logging"
	"github.com/mesh-intelligence/workbench/internal/reminder"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envFileName    = ".env"
	envPrefix      = "WORKBENCH"
)

// Config keys.
const (
	KeyDataDir          = "data_dir"
	KeyLogLevel         = "log_level"
	KeyLogFormat        = "log_format"
	KeyReminderInterval = "reminder_interval"
	KeyExportDir        = "export_dir"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# workbench configuration
# Every key can be overridden with a WORKBENCH_<KEY> environment variable.

# Directory holding app_data.db (optional; --data-dir wins)
# data_dir:

# debug, info, warn or error
log_level: warn

# console or json
log_format: console

# How often the reminder scanner checks due tasks
reminder_interval: 10s

# Where "profile export" writes when no path is given (default: current directory)
# export_dir:
`

// Config is the resolved application configuration.
type Config struct {
	Dir              string
	DataDir          string
	LogLevel         string
	LogFormat        string
	ReminderInterval time.Duration
	ExportDir        string
}

// Load reads configDir/config.yaml, creating the directory and a default
// file on first run. A .env file next to it is loaded into the environment
// without overriding variables that are already set.
func Load(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}
	if err := loadEnvFile(configDir); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault(KeyDataDir, "")
	v.SetDefault(KeyLogLevel, logging.DefaultLevel)
	v.SetDefault(KeyLogFormat, logging.FormatConsole)
	v.SetDefault(KeyReminderInterval, reminder.DefaultInterval)
	v.SetDefault(KeyExportDir, "")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Dir:              configDir,
		DataDir:          v.GetString(KeyDataDir),
		LogLevel:         v.GetString(KeyLogLevel),
		LogFormat:        v.GetString(KeyLogFormat),
		ReminderInterval: v.GetDuration(KeyReminderInterval),
		ExportDir:        v.GetString(KeyExportDir),
	}
	if cfg.ReminderInterval <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %q", KeyReminderInterval, v.GetString(KeyReminderInterval))
	}
	return cfg, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func loadEnvFile(configDir string) error {
	path := filepath.Join(configDir, envFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
