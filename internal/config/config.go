// Package config loads navsplit settings from defaults, an optional YAML
// file and NAVSPLIT_ environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/navsplit/internal/feature/app"
)

// EnvPrefix prefixes every environment override, e.g. NAVSPLIT_DATABASE_PATH.
const EnvPrefix = "NAVSPLIT"

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
}

// DatabaseConfig holds sqlite settings. An empty path runs without
// persistence.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// SeedConfig selects the seed catalog. An empty path uses the embedded one.
type SeedConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Tag string `mapstructure:"tag"`
}

// DefaultPath returns the config file used when neither an explicit path
// nor NAVSPLIT_CONFIG is given.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "navsplit", "config.yaml")
}

// Load reads configuration. path, when non-empty, names a config file that
// must exist; otherwise NAVSPLIT_CONFIG or DefaultPath is read if present.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", "")
	v.SetDefault("seed.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.tag", string(app.TagPlayers))

	v.SetConfigType("yaml")

	required := path != ""
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
		required = path != ""
	}
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if required || !missing {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values viper cannot type-check.
func (c Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if !app.Tag(c.UI.Tag).Valid() {
		return fmt.Errorf("ui.tag: unknown tag %q", c.UI.Tag)
	}
	return nil
}

// LogLevel returns the configured slog level, defaulting to info.
func (c Config) LogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
