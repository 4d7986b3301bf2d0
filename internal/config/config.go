// Package config loads settings for the slidedom command.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config aggregates command settings sourced from an optional file and the
// environment.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Autofit AutofitConfig `mapstructure:"autofit"`
	Fonts   FontConfig    `mapstructure:"fonts"`
	Media   MediaConfig   `mapstructure:"media"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AutofitConfig tunes the shrink search.
type AutofitConfig struct {
	ShrinkStep float64 `mapstructure:"shrink_step"`
	MinScale   float64 `mapstructure:"min_scale"`
}

// FontConfig lists extra directories scanned for fonts. When empty the
// estimating measurer is used.
type FontConfig struct {
	Dirs []string `mapstructure:"dirs"`
}

// MediaConfig selects the media content hash.
type MediaConfig struct {
	Hash string `mapstructure:"hash"`
}

// Load reads slidedom.yaml from the given directories when present, then
// applies SLIDEDOM_* environment overrides such as SLIDEDOM_LOG_LEVEL.
func Load(dirs ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("slidedom")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix("slidedom")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(dirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("autofit.shrink_step", 0.075)
	v.SetDefault("autofit.min_scale", 0.25)
	v.SetDefault("fonts.dirs", []string{})
	v.SetDefault("media.hash", "sha512")
}

func validate(cfg Config) error {
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}
	if cfg.Autofit.ShrinkStep <= 0 || cfg.Autofit.ShrinkStep >= 1 {
		return errors.New("autofit shrink step must be between 0 and 1")
	}
	if cfg.Autofit.MinScale <= 0 || cfg.Autofit.MinScale > 1 {
		return errors.New("autofit min scale must be in (0, 1]")
	}
	switch cfg.Media.Hash {
	case "sha512", "blake2b":
	default:
		return fmt.Errorf("unknown media hash %q", cfg.Media.Hash)
	}
	return nil
}
