package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/slipstream/nameparser/internal/nameparser"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Parser   ParserConfig   `mapstructure:"parser"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Watch    WatchConfig    `mapstructure:"watch"`
}

// DatabaseConfig holds show database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ParserConfig holds name parser configuration.
type ParserConfig struct {
	CacheSize    int           `mapstructure:"cache_size"`
	Pacing       time.Duration `mapstructure:"pacing"`
	PatternsFile string        `mapstructure:"patterns_file"`
	TryIndexers  bool          `mapstructure:"try_indexers"`
	ConvertScene bool          `mapstructure:"convert_scene"`
	MatchTimeout time.Duration `mapstructure:"match_timeout"`
}

// ScanConfig holds library scan configuration.
type ScanConfig struct {
	SkipSamples bool `mapstructure:"skip_samples"`
}

// WatchConfig holds watch mode configuration.
type WatchConfig struct {
	Debounce   time.Duration `mapstructure:"debounce"`
	RescanCron string        `mapstructure:"rescan_cron"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "./data/shows.db",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Parser: ParserConfig{
			CacheSize:    nameparser.DefaultCacheSize,
			Pacing:       nameparser.DefaultPacing,
			MatchTimeout: time.Second,
		},
		Scan: ScanConfig{
			SkipSamples: true,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults.
// A .env file in the working directory is loaded into the environment first;
// variables already set are not overridden.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.nameparser")
	}

	v.SetEnvPrefix("NAMEPARSER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("database.path", d.Database.Path)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", d.Logging.Path)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", d.Logging.Compress)

	v.SetDefault("parser.cache_size", d.Parser.CacheSize)
	v.SetDefault("parser.pacing", d.Parser.Pacing)
	v.SetDefault("parser.patterns_file", d.Parser.PatternsFile)
	v.SetDefault("parser.try_indexers", d.Parser.TryIndexers)
	v.SetDefault("parser.convert_scene", d.Parser.ConvertScene)
	v.SetDefault("parser.match_timeout", d.Parser.MatchTimeout)

	v.SetDefault("scan.skip_samples", d.Scan.SkipSamples)

	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("watch.rescan_cron", d.Watch.RescanCron)
}
