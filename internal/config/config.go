package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/loykin/proctop/internal/logger"
	"github.com/loykin/proctop/internal/process"
)

// EnvPrefix namespaces environment overrides, e.g. PROCTOP_MONITOR_INTERVAL.
const EnvPrefix = "PROCTOP"

// MaxCapacity bounds monitor.capacity.
const MaxCapacity = 4096

// Config represents the top-level TOML structure.
type Config struct {
	Monitor MonitorConfig `toml:"monitor" mapstructure:"monitor"`
	Log     LogConfig     `toml:"log" mapstructure:"log"`
	HTTP    HTTPConfig    `toml:"http" mapstructure:"http"`
	Metrics MetricsConfig `toml:"metrics" mapstructure:"metrics"`
}

type MonitorConfig struct {
	Interval  time.Duration `toml:"interval" mapstructure:"interval"`
	Capacity  int           `toml:"capacity" mapstructure:"capacity"`
	Source    string        `toml:"source" mapstructure:"source"`
	ProcRoot  string        `toml:"proc_root" mapstructure:"proc_root"`
	QuitOnEOF bool          `toml:"quit_on_eof" mapstructure:"quit_on_eof"`
	Color     bool          `toml:"color" mapstructure:"color"`
}

type LogConfig struct {
	Level      string `toml:"level" mapstructure:"level"`
	Format     string `toml:"format" mapstructure:"format"`
	Color      bool   `toml:"color" mapstructure:"color"`
	TimeStamps bool   `toml:"timestamps" mapstructure:"timestamps"`
	File       string `toml:"file" mapstructure:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `toml:"compress" mapstructure:"compress"`
}

// HTTPConfig enables the read-only status API when Listen is set.
type HTTPConfig struct {
	Listen   string `toml:"listen" mapstructure:"listen"`
	BasePath string `toml:"base_path" mapstructure:"base_path"`
}

type MetricsConfig struct {
	Enabled bool `toml:"enabled" mapstructure:"enabled"`
}

var defaults = map[string]any{
	"monitor.interval":    "1s",
	"monitor.capacity":    process.DefaultCapacity,
	"monitor.source":      process.SourceAuto,
	"monitor.proc_root":   "/proc",
	"monitor.quit_on_eof": false,
	"monitor.color":       true,
	"log.level":           string(logger.LevelWarn),
	"log.format":          string(logger.FormatText),
	"log.color":           true,
	"log.timestamps":      true,
	"log.file":            "",
	"log.max_size_mb":     logger.DefaultMaxSizeMB,
	"log.max_backups":     logger.DefaultMaxBackups,
	"log.max_age_days":    logger.DefaultMaxAgeDays,
	"log.compress":        false,
	"http.listen":         "",
	"http.base_path":      "/api",
	"metrics.enabled":     true,
}

// NewViper returns a viper instance with defaults and environment binding.
// Callers may bind command-line flags to it before Load.
func NewViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the configuration used when no file, env or flag is given.
func Default() Config {
	c, err := Load(nil, "")
	if err != nil {
		panic(err)
	}
	return *c
}

// Load reads the optional TOML file at path into v and decodes the merged
// result. Precedence is flags, then env, then file, then defaults.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	m := c.Monitor
	if m.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be positive, got %s", m.Interval)
	}
	if m.Capacity <= 0 || m.Capacity > MaxCapacity {
		return fmt.Errorf("monitor.capacity must be in 1..%d, got %d", MaxCapacity, m.Capacity)
	}
	switch m.Source {
	case process.SourceAuto, process.SourceProcFS, process.SourcePSUtil:
	default:
		return fmt.Errorf("unknown monitor.source %q", m.Source)
	}
	if _, err := logger.ParseLevel(logger.Level(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch logger.Format(c.Log.Format) {
	case logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}

// Logger converts the [log] section.
func (l LogConfig) Logger() logger.Config {
	return logger.Config{
		Slog: logger.SlogConfig{
			Level:      logger.Level(l.Level),
			Format:     logger.Format(l.Format),
			Color:      l.Color,
			TimeStamps: l.TimeStamps,
		},
		File: logger.FileConfig{
			Path:       l.File,
			MaxSizeMB:  l.MaxSizeMB,
			MaxBackups: l.MaxBackups,
			MaxAgeDays: l.MaxAgeDays,
			Compress:   l.Compress,
		},
	}
}
