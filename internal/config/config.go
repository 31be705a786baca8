package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// EnvPath overrides the config file location.
const EnvPath = "WASTAT_CONFIG"

type Config struct {
	ExportsDir   string `toml:"exports_dir"`
	Timezone     string `toml:"timezone"`
	TopN         int    `toml:"top_n"`
	HeatmapDays  int    `toml:"heatmap_days"`
	LengthBucket int    `toml:"length_bucket"`
	LogLevel     string `toml:"log_level"`

	// Path is the file the config was read from, empty when none existed.
	Path string `toml:"-"`
}

func Default(home string) *Config {
	return &Config{
		ExportsDir:   filepath.Join(home, "WhatsApp"),
		Timezone:     "Local",
		TopN:         10,
		HeatmapDays:  30,
		LengthBucket: 50,
		LogLevel:     "info",
	}
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfgPath := os.Getenv(EnvPath)
	if cfgPath == "" {
		cfgPath = filepath.Join(home, ".config", "wastat", "config.toml")
	}
	return LoadFile(cfgPath, home)
}

// LoadFile reads the config at cfgPath on top of the defaults. A missing
// file is not an error.
func LoadFile(cfgPath, home string) (*Config, error) {
	cfg := Default(home)

	cfgPath = expandHome(cfgPath, home)
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
		cfg.Path = cfgPath
	}

	// expand ~ in paths
	cfg.ExportsDir = expandHome(cfg.ExportsDir, home)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgPath, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.TopN <= 0 {
		errs = append(errs, fmt.Errorf("top_n must be positive, got %d", c.TopN))
	}
	if c.HeatmapDays <= 0 {
		errs = append(errs, fmt.Errorf("heatmap_days must be positive, got %d", c.HeatmapDays))
	}
	if c.LengthBucket <= 0 {
		errs = append(errs, fmt.Errorf("length_bucket must be positive, got %d", c.LengthBucket))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

// Location is the zone naive export timestamps are read in.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
