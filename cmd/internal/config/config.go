package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// Database is the SQLite DSN, usually a file path.
	Database string `yaml:"database"`

	// TablePrefix is prepended to every table name ("sfw2" -> "sfw2_game_encounters").
	TablePrefix string `yaml:"table_prefix"`

	// Timezone is the IANA zone stored dates and times are interpreted in.
	Timezone string `yaml:"timezone"`

	// JWTSecret verifies the HS256 bearer tokens of callers.
	JWTSecret string `yaml:"jwt_secret"`

	// SweepCron schedules the background removal of elapsed appointments.
	// Empty disables it; requests still sweep their own kind.
	SweepCron string `yaml:"sweep_cron"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// GameSubTitle is shown under the game encounter title.
	GameSubTitle string `yaml:"game_subtitle"`
}

func DefaultConfig() *Config {
	return &Config{
		Listen:      ":6060",
		Database:    "./database.db",
		TablePrefix: "sfw2",
		Timezone:    "Europe/Berlin",
		SweepCron:   "@hourly",
		LogLevel:    "info",
	}
}

// Normalize fills in missing values with defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Database == "" {
		c.Database = def.Database
	}
	if c.TablePrefix == "" {
		c.TablePrefix = def.TablePrefix
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		c.LogLevel = def.LogLevel
	}
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is not set")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GommonLevel maps the configured level to gommon's.
func (c *Config) GommonLevel() log.Lvl {
	switch c.LogLevel {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	}
	return log.INFO
}

var envOverrides = map[string]func(c *Config, v string){
	"APPT_LISTEN":        func(c *Config, v string) { c.Listen = v },
	"APPT_DATABASE":      func(c *Config, v string) { c.Database = v },
	"APPT_TABLE_PREFIX":  func(c *Config, v string) { c.TablePrefix = v },
	"APPT_TIMEZONE":      func(c *Config, v string) { c.Timezone = v },
	"APPT_JWT_SECRET":    func(c *Config, v string) { c.JWTSecret = v },
	"APPT_SWEEP_CRON":    func(c *Config, v string) { c.SweepCron = v },
	"APPT_LOG_LEVEL":     func(c *Config, v string) { c.LogLevel = v },
	"APPT_GAME_SUBTITLE": func(c *Config, v string) { c.GameSubTitle = v },
}

// Load reads the YAML file at path (a missing file means defaults), loads a
// .env file from the working directory when present and applies APPT_*
// environment variables on top.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Infof("config file %s not found, using defaults", path)
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	for key, apply := range envOverrides {
		if v, ok := os.LookupEnv(key); ok {
			apply(cfg, v)
		}
	}

	cfg.Normalize()
	return cfg, nil
}
