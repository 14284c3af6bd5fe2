// Package config loads debias settings from defaults, an optional YAML
// file, a .env file and DEBIAS_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone database for hosts without one

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/debiasdaily/debias/internal/store"
)

// Config holds all application settings.
type Config struct {
	// DBPath is the SQLite database file. Empty means store.DefaultDBPath.
	DBPath string `yaml:"db_path"`

	// Timezone names the IANA zone used to derive calendar days.
	// Empty means the system local zone.
	Timezone string `yaml:"timezone"`

	// LogLevel is one of debug, info, warn, error. Default: warn.
	LogLevel string `yaml:"log_level"`

	// LogMode selects the encoder: "dev" (console) or "prod" (JSON).
	LogMode string `yaml:"log_mode"`

	// LogFile receives log output. Empty means stderr.
	LogFile string `yaml:"log_file"`

	// QuizQuestions is the default number of questions per quiz.
	QuizQuestions int `yaml:"quiz_questions"`

	// ViewDebounce is the window in which repeated views of the same bias
	// are not counted again.
	ViewDebounce time.Duration `yaml:"view_debounce"`

	// UpcomingLimit caps the upcoming review list.
	UpcomingLimit int `yaml:"upcoming_limit"`

	// DailyCacheDays is how many days of daily picks are kept.
	DailyCacheDays int `yaml:"daily_cache_days"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel:       "warn",
		LogMode:        "dev",
		QuizQuestions:  5,
		ViewDebounce:   5 * time.Minute,
		UpcomingLimit:  10,
		DailyCacheDays: 30,
	}
}

// Load builds a Config. path names a YAML file; when empty, DEBIAS_CONFIG
// and then DefaultPath are tried, and a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	// A missing .env is fine.
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		if p := os.Getenv("DEBIAS_CONFIG"); p != "" {
			path, explicit = p, true
		} else if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		err := cfg.loadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case err != nil:
			return cfg, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// DefaultPath returns $XDG_CONFIG_HOME/debias/config.yaml, falling back to
// ~/.config/debias/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "debias", "config.yaml"), nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DEBIAS_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("DEBIAS_TZ"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("DEBIAS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("DEBIAS_LOG_MODE"); v != "" {
		c.LogMode = v
	}
	if v := os.Getenv("DEBIAS_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("DEBIAS_QUIZ_QUESTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DEBIAS_QUIZ_QUESTIONS: %w", err)
		}
		c.QuizQuestions = n
	}
	if v := os.Getenv("DEBIAS_VIEW_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DEBIAS_VIEW_DEBOUNCE: %w", err)
		}
		c.ViewDebounce = d
	}
	return nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogMode) {
	case "dev", "prod":
	default:
		return fmt.Errorf("unknown log mode: %q", c.LogMode)
	}
	if c.QuizQuestions < 1 || c.QuizQuestions > 50 {
		return fmt.Errorf("quiz_questions must be between 1 and 50, got %d", c.QuizQuestions)
	}
	if c.ViewDebounce < 0 {
		return fmt.Errorf("view_debounce must not be negative")
	}
	if c.UpcomingLimit < 1 {
		return fmt.Errorf("upcoming_limit must be positive, got %d", c.UpcomingLimit)
	}
	if c.DailyCacheDays < 1 {
		return fmt.Errorf("daily_cache_days must be positive, got %d", c.DailyCacheDays)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured time zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ResolveDBPath returns the database path, creating its directory.
func (c Config) ResolveDBPath() (string, error) {
	if c.DBPath == "" {
		return store.DefaultDBPath()
	}
	return c.DBPath, store.EnsureDir(c.DBPath)
}
