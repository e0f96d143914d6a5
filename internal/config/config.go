// Package config loads ambassador settings from defaults, an optional
// .ambassador/config.json, an optional .env file and AMBASSADOR_* variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/example/ambassador/internal/core/engagement"
	"github.com/example/ambassador/internal/core/paging"
)

// DirName is the per-workspace config directory.
const DirName = ".ambassador"

// FileName is the config file inside DirName.
const FileName = "config.json"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "AMBASSADOR"

// Config represents the flat ambassador configuration
type Config struct {
	DatabasePath       string `json:"database_path" mapstructure:"database_path"`
	EngagementCapacity int    `json:"engagement_capacity" mapstructure:"engagement_capacity"`
	CSVDelimiter       string `json:"csv_delimiter" mapstructure:"csv_delimiter"`
	PageSize           int    `json:"page_size" mapstructure:"page_size"`
	LogLevel           string `json:"log_level" mapstructure:"log_level"`
	LogFormat          string `json:"log_format" mapstructure:"log_format"`
	BackupDir          string `json:"backup_dir" mapstructure:"backup_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DatabasePath:       filepath.Join("~", DirName, "ambassador.db"),
		EngagementCapacity: engagement.DefaultCapacity,
		CSVDelimiter:       ";",
		PageSize:           paging.DefaultSize,
		LogLevel:           "info",
		LogFormat:          "console",
		BackupDir:          filepath.Join("~", DirName, "backups"),
	}
}

// Path returns the config file location for dir.
func Path(dir string) string {
	return filepath.Join(dir, DirName, FileName)
}

// Load resolves configuration for the workspace dir.
// Resolution order (later wins): defaults, dir/.ambassador/config.json,
// dir/.env, AMBASSADOR_* environment variables.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	def := Default()
	v.SetDefault("database_path", def.DatabasePath)
	v.SetDefault("engagement_capacity", def.EngagementCapacity)
	v.SetDefault("csv_delimiter", def.CSVDelimiter)
	v.SetDefault("page_size", def.PageSize)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("backup_dir", def.BackupDir)

	path := Path(dir)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// load .env if it exists (ignore if it does not); real env vars win
	dotEnvPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", dotEnvPath, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.DatabasePath = expandHome(cfg.DatabasePath)
	cfg.BackupDir = expandHome(cfg.BackupDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to dir/.ambassador/config.json.
func Save(dir string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	cfgDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", DirName, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string
	if c.DatabasePath == "" {
		problems = append(problems, "database_path must not be empty")
	}
	if c.EngagementCapacity <= 0 {
		problems = append(problems, fmt.Sprintf("engagement_capacity must be positive (got %d)", c.EngagementCapacity))
	}
	if utf8.RuneCountInString(c.CSVDelimiter) != 1 {
		problems = append(problems, fmt.Sprintf("csv_delimiter must be a single character (got %q)", c.CSVDelimiter))
	} else if r := c.Delimiter(); r == '"' || r == '\n' || r == '\r' {
		problems = append(problems, fmt.Sprintf("csv_delimiter %q is not allowed", c.CSVDelimiter))
	}
	if c.PageSize < 1 || c.PageSize > paging.MaxSize {
		problems = append(problems, fmt.Sprintf("page_size must be between 1 and %d (got %d)", paging.MaxSize, c.PageSize))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log_level must be debug, info, warn or error (got %q)", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log_format must be console or json (got %q)", c.LogFormat))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSVDelimiter)
	return r
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
