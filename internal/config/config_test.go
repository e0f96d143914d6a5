package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".ambassador", "ambassador.db"); cfg.DatabasePath != want {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, want)
	}
	if cfg.EngagementCapacity != 25 {
		t.Errorf("EngagementCapacity = %d, want 25", cfg.EngagementCapacity)
	}
	if cfg.Delimiter() != ';' {
		t.Errorf("Delimiter = %q, want ';'", cfg.Delimiter())
	}
	if cfg.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.PageSize)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "console" {
		t.Errorf("logging = %s/%s, want info/console", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.DatabasePath = filepath.Join(dir, "ledger.db")
	cfg.EngagementCapacity = 30
	cfg.CSVDelimiter = ","
	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(Path(dir)); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.DatabasePath != cfg.DatabasePath {
		t.Errorf("DatabasePath = %q, want %q", loaded.DatabasePath, cfg.DatabasePath)
	}
	if loaded.EngagementCapacity != 30 {
		t.Errorf("EngagementCapacity = %d, want 30", loaded.EngagementCapacity)
	}
	if loaded.Delimiter() != ',' {
		t.Errorf("Delimiter = %q, want ','", loaded.Delimiter())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.EngagementCapacity = 30
	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("AMBASSADOR_ENGAGEMENT_CAPACITY", "20")
	t.Setenv("AMBASSADOR_LOG_FORMAT", "json")

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.EngagementCapacity != 20 {
		t.Errorf("EngagementCapacity = %d, want 20", loaded.EngagementCapacity)
	}
	if loaded.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", loaded.LogFormat)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AMBASSADOR_PAGE_SIZE", "")
	os.Unsetenv("AMBASSADOR_PAGE_SIZE")
	t.Cleanup(func() { os.Unsetenv("AMBASSADOR_PAGE_SIZE") })

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("AMBASSADOR_PAGE_SIZE=50\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", loaded.PageSize)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AMBASSADOR_ENGAGEMENT_CAPACITY", "0")

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for zero capacity")
	}
	if !strings.Contains(err.Error(), "engagement_capacity") {
		t.Errorf("error = %v, want mention of engagement_capacity", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"negative capacity", func(c *Config) { c.EngagementCapacity = -1 }, "engagement_capacity"},
		{"long delimiter", func(c *Config) { c.CSVDelimiter = ";;" }, "csv_delimiter"},
		{"quote delimiter", func(c *Config) { c.CSVDelimiter = `"` }, "csv_delimiter"},
		{"page too large", func(c *Config) { c.PageSize = 500 }, "page_size"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"empty db path", func(c *Config) { c.DatabasePath = "" }, "database_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
