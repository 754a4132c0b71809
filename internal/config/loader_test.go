package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"jordanella.com/blum-go/internal/blum"
	"jordanella.com/blum-go/internal/bot"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), SettingsFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	config, err := LoadFromINI(filepath.Join(t.TempDir(), "missing.ini"))
	if err != nil {
		t.Fatalf("Expected defaults, got error: %v", err)
	}

	if config.BaseURL != blum.DefaultBaseURL {
		t.Errorf("Expected base URL %s, got %s", blum.DefaultBaseURL, config.BaseURL)
	}
	if config.RequestTimeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %s", config.RequestTimeout)
	}
	if config.AccountsDir == "" {
		t.Error("Expected default accounts dir")
	}
	if config.LogLevel != "INFO" {
		t.Errorf("Expected INFO, got %s", config.LogLevel)
	}
}

func TestLoadFromINI(t *testing.T) {
	path := writeSettings(t, `
[Settings]
baseURL = http://localhost:8080/
requestTimeoutSeconds = 5
accountsDir = accs
logLevel = DEBUG
logFile = /var/log/blum.log
journalPath = journal.db
schedule = @every 8h
`)
	dir := filepath.Dir(path)

	config, err := LoadFromINI(path)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	if config.BaseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", config.BaseURL)
	}
	if config.RequestTimeout != 5*time.Second {
		t.Errorf("Expected 5s, got %s", config.RequestTimeout)
	}
	if config.AccountsDir != filepath.Join(dir, "accs") {
		t.Errorf("Expected accounts dir relative to settings, got %s", config.AccountsDir)
	}
	if config.LogFile != "/var/log/blum.log" {
		t.Errorf("Expected absolute log file kept, got %s", config.LogFile)
	}
	if config.JournalPath != filepath.Join(dir, "journal.db") {
		t.Errorf("Unexpected journal path %s", config.JournalPath)
	}
	if config.LogLevel != "DEBUG" || config.Schedule != "@every 8h" {
		t.Errorf("Unexpected config %+v", config)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero timeout", "[Settings]\nrequestTimeoutSeconds = 0\n"},
		{"bad schedule", "[Settings]\nschedule = whenever\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFromINI(writeSettings(t, tt.content)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", SettingsFileName)

	original := &bot.Config{
		BaseURL:        "http://example.test",
		RequestTimeout: 12 * time.Second,
		AccountsDir:    filepath.Join(dir, "accounts"),
		LogLevel:       "WARN",
		JournalPath:    filepath.Join(dir, "runs.db"),
		Schedule:       "0 */6 * * *",
	}
	if err := SaveToINI(original, path); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	loaded, err := LoadFromINI(path)
	if err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}
	if *loaded != *original {
		t.Errorf("Expected %+v, got %+v", original, loaded)
	}
}
