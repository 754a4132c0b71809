package bot

import (
	"os"
	"path/filepath"
	"time"

	"jordanella.com/blum-go/internal/blum"
)

// Config holds application-wide settings. Per-account settings live in
// accounts.AccountConfig.
type Config struct {
	// Remote API
	BaseURL        string
	RequestTimeout time.Duration

	// Accounts folder, one file per account
	AccountsDir string

	// Logging
	LogLevel string // "DEBUG", "INFO", "WARN", "ERROR"
	LogFile  string // Extra log destination; empty logs to stdout only

	// Optional SQLite run journal; empty disables it
	JournalPath string

	// Cron spec for repeated passes, e.g. "@every 8h"; empty runs once
	Schedule string
}

// ExecutableDir returns the directory holding the running binary,
// falling back to the working directory.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// ApplyDefaults fills in zero values
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = blum.DefaultBaseURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = blum.DefaultTimeout
	}
	if c.AccountsDir == "" {
		c.AccountsDir = filepath.Join(ExecutableDir(), "accounts")
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
}
