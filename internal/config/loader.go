package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/ini.v1"
	"jordanella.com/blum-go/internal/blum"
	"jordanella.com/blum-go/internal/bot"
)

// SettingsFileName is looked up next to the executable when no path is given
const SettingsFileName = "Settings.ini"

const sectionName = "Settings"

// DefaultSettingsPath returns Settings.ini beside the running binary
func DefaultSettingsPath() string {
	return filepath.Join(bot.ExecutableDir(), SettingsFileName)
}

// LoadFromINI loads configuration from a Settings.ini file. A missing file
// yields the defaults. Relative paths in the file are resolved against the
// file's directory.
func LoadFromINI(path string) (*bot.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewDefaultConfig(), nil
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	section := cfg.Section(sectionName)
	base := filepath.Dir(path)

	config := &bot.Config{}

	// Remote API
	config.BaseURL = strings.TrimRight(section.Key("baseURL").MustString(blum.DefaultBaseURL), "/")
	timeout := section.Key("requestTimeoutSeconds").MustInt(int(blum.DefaultTimeout / time.Second))
	if timeout <= 0 {
		return nil, fmt.Errorf("requestTimeoutSeconds must be positive, got %d", timeout)
	}
	config.RequestTimeout = time.Duration(timeout) * time.Second

	// Accounts
	config.AccountsDir = resolvePath(base, section.Key("accountsDir").MustString(""))

	// Logging
	config.LogLevel = section.Key("logLevel").MustString("INFO")
	config.LogFile = resolvePath(base, section.Key("logFile").MustString(""))

	// Journal and scheduling
	config.JournalPath = resolvePath(base, section.Key("journalPath").MustString(""))
	config.Schedule = section.Key("schedule").MustString("")
	if config.Schedule != "" {
		if err := bot.ValidateSchedule(config.Schedule); err != nil {
			return nil, err
		}
	}

	config.ApplyDefaults()
	return config, nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// NewDefaultConfig creates a config with default values
func NewDefaultConfig() *bot.Config {
	config := &bot.Config{
		BaseURL:        blum.DefaultBaseURL,
		RequestTimeout: blum.DefaultTimeout,
		LogLevel:       "INFO",
	}
	config.ApplyDefaults()
	return config
}

// SaveToINI saves configuration to an INI file
func SaveToINI(config *bot.Config, path string) error {
	cfg := ini.Empty()
	section := cfg.Section(sectionName)

	// Remote API
	section.Key("baseURL").SetValue(config.BaseURL)
	section.Key("requestTimeoutSeconds").SetValue(fmt.Sprintf("%d", int(config.RequestTimeout/time.Second)))

	// Accounts
	section.Key("accountsDir").SetValue(config.AccountsDir)

	// Logging
	section.Key("logLevel").SetValue(config.LogLevel)
	section.Key("logFile").SetValue(config.LogFile)

	// Journal and scheduling
	section.Key("journalPath").SetValue(config.JournalPath)
	section.Key("schedule").SetValue(config.Schedule)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return cfg.SaveTo(path)
}
