package cmd

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"jordanella.com/blum-go/internal/bot"
	"jordanella.com/blum-go/internal/config"
	"jordanella.com/blum-go/internal/logging"
)

var (
	// Flags shared by every command. Non-empty values override Settings.ini.
	configFile  string
	accountsDir string
	logLevel    string
	journalPath string
	schedule    string

	rootCmd = &cobra.Command{
		Use:          "blum-bot",
		Short:        "Plays Blum drop games for every configured account",
		Long:         "Reads one file per account from the accounts folder and spends each account's play passes.",
		RunE:         runBot,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "settings file (default Settings.ini next to the executable)")
	rootCmd.PersistentFlags().StringVarP(&accountsDir, "accounts", "a", "", "accounts folder")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "SQLite run journal file")

	rootCmd.Flags().StringVar(&schedule, "schedule", "", `cron spec for repeated passes, e.g. "@every 8h"`)

	rootCmd.AddCommand(run)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(history)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func settingsPath() string {
	if configFile != "" {
		return configFile
	}
	return config.DefaultSettingsPath()
}

// loadConfig reads the settings file and applies command-line overrides
func loadConfig() (*bot.Config, error) {
	cfg, err := config.LoadFromINI(settingsPath())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load settings")
	}

	if accountsDir != "" {
		cfg.AccountsDir = accountsDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if journalPath != "" {
		cfg.JournalPath = journalPath
	}
	if schedule != "" {
		cfg.Schedule = schedule
	}
	return cfg, nil
}

// newLogger builds the application logger. The returned func releases the
// log file, if any.
func newLogger(cfg *bot.Config) (*logging.Logger, func(), error) {
	logger := logging.NewLogger("Main").SetMinLevel(logging.ParseLogLevel(cfg.LogLevel))
	if cfg.LogFile == "" {
		return logger, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, nil, errors.Wrap(err, "failed to create log directory")
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open log file")
	}
	logger.AddOutput(f)
	return logger, func() { f.Close() }, nil
}
