package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"jordanella.com/blum-go/internal/bot"
	"jordanella.com/blum-go/internal/database"
)

var run = &cobra.Command{
	Use:   "run",
	Short: "play every account once, or on a schedule",
	RunE:  runBot,
}

func init() {
	run.Flags().StringVar(&schedule, "schedule", "", `cron spec for repeated passes, e.g. "@every 8h"`)
}

func runBot(*cobra.Command, []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Schedule != "" {
		if err := bot.ValidateSchedule(cfg.Schedule); err != nil {
			return err
		}
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	manager := bot.NewManager(cfg, logger)

	if cfg.JournalPath != "" {
		db, err := database.OpenJournal(cfg.JournalPath)
		if err != nil {
			return errors.Wrap(err, "failed to open journal")
		}
		defer db.Close()
		manager.SetJournal(db)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Schedule != "" {
		return errors.Wrap(manager.RunScheduled(ctx, cfg.Schedule), "scheduler failed")
	}

	// Per-account failures are logged by the manager and do not change the exit status.
	if _, err := manager.RunPass(ctx); err != nil {
		return errors.Wrap(err, "failed to load accounts")
	}
	return nil
}
