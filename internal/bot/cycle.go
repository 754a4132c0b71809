package bot

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"jordanella.com/blum-go/internal/logging"
)

// ValidateSchedule checks a cron spec such as "0 */8 * * *" or "@every 8h"
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// cronLogger adapts our logger to cron's Printf-style logger
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Printf(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

// RunScheduled runs one pass immediately and then one per schedule tick until
// ctx is cancelled. A tick that arrives while a pass is still running is skipped.
func (m *Manager) RunScheduled(ctx context.Context, spec string) error {
	if err := ValidateSchedule(spec); err != nil {
		return err
	}

	pass := func() {
		if _, err := m.RunPass(ctx); err != nil {
			m.logger.Error("Pass failed", err)
		}
	}

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.PrintfLogger(cronLogger{m.logger.Named("Scheduler")})),
	))
	entryID, err := c.AddFunc(spec, pass)
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	pass()
	if ctx.Err() != nil {
		return nil
	}

	c.Start()
	m.logger.InfoWithContext("Scheduler started", map[string]interface{}{
		"schedule": spec,
		"next":     c.Entry(entryID).Next.Format("2006-01-02 15:04:05"),
	})

	<-ctx.Done()
	m.logger.Info("Stopping scheduler")
	<-c.Stop().Done()
	return nil
}
