package bot

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"jordanella.com/blum-go/internal/accounts"
	"jordanella.com/blum-go/internal/blum"
	"jordanella.com/blum-go/internal/database"
	"jordanella.com/blum-go/internal/logging"
)

// Journal records run history. *database.DB implements it.
type Journal interface {
	StartRun(run *database.RunRecord) error
	RecordRound(round *database.RoundRecord) error
	FinishRun(run *database.RunRecord) error
}

// SessionClient is a GameClient that holds resources until closed
type SessionClient interface {
	GameClient
	io.Closer
}

// SessionFactory opens the HTTP channel for one account run
type SessionFactory func(account *accounts.AccountConfig) (SessionClient, error)

// Manager runs every configured account, one after another
type Manager struct {
	config     *Config
	logger     *logging.Logger
	journal    Journal // optional
	newSession SessionFactory
	sleep      SleepFunc
}

// NewManager creates a manager that talks to the API described by config
func NewManager(config *Config, logger *logging.Logger) *Manager {
	config.ApplyDefaults()
	if logger == nil {
		logger = logging.Nop()
	}

	m := &Manager{
		config: config,
		logger: logger,
		sleep:  sleepContext,
	}
	m.newSession = func(account *accounts.AccountConfig) (SessionClient, error) {
		return blum.NewSession(account, blum.Options{
			BaseURL: config.BaseURL,
			Timeout: config.RequestTimeout,
			Logger:  logger.Named("Session"),
		})
	}
	return m
}

// SetJournal enables run history recording
func (m *Manager) SetJournal(journal Journal) {
	m.journal = journal
}

// LoadAccounts reads the configured accounts folder
func (m *Manager) LoadAccounts() ([]*accounts.AccountConfig, error) {
	return accounts.LoadFromDirectory(m.config.AccountsDir, m.logger.Named("Accounts"))
}

// RunPass loads the accounts folder and runs every account once
func (m *Manager) RunPass(ctx context.Context) ([]*RunResult, error) {
	list, err := m.LoadAccounts()
	if err != nil {
		return nil, err
	}
	return m.RunAll(ctx, list), nil
}

// RunAll runs each account to completion in order. A failed account never
// stops the accounts after it; cancellation does.
func (m *Manager) RunAll(ctx context.Context, list []*accounts.AccountConfig) []*RunResult {
	if len(list) == 0 {
		m.logger.WarnWithContext("No valid accounts found, nothing to do. Recheck accounts folder", map[string]interface{}{
			"dir": m.config.AccountsDir,
		})
		return nil
	}

	results := make([]*RunResult, 0, len(list))
	for i, account := range list {
		if ctx.Err() != nil {
			m.logger.Warn("Stopping before remaining accounts")
			break
		}

		m.logger.Infof("Working with account %d", i+1)
		result := m.runAccount(ctx, i+1, account)
		m.logger.Infof("Account %d success: %t", i+1, result.Success())
		results = append(results, result)
	}

	m.logSummary(results)
	return results
}

func (m *Manager) runAccount(ctx context.Context, index int, account *accounts.AccountConfig) *RunResult {
	runID := uuid.New()
	logger := m.logger.Named("Bot").WithContext(map[string]interface{}{
		"account": index,
		"run":     runID.String()[:8],
	})

	m.journalStart(logger, runID, account)

	session, err := m.newSession(account)
	if err != nil {
		logger.Error("Failed to open session", err)
		return m.abortRun(logger, runID, account, fmt.Errorf("failed to open session: %w", err))
	}
	defer session.Close()

	opts := []Option{
		WithLogger(logger),
		WithSleep(m.sleep),
		WithRunID(runID),
	}
	if m.journal != nil {
		opts = append(opts, WithRoundObserver(func(round *GameRound) {
			m.recordRound(logger, runID, round)
		}))
	}

	b, err := New(account, session, opts...)
	if err != nil {
		logger.Error("Failed to create bot", err)
		return m.abortRun(logger, runID, account, err)
	}

	result := b.Run(ctx)
	m.journalFinish(logger, result)
	return result
}

// abortRun reports a run that failed before the driver started
func (m *Manager) abortRun(logger *logging.Logger, runID uuid.UUID, account *accounts.AccountConfig, err error) *RunResult {
	now := time.Now()
	result := &RunResult{
		RunID:      runID,
		Account:    account,
		StartedAt:  now,
		FinishedAt: now,
		Err:        err,
	}
	m.journalFinish(logger, result)
	return result
}

// Journal writes never affect a run; failures are logged and ignored.

func (m *Manager) journalStart(logger *logging.Logger, runID uuid.UUID, account *accounts.AccountConfig) {
	if m.journal == nil {
		return
	}
	err := m.journal.StartRun(&database.RunRecord{
		RunID:    runID.String(),
		Account:  account.Name(),
		Platform: account.Platform.String(),
	})
	if err != nil {
		logger.Error("Failed to journal run start", err)
	}
}

func (m *Manager) recordRound(logger *logging.Logger, runID uuid.UUID, round *GameRound) {
	err := m.journal.RecordRound(&database.RoundRecord{
		RunID:       runID.String(),
		RoundNumber: round.Number,
		GameID:      round.GameID,
		Points:      round.Points,
	})
	if err != nil {
		logger.Error("Failed to journal round", err)
	}
}

func (m *Manager) journalFinish(logger *logging.Logger, result *RunResult) {
	if m.journal == nil {
		return
	}

	record := &database.RunRecord{
		RunID:         result.RunID.String(),
		Status:        database.RunStatusCompleted,
		Passes:        int(result.Passes),
		RoundsPlayed:  result.RoundsPlayed,
		PointsClaimed: result.PointsClaimed,
		FinishedAt:    &result.FinishedAt,
	}
	if result.Err != nil {
		msg := result.Err.Error()
		record.Status = database.RunStatusFailed
		record.ErrorMessage = &msg
	}

	if err := m.journal.FinishRun(record); err != nil {
		logger.Error("Failed to journal run result", err)
	}
}

func (m *Manager) logSummary(results []*RunResult) {
	succeeded, rounds, points := 0, 0, 0
	for _, r := range results {
		if r.Success() {
			succeeded++
		}
		rounds += r.RoundsPlayed
		points += r.PointsClaimed
	}

	m.logger.InfoWithContext("Pass complete", map[string]interface{}{
		"accounts":  len(results),
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
		"rounds":    rounds,
		"points":    points,
	})
}
