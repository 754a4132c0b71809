package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Run journal operations. The journal is append-only history; nothing here
// is read back to decide what a run does.

// StartRun inserts a run in the running state
func (db *DB) StartRun(run *RunRecord) error {
	run.Status = RunStatusRunning
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := db.conn.Exec(`
		INSERT INTO runs (run_id, account, platform, status, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.RunID, run.Account, run.Platform, run.Status, run.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// RecordRound stores a claimed round
func (db *DB) RecordRound(round *RoundRecord) error {
	if round.ClaimedAt.IsZero() {
		round.ClaimedAt = time.Now()
	}

	result, err := db.conn.Exec(`
		INSERT INTO rounds (run_id, round_number, game_id, points, claimed_at)
		VALUES (?, ?, ?, ?, ?)
	`, round.RunID, round.RoundNumber, round.GameID, round.Points, round.ClaimedAt)
	if err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}

	round.ID, err = result.LastInsertId()
	return err
}

// FinishRun stores the outcome of a run
func (db *DB) FinishRun(run *RunRecord) error {
	if run.FinishedAt == nil {
		now := time.Now()
		run.FinishedAt = &now
	}

	return db.ExecTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			UPDATE runs
			SET status = ?,
				passes = ?,
				rounds_played = ?,
				points_claimed = ?,
				error_message = ?,
				finished_at = ?
			WHERE run_id = ?
		`, run.Status, run.Passes, run.RoundsPlayed, run.PointsClaimed, run.ErrorMessage, run.FinishedAt, run.RunID)
		if err != nil {
			return fmt.Errorf("failed to update run: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("run %s not found", run.RunID)
		}
		return nil
	})
}

// GetRun retrieves a run by id
func (db *DB) GetRun(runID string) (*RunRecord, error) {
	row := db.conn.QueryRow(`
		SELECT run_id, account, platform, status, passes, rounds_played, points_claimed,
			error_message, started_at, finished_at
		FROM runs
		WHERE run_id = ?
	`, runID)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	return run, err
}

// ListRecentRuns returns up to limit runs, newest first
func (db *DB) ListRecentRuns(limit int) ([]*RunRecord, error) {
	rows, err := db.conn.Query(`
		SELECT run_id, account, platform, status, passes, rounds_played, points_claimed,
			error_message, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []*RunRecord{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRoundsForRun returns the rounds of a run in play order
func (db *DB) GetRoundsForRun(runID string) ([]*RoundRecord, error) {
	rows, err := db.conn.Query(`
		SELECT id, run_id, round_number, game_id, points, claimed_at
		FROM rounds
		WHERE run_id = ?
		ORDER BY round_number
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	rounds := []*RoundRecord{}
	for rows.Next() {
		r := &RoundRecord{}
		if err := rows.Scan(&r.ID, &r.RunID, &r.RoundNumber, &r.GameID, &r.Points, &r.ClaimedAt); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds = append(rounds, r)
	}

	return rounds, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	run := &RunRecord{}
	err := row.Scan(
		&run.RunID, &run.Account, &run.Platform, &run.Status, &run.Passes, &run.RoundsPlayed,
		&run.PointsClaimed, &run.ErrorMessage, &run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}
