package database

import (
	"time"
)

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// RunRecord is the journal entry for one account run
type RunRecord struct {
	RunID         string     `db:"run_id"`
	Account       string     `db:"account"`
	Platform      string     `db:"platform"`
	Status        string     `db:"status"`
	Passes        int        `db:"passes"`
	RoundsPlayed  int        `db:"rounds_played"`
	PointsClaimed int        `db:"points_claimed"`
	ErrorMessage  *string    `db:"error_message"`
	StartedAt     time.Time  `db:"started_at"`
	FinishedAt    *time.Time `db:"finished_at"`
}

// RoundRecord is the journal entry for one claimed round
type RoundRecord struct {
	ID          int64     `db:"id"`
	RunID       string    `db:"run_id"`
	RoundNumber int       `db:"round_number"`
	GameID      string    `db:"game_id"`
	Points      int       `db:"points"`
	ClaimedAt   time.Time `db:"claimed_at"`
}
