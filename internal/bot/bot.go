package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"jordanella.com/blum-go/internal/accounts"
	"jordanella.com/blum-go/internal/blum"
	"jordanella.com/blum-go/internal/logging"
)

const (
	// PlayDuration is the minimum time the game server expects a round to last
	// before it accepts a claim.
	PlayDuration = 32 * time.Second

	// RoundPause separates consecutive rounds of one account
	RoundPause = 1 * time.Second
)

// GameClient is the remote API as seen by the driver. *blum.Session implements it.
type GameClient interface {
	GetBalance(ctx context.Context) (uint32, error)
	StartGame(ctx context.Context) (string, error)
	ClaimPoints(ctx context.Context, gameID string, points int) error
}

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GameRound is one started game and the points claimed for it
type GameRound struct {
	Number int
	GameID string
	Points int
}

// RunResult describes one account run, successful or not
type RunResult struct {
	RunID         uuid.UUID
	Account       *accounts.AccountConfig
	Passes        uint32
	RoundsPlayed  int
	PointsClaimed int
	StartedAt     time.Time
	FinishedAt    time.Time
	Err           error
}

// Success reports whether every available pass was played
func (r *RunResult) Success() bool {
	return r.Err == nil
}

// Bot drives one account through balance, play and claim
type Bot struct {
	account *accounts.AccountConfig
	client  GameClient
	logger  *logging.Logger
	rng     *rand.Rand
	sleep   SleepFunc
	onRound func(*GameRound)
	runID   uuid.UUID
	state   State
}

// Option customizes a Bot
type Option func(*Bot)

func WithLogger(logger *logging.Logger) Option {
	return func(b *Bot) { b.logger = logger }
}

func WithRand(rng *rand.Rand) Option {
	return func(b *Bot) { b.rng = rng }
}

func WithSleep(sleep SleepFunc) Option {
	return func(b *Bot) { b.sleep = sleep }
}

func WithRunID(id uuid.UUID) Option {
	return func(b *Bot) { b.runID = id }
}

// WithRoundObserver registers a callback invoked after each successful claim
func WithRoundObserver(fn func(*GameRound)) Option {
	return func(b *Bot) { b.onRound = fn }
}

// New creates a driver for account. The account must be valid.
func New(account *accounts.AccountConfig, client GameClient, opts ...Option) (*Bot, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("bot: nil game client")
	}

	b := &Bot{
		account: account,
		client:  client,
		logger:  logging.Nop(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:   sleepContext,
		runID:   uuid.New(),
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// State returns the driver's current state
func (b *Bot) State() State {
	return b.state
}

func (b *Bot) setState(s State) {
	b.logger.Debugf("State %s -> %s", b.state, s)
	b.state = s
}

func (b *Bot) checkBalance(ctx context.Context) (uint32, error) {
	b.setState(StateCheckingBalance)

	passes, err := b.client.GetBalance(ctx)
	if err != nil {
		if errors.Is(err, blum.ErrAuthenticationRejected) {
			b.logger.Warn("Invalid token. Please recheck")
		}
		return 0, fmt.Errorf("unable to get balance: %w", err)
	}
	return passes, nil
}

func (b *Bot) startRound(ctx context.Context) (string, error) {
	b.setState(StatePlayingRound)
	return b.client.StartGame(ctx)
}

func (b *Bot) claimRound(ctx context.Context, round *GameRound) error {
	b.setState(StateClaiming)
	return b.client.ClaimPoints(ctx, round.GameID, round.Points)
}

// drawPoints picks a score uniformly from [MinScore, MaxScore]
func (b *Bot) drawPoints() int {
	lo, hi := int64(b.account.MinScore), int64(b.account.MaxScore)
	return int(lo + b.rng.Int63n(hi-lo+1))
}

// runRound plays one pass: start, wait out the game, claim
func (b *Bot) runRound(ctx context.Context, number int) (*GameRound, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.logger.Infof("Starting game %d", number)
	gameID, err := b.startRound(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to start game: %w", err)
	}

	b.setState(StateWaiting)
	b.logger.Infof("Waiting %d seconds", int(PlayDuration.Seconds()))
	if err := b.sleep(ctx, PlayDuration); err != nil {
		return nil, err
	}

	round := &GameRound{
		Number: number,
		GameID: gameID,
		Points: b.drawPoints(),
	}

	b.logger.Infof("Claiming %d points", round.Points)
	if err := b.claimRound(ctx, round); err != nil {
		return nil, fmt.Errorf("unable to claim points: %w", err)
	}

	return round, nil
}

// Run checks the balance and plays every available pass in order.
// The first failure ends the run; rounds already claimed stay counted.
func (b *Bot) Run(ctx context.Context) *RunResult {
	result := &RunResult{
		RunID:     b.runID,
		Account:   b.account,
		StartedAt: time.Now(),
	}

	result.Err = b.run(ctx, result)
	result.FinishedAt = time.Now()

	if result.Err != nil {
		b.setState(StateFailed)
		b.logger.ErrorWithContext("Run failed", result.Err, map[string]interface{}{
			"reason": blum.Describe(result.Err),
			"rounds": result.RoundsPlayed,
		})
	} else {
		b.setState(StateDone)
	}
	return result
}

func (b *Bot) run(ctx context.Context, result *RunResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	passes, err := b.checkBalance(ctx)
	if err != nil {
		return err
	}
	result.Passes = passes

	if passes == 0 {
		b.logger.Info("There are no passes")
		return nil
	}

	b.logger.Infof("Found %d passes", passes)
	for i := 1; i <= int(passes); i++ {
		if i > 1 {
			if err := b.sleep(ctx, RoundPause); err != nil {
				return err
			}
		}

		round, err := b.runRound(ctx, i)
		if err != nil {
			return err
		}

		result.RoundsPlayed++
		result.PointsClaimed += round.Points
		if b.onRound != nil {
			b.onRound(round)
		}
	}

	return nil
}
