package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"jordanella.com/blum-go/internal/accounts"
	"jordanella.com/blum-go/internal/blum"
	"jordanella.com/blum-go/internal/database"
)

func noSleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

// gameServer fakes the remote API. Each token maps to its pass count; tokens
// not in the map are rejected.
type gameServer struct {
	mu     sync.Mutex
	passes map[string]uint32
	games  int
	claims []string
}

func (g *gameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	passes, ok := g.passes[token]
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch r.URL.Path {
	case "/api/v1/user/balance":
		fmt.Fprintf(w, `{"playPasses": %d}`, passes)
	case "/api/v1/game/play":
		g.games++
		fmt.Fprintf(w, `{"gameId": "game-%d"}`, g.games)
	case "/api/v1/game/claim":
		g.claims = append(g.claims, token)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeAccount(t *testing.T, dir, filename, token string) {
	t.Helper()
	account := accounts.NewAccountConfig()
	account.AuthorizationToken = token
	if err := accounts.SaveAccount(dir, filename, account); err != nil {
		t.Fatalf("Failed to save account: %v", err)
	}
}

func newTestManager(t *testing.T, server *httptest.Server) (*Manager, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "accounts")
	m := NewManager(&Config{
		BaseURL:     server.URL,
		AccountsDir: dir,
	}, nil)
	m.sleep = noSleep
	return m, dir
}

func TestRunPassSequential(t *testing.T) {
	game := &gameServer{passes: map[string]uint32{"good-1": 2, "good-2": 1}}
	server := httptest.NewServer(game)
	defer server.Close()

	m, dir := newTestManager(t, server)
	writeAccount(t, dir, "a.yaml", "good-1")
	writeAccount(t, dir, "b.json", "revoked")
	writeAccount(t, dir, "c.yml", "good-2")

	results, err := m.RunPass(context.Background())
	if err != nil {
		t.Fatalf("RunPass failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	byFile := resultsByFile(t, results)

	if r := byFile["a.yaml"]; !r.Success() || r.RoundsPlayed != 2 {
		t.Errorf("Expected a.yaml to play 2 rounds, got %d (%v)", r.RoundsPlayed, r.Err)
	}
	if r := byFile["b.json"]; !errors.Is(r.Err, blum.ErrAuthenticationRejected) {
		t.Errorf("Expected b.json rejected, got %v", r.Err)
	}
	if r := byFile["c.yml"]; !r.Success() || r.RoundsPlayed != 1 {
		t.Errorf("Expected c.yml to play 1 round, got %d (%v)", r.RoundsPlayed, r.Err)
	}

	claims := map[string]int{}
	for _, token := range game.claims {
		claims[token]++
	}
	if len(game.claims) != 3 || claims["good-1"] != 2 || claims["good-2"] != 1 {
		t.Errorf("Expected 2 claims for good-1 and 1 for good-2, got %v", game.claims)
	}
}

// resultsByFile indexes results by account file name
func resultsByFile(t *testing.T, results []*RunResult) map[string]*RunResult {
	t.Helper()
	byFile := make(map[string]*RunResult, len(results))
	for _, r := range results {
		byFile[r.Account.FileName] = r
	}
	if len(byFile) != len(results) {
		t.Fatalf("Expected one result per account file, got %d for %d results", len(byFile), len(results))
	}
	return byFile
}

func TestRunPassEmptyDirectory(t *testing.T) {
	server := httptest.NewServer(&gameServer{})
	defer server.Close()

	m, _ := newTestManager(t, server)

	results, err := m.RunPass(context.Background())
	if err != nil {
		t.Fatalf("RunPass failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestRunPassJournal(t *testing.T) {
	game := &gameServer{passes: map[string]uint32{"good": 3}}
	server := httptest.NewServer(game)
	defer server.Close()

	db, err := database.OpenJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	defer db.Close()

	m, dir := newTestManager(t, server)
	m.SetJournal(db)
	writeAccount(t, dir, "main.yaml", "good")
	writeAccount(t, dir, "old.yaml", "revoked")

	results, err := m.RunPass(context.Background())
	if err != nil {
		t.Fatalf("RunPass failed: %v", err)
	}

	byFile := resultsByFile(t, results)
	mainRun, oldRun := byFile["main.yaml"], byFile["old.yaml"]
	if mainRun == nil || oldRun == nil {
		t.Fatalf("Expected results for main.yaml and old.yaml, got %v", byFile)
	}

	run, err := db.GetRun(mainRun.RunID.String())
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if run.Status != database.RunStatusCompleted || run.Account != "main.yaml" {
		t.Errorf("Unexpected run record %+v", run)
	}
	if run.RoundsPlayed != 3 || run.PointsClaimed != mainRun.PointsClaimed {
		t.Errorf("Expected 3 rounds and %d points, got %d and %d", mainRun.PointsClaimed, run.RoundsPlayed, run.PointsClaimed)
	}

	rounds, err := db.GetRoundsForRun(run.RunID)
	if err != nil {
		t.Fatalf("Failed to get rounds: %v", err)
	}
	if len(rounds) != 3 || rounds[2].GameID != "game-3" {
		t.Errorf("Unexpected rounds %+v", rounds)
	}

	failed, err := db.GetRun(oldRun.RunID.String())
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if failed.Status != database.RunStatusFailed || failed.ErrorMessage == nil {
		t.Errorf("Expected failed run with message, got %+v", failed)
	}
}

type fakeSession struct {
	*fakeClient
	closed bool
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func TestRunAllStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	m := NewManager(&Config{AccountsDir: t.TempDir()}, nil)
	m.sleep = noSleep

	var sessions []*fakeSession
	m.newSession = func(account *accounts.AccountConfig) (SessionClient, error) {
		s := &fakeSession{fakeClient: &fakeClient{passes: 1}}
		sessions = append(sessions, s)
		cancel()
		return s, nil
	}

	list := []*accounts.AccountConfig{newTestAccount(170, 250), newTestAccount(170, 250)}
	results := m.RunAll(ctx, list)

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if len(sessions) != 1 || !sessions[0].closed {
		t.Error("Expected exactly one session, closed after the run")
	}
}

func TestRunAllSessionError(t *testing.T) {
	m := NewManager(&Config{AccountsDir: t.TempDir()}, nil)
	m.sleep = noSleep

	calls := 0
	m.newSession = func(account *accounts.AccountConfig) (SessionClient, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("bad proxy")
		}
		return &fakeSession{fakeClient: &fakeClient{passes: 0}}, nil
	}

	db, err := database.OpenJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	defer db.Close()
	m.SetJournal(db)

	results := m.RunAll(context.Background(), []*accounts.AccountConfig{newTestAccount(1, 2), newTestAccount(1, 2)})

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Success() || !results[1].Success() {
		t.Errorf("Expected failure then success, got %v and %v", results[0].Err, results[1].Err)
	}

	run, err := db.GetRun(results[0].RunID.String())
	if err != nil {
		t.Fatalf("Expected session failure to be journaled: %v", err)
	}
	if run.Status != database.RunStatusFailed || run.ErrorMessage == nil || !strings.Contains(*run.ErrorMessage, "bad proxy") {
		t.Errorf("Expected failed run mentioning the session error, got %+v", run)
	}
}

func TestValidateSchedule(t *testing.T) {
	valid := []string{"@every 8h", "0 */8 * * *", "@daily"}
	for _, spec := range valid {
		if err := ValidateSchedule(spec); err != nil {
			t.Errorf("Expected %q to be valid: %v", spec, err)
		}
	}

	invalid := []string{"", "every day", "61 * * * *"}
	for _, spec := range invalid {
		if err := ValidateSchedule(spec); err == nil {
			t.Errorf("Expected %q to be rejected", spec)
		}
	}
}

func TestRunScheduledStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	m := NewManager(&Config{AccountsDir: t.TempDir()}, nil)
	m.sleep = noSleep

	done := make(chan error, 1)
	go func() { done <- m.RunScheduled(ctx, "@every 1h") }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("RunScheduled did not return after cancel")
	}
}

func TestRunScheduledInvalidSpec(t *testing.T) {
	m := NewManager(&Config{AccountsDir: t.TempDir()}, nil)
	if err := m.RunScheduled(context.Background(), "nope"); err == nil {
		t.Error("Expected error for invalid schedule")
	}
}
