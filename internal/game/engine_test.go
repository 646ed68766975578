package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"sudoku_core_go/internal/board"
	"sudoku_core_go/internal/generator"
	"sudoku_core_go/internal/hint"
)

func newTestEngine() *Engine {
	e := NewEngine(generator.New())
	seed := int64(0)
	e.seed = func() int64 { seed++; return seed }
	return e
}

func waitEvent(t *testing.T, e *Engine) Event {
	t.Helper()
	select {
	case ev := <-e.Events():
		return ev
	case <-time.After(30 * time.Second):
		t.Fatalf("timed out waiting for background result")
		return nil
	}
}

func startGame(t *testing.T, e *Engine) uint64 {
	t.Helper()
	id := e.StartGame(context.Background(), generator.Beginner)
	if err := e.Apply(waitEvent(t, e)); err != nil {
		t.Fatalf("applying game result: %v", err)
	}
	if e.Session() == nil || e.Session().ID() != id {
		t.Fatalf("session not installed")
	}
	return id
}

func TestEngineNewGame(t *testing.T) {
	e := newTestEngine()
	startGame(t, e)
	s := e.Session()
	if s.HintsLeft() != hint.Budget {
		t.Fatalf("fresh game must start with the full hint budget")
	}
	if s.IsComplete() {
		t.Fatalf("fresh puzzle cannot be complete")
	}
}

func TestEngineDropsStaleGameResult(t *testing.T) {
	e := newTestEngine()
	id := startGame(t, e)

	// Supersede the session, then feed a result tagged with the old
	// one: it must be discarded without touching the session.
	e.StartGame(context.Background(), generator.Beginner)
	if err := e.Apply(GameReady{ID: id, Puzzle: nil}); err != nil {
		t.Fatalf("stale result must be dropped silently, got %v", err)
	}
	if e.Session().ID() != id {
		t.Fatalf("stale result must not replace the session")
	}
	_ = waitEvent(t, e) // drain the superseding game's result
}

func TestEngineHintFlow(t *testing.T) {
	e := newTestEngine()
	startGame(t, e)
	s := e.Session()
	emptiesBefore := s.Board().Empties()

	for i := 0; i < hint.Budget; i++ {
		if _, err := e.StartHint(context.Background()); err != nil {
			t.Fatalf("hint %d: %v", i+1, err)
		}
		ev := waitEvent(t, e)
		hr, ok := ev.(HintReady)
		if !ok {
			t.Fatalf("expected HintReady, got %T", ev)
		}
		if hr.Err != nil {
			t.Fatalf("hint %d failed: %v", i+1, hr.Err)
		}
		if err := e.Apply(ev); err != nil {
			t.Fatal(err)
		}
		cell := hr.Cell
		if s.Board().Value(cell) != s.Solution()[cell.Row][cell.Col] {
			t.Fatalf("hint revealed a wrong value at %+v", cell)
		}
		if s.Board().Prov(cell) != board.ProvHint {
			t.Fatalf("hint cell has provenance %s", s.Board().Prov(cell))
		}
	}

	if s.HintsLeft() != 0 {
		t.Fatalf("budget should be exhausted, %d left", s.HintsLeft())
	}
	if s.Board().Empties() != emptiesBefore-hint.Budget {
		t.Fatalf("each hint must fill exactly one cell")
	}

	grid := s.Board().Grid()
	if _, err := e.StartHint(context.Background()); !errors.Is(err, hint.ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted, got %v", err)
	}
	if s.Board().Grid() != grid {
		t.Fatalf("rejected hint request must leave the board unchanged")
	}
}

func TestEngineHintBusy(t *testing.T) {
	e := newTestEngine()
	startGame(t, e)

	if _, err := e.StartHint(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := e.StartHint(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := e.Apply(waitEvent(t, e)); err != nil {
		t.Fatal(err)
	}
	if _, err := e.StartHint(context.Background()); err != nil {
		t.Fatalf("hint after completion should work: %v", err)
	}
	_ = waitEvent(t, e)
}

func TestEngineDropsStaleHint(t *testing.T) {
	e := newTestEngine()
	startGame(t, e)

	if _, err := e.StartHint(context.Background()); err != nil {
		t.Fatal(err)
	}
	ev := waitEvent(t, e)

	// New game supersedes the session before the hint is applied.
	e.StartGame(context.Background(), generator.Beginner)
	old := e.Session()
	if err := e.Apply(ev); err != nil {
		t.Fatalf("stale hint must be dropped silently, got %v", err)
	}
	if old.HintsLeft() != hint.Budget {
		t.Fatalf("stale hint must not consume budget")
	}
}

func TestEngineHintYieldsToPlayerMove(t *testing.T) {
	e := newTestEngine()
	startGame(t, e)
	s := e.Session()

	if _, err := e.StartHint(context.Background()); err != nil {
		t.Fatal(err)
	}
	hr, ok := waitEvent(t, e).(HintReady)
	if !ok || hr.Err != nil {
		t.Fatalf("expected a successful HintReady, got %+v", hr)
	}

	// Fill the picked cell before the result is applied; the player's
	// entry must survive and the budget must stay untouched.
	v := hr.Value%9 + 1
	if _, err := s.ApplyMove(hr.Cell, v); err != nil {
		t.Fatal(err)
	}
	if err := e.Apply(hr); err != nil {
		t.Fatal(err)
	}
	if s.Board().Value(hr.Cell) != v {
		t.Fatalf("hint overwrote a player-filled cell")
	}
	if s.Board().Prov(hr.Cell) != board.ProvPlayer {
		t.Fatalf("hint changed provenance of a player-filled cell to %s", s.Board().Prov(hr.Cell))
	}
	if s.HintsLeft() != hint.Budget {
		t.Fatalf("dropped hint must not consume budget, %d left", s.HintsLeft())
	}
	if _, err := e.StartHint(context.Background()); err != nil {
		t.Fatalf("next hint should work: %v", err)
	}
	_ = waitEvent(t, e)
}

func TestEngineHintAfterCancelledRequest(t *testing.T) {
	e := newTestEngine()
	startGame(t, e)

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := e.StartHint(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()

	// The cancelled task may never deliver its completion; a new
	// request must not stay blocked behind it.
	if _, err := e.StartHint(context.Background()); err != nil {
		t.Fatalf("hint after cancellation should work: %v", err)
	}
	if err := e.Apply(waitEvent(t, e)); err != nil {
		t.Fatal(err)
	}
}

func TestEngineSolve(t *testing.T) {
	e := newTestEngine()
	startGame(t, e)
	s := e.Session()

	if err := e.Solve(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !s.IsComplete() {
		t.Fatalf("solved board must be complete")
	}
	if s.Board().Grid() != s.Solution() {
		t.Fatalf("solve must reveal the retained solution")
	}
}

func TestEngineSolveWithoutSession(t *testing.T) {
	e := newTestEngine()
	if err := e.Solve(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, err := e.StartHint(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
