package game

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"sudoku_core_go/internal/board"
	"sudoku_core_go/internal/generator"
	"sudoku_core_go/internal/hint"
	"sudoku_core_go/internal/solver"
	"sudoku_core_go/internal/validator"
)

var log = logrus.New()

var (
	ErrNoSession = errors.New("no game in progress")
	ErrBusy      = errors.New("a hint is already being computed")
)

// Event is a background task result tagged with the session it was
// computed for. The owning control path feeds events back through
// Apply, which drops anything from a superseded session.
type Event interface {
	SessionID() uint64
}

// GameReady delivers a generated puzzle.
type GameReady struct {
	ID     uint64
	Puzzle *generator.Puzzle
	Err    error
}

func (e GameReady) SessionID() uint64 { return e.ID }

// HintReady delivers one revealed cell.
type HintReady struct {
	ID    uint64
	Cell  board.Cell
	Value uint8
	Err   error
}

func (e HintReady) SessionID() uint64 { return e.ID }

// Engine runs generation and hint search off the interactive path.
// Every method except the spawned goroutines must be called from the
// single goroutine that owns the game state; that goroutine receives
// from Events and hands each event to Apply.
type Engine struct {
	gen        *generator.Generator
	events     chan Event
	session    *Session
	currentID  uint64
	cancel     context.CancelFunc
	hinting    bool
	hintCtx    context.Context
	hintCancel context.CancelFunc
	seed       func() int64
}

// NewEngine wires an engine around a generator.
func NewEngine(gen *generator.Generator) *Engine {
	return &Engine{
		gen:    gen,
		events: make(chan Event, 4),
		seed:   func() int64 { return time.Now().UnixNano() },
	}
}

// Events is where background results arrive.
func (e *Engine) Events() <-chan Event { return e.events }

// Session returns the current session, nil before the first GameReady
// is applied.
func (e *Engine) Session() *Session { return e.session }

// StartGame begins generating a new puzzle in the background and
// returns the session tag the result will carry. Any in-flight task
// for the previous session is cancelled; its result, if it arrives
// anyway, is stale and will be dropped by Apply.
func (e *Engine) StartGame(ctx context.Context, d generator.Difficulty) uint64 {
	if e.cancel != nil {
		e.cancel()
	}
	if e.hintCancel != nil {
		e.hintCancel()
	}
	e.currentID++
	e.hinting = false
	id := e.currentID
	tctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	seed := e.seed()

	go func() {
		p, _, err := e.gen.Generate(tctx, seed, d)
		select {
		case e.events <- GameReady{ID: id, Puzzle: p, Err: err}:
		case <-tctx.Done():
		}
	}()
	return id
}

// StartHint begins computing a hint for the current board. The quota
// is checked up front on the control path so an exhausted budget
// fails immediately with the board untouched. The expensive part, a
// consistency proof over the current board, runs in the background.
func (e *Engine) StartHint(ctx context.Context) (uint64, error) {
	if e.session == nil {
		return 0, ErrNoSession
	}
	// A hint task whose context already died will never deliver its
	// completion, so it must not hold the busy flag forever.
	if e.hinting && e.hintCtx != nil && e.hintCtx.Err() == nil {
		return 0, ErrBusy
	}
	if e.session.HintsLeft() <= 0 {
		return 0, hint.ErrQuotaExhausted
	}
	id := e.currentID
	snap := e.session.Board().Clone()
	solution := e.session.Solution()
	budget := e.session.HintsLeft()
	seed := e.seed()
	tctx, cancel := context.WithCancel(ctx)
	e.hintCtx, e.hintCancel = tctx, cancel
	e.hinting = true

	go func() {
		rng := rand.New(rand.NewSource(seed))
		ev := HintReady{ID: id}
		// A board the player has driven into contradiction has no
		// cell worth revealing; surface that instead of a hint.
		if !validator.IsConsistent(snap.Grid()) {
			ev.Err = solver.ErrInvalidBoard
		} else {
			ev.Cell, ev.Value, ev.Err = hint.Pick(snap, solution, budget, rng)
		}
		select {
		case e.events <- ev:
		case <-tctx.Done():
		}
	}()
	return id, nil
}

// Apply is the single completion step for background results. Stale
// events, tagged with a superseded session, are discarded silently.
func (e *Engine) Apply(ev Event) error {
	if ev.SessionID() != e.currentID {
		log.WithFields(logrus.Fields{
			"event":   ev.SessionID(),
			"current": e.currentID,
		}).Debug("dropping stale background result")
		return nil
	}
	switch ev := ev.(type) {
	case GameReady:
		if ev.Err != nil {
			return ev.Err
		}
		e.session = NewSession(ev.ID, ev.Puzzle)
	case HintReady:
		e.hinting = false
		if ev.Err != nil {
			return ev.Err
		}
		if e.session == nil {
			return ErrNoSession
		}
		// The player may have filled the picked cell while the hint
		// was in flight; their move wins and the budget is not spent.
		if e.session.Board().Value(ev.Cell) != board.Empty {
			log.WithFields(logrus.Fields{
				"row": ev.Cell.Row,
				"col": ev.Cell.Col,
			}).Debug("dropping hint for a cell filled in the meantime")
			return nil
		}
		e.session.applyHint(ev.Cell, ev.Value)
	}
	return nil
}

// Solve runs the player-facing solve action: it proves the current
// board still reaches a solution and then reveals the retained one.
// The solver result is only used as the verdict; the board is filled
// from the canonical solution, never from a recomputed grid.
func (e *Engine) Solve(ctx context.Context) error {
	if e.session == nil {
		return ErrNoSession
	}
	if _, _, err := solver.Solve(ctx, e.session.Board().Grid()); err != nil {
		return err
	}
	e.session.RevealSolution()
	return nil
}
