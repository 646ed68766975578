// Package game owns the live state of one Sudoku game: the board the
// player edits, the retained solution, the move history and the hint
// budget. All mutation happens on the single control path that owns
// the session; background search never touches it directly (see
// engine.go).
package game

import (
	"encoding/json"
	"fmt"

	"sudoku_core_go/internal/board"
	"sudoku_core_go/internal/generator"
	"sudoku_core_go/internal/hint"
	"sudoku_core_go/internal/validator"
)

// Move records one player action for undo. Entries are immutable
// values; undo pops the most recent and restores the prior state.
type Move struct {
	Cell      board.Cell       `json:"cell"`
	PrevValue uint8            `json:"prevValue"`
	PrevProv  board.Provenance `json:"prevProv"`
	Value     uint8            `json:"value"`
	Prov      board.Provenance `json:"prov"`
}

// Session is a single game: board and solution are created together
// at generation time and replaced together on a new game.
type Session struct {
	id         uint64
	board      *board.Board
	solution   board.Grid
	difficulty generator.Difficulty
	history    []Move
	hintsLeft  int
}

// NewSession starts a game from a generated puzzle.
func NewSession(id uint64, p *generator.Puzzle) *Session {
	return &Session{
		id:         id,
		board:      p.Board.Clone(),
		solution:   p.Solution,
		difficulty: p.Difficulty,
		hintsLeft:  hint.Budget,
	}
}

func (s *Session) ID() uint64 { return s.id }

func (s *Session) Board() *board.Board { return s.board }

func (s *Session) Difficulty() generator.Difficulty { return s.difficulty }

func (s *Session) HintsLeft() int { return s.hintsLeft }

// History returns a copy of the move history, newest last.
func (s *Session) History() []Move { return append([]Move(nil), s.history...) }

// Solution returns a copy of the solved grid. The canonical grid is
// never exposed for mutation.
func (s *Session) Solution() board.Grid { return s.solution }

// ApplyMove writes v at cell c as a player entry, or clears the cell
// when v is the empty value. Given and hint-revealed cells reject the
// move and the board is unchanged. A conflicting value is accepted;
// Validate flags it for the UI. Returns whether the board is now
// complete.
func (s *Session) ApplyMove(c board.Cell, v uint8) (bool, error) {
	if !c.InBounds() {
		return false, fmt.Errorf("%w: (%d,%d)", board.ErrOutOfBounds, c.Row, c.Col)
	}
	prevVal, prevProv := s.board.Value(c), s.board.Prov(c)
	prov := board.ProvPlayer
	if v == board.Empty {
		prov = board.ProvEmpty
	}
	if err := s.board.Place(c, v, prov); err != nil {
		return false, err
	}
	s.history = append(s.history, Move{
		Cell: c, PrevValue: prevVal, PrevProv: prevProv, Value: v, Prov: prov,
	})
	return s.IsComplete(), nil
}

// Undo reverts the most recent move and reports it. A no-op returning
// ok=false when the history is empty.
func (s *Session) Undo() (Move, bool) {
	if len(s.history) == 0 {
		return Move{}, false
	}
	m := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.board.Set(m.Cell, m.PrevValue, m.PrevProv)
	return m, true
}

// Validate returns the cells currently in conflict.
func (s *Session) Validate() []board.Cell {
	return validator.Conflicts(s.board)
}

// IsComplete reports whether the board is full and conflict-free.
func (s *Session) IsComplete() bool {
	return validator.IsComplete(s.board)
}

// Reset keeps the givens and the solution but clears every player and
// hint cell, the history, and restores the hint budget.
func (s *Session) Reset() {
	s.board.ClearNonGivens()
	s.history = nil
	s.hintsLeft = hint.Budget
}

// RevealSolution fills the whole board from the retained solution,
// marking revealed cells like hints so they stay locked. History is
// cleared; there is nothing left to undo to.
func (s *Session) RevealSolution() {
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			cell := board.Cell{Row: r, Col: c}
			if s.board.Prov(cell) != board.ProvGiven {
				s.board.Set(cell, s.solution[r][c], board.ProvHint)
			}
		}
	}
	s.history = nil
}

// applyHint is the completion step for a hint task.
func (s *Session) applyHint(c board.Cell, v uint8) {
	s.board.Set(c, v, board.ProvHint)
	s.hintsLeft--
}

// snapshot is the opaque serialized form handed to the UI layer for
// save/resume. The wire format is owned here, not by the UI.
type snapshot struct {
	ID         uint64       `json:"id"`
	Board      *board.Board `json:"board"`
	Solution   board.Grid   `json:"solution"`
	Difficulty string       `json:"difficulty"`
	History    []Move       `json:"history,omitempty"`
	HintsLeft  int          `json:"hintsLeft"`
}

// Snapshot serializes the session.
func (s *Session) Snapshot() ([]byte, error) {
	return json.Marshal(snapshot{
		ID:         s.id,
		Board:      s.board,
		Solution:   s.solution,
		Difficulty: s.difficulty.String(),
		History:    s.history,
		HintsLeft:  s.hintsLeft,
	})
}

// Restore rebuilds a session from Snapshot output.
func Restore(data []byte) (*Session, error) {
	var snap snapshot
	snap.Board = board.New()
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	d, err := generator.ParseDifficulty(snap.Difficulty)
	if err != nil {
		return nil, err
	}
	return &Session{
		id:         snap.ID,
		board:      snap.Board,
		solution:   snap.Solution,
		difficulty: d,
		history:    snap.History,
		hintsLeft:  snap.HintsLeft,
	}, nil
}
