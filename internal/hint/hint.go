// Package hint selects cells to disclose from the retained solution.
package hint

import (
	"errors"
	"math/rand"

	"sudoku_core_go/internal/board"
)

var (
	// ErrQuotaExhausted is reported when a hint is requested with no
	// budget left. The game continues.
	ErrQuotaExhausted = errors.New("no hints remaining")
	// ErrNoEmptyCells means every cell is already filled.
	ErrNoEmptyCells = errors.New("no empty cells to hint")
)

// Budget is the per-game hint quota.
const Budget = 3

// Pick chooses a random currently-empty cell of b and returns it with
// the value the solution holds there. Filled cells, given or not, are
// never picked. Pick does not mutate the board or the budget; the
// session applies the reveal under its single-writer rule.
func Pick(b *board.Board, solution board.Grid, budget int, rng *rand.Rand) (board.Cell, uint8, error) {
	if budget <= 0 {
		return board.Cell{}, board.Empty, ErrQuotaExhausted
	}
	empties := make([]board.Cell, 0, board.Size*board.Size)
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			cell := board.Cell{Row: r, Col: c}
			if b.Value(cell) == board.Empty {
				empties = append(empties, cell)
			}
		}
	}
	if len(empties) == 0 {
		return board.Cell{}, board.Empty, ErrNoEmptyCells
	}
	cell := empties[rng.Intn(len(empties))]
	return cell, solution[cell.Row][cell.Col], nil
}
