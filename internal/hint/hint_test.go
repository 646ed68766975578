package hint

import (
	"errors"
	"math/rand"
	"testing"

	"sudoku_core_go/internal/board"
)

func fixture() (*board.Board, board.Grid) {
	var solution board.Grid
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			solution[r][c] = uint8((r*3+r/3+c)%9 + 1)
		}
	}
	givens := solution
	givens[0][0] = board.Empty
	givens[4][4] = board.Empty
	givens[8][8] = board.Empty
	return board.FromGivens(givens), solution
}

func TestPickRevealsSolutionValue(t *testing.T) {
	b, solution := fixture()
	rng := rand.New(rand.NewSource(1))

	cell, v, err := Pick(b, solution, Budget, rng)
	if err != nil {
		t.Fatal(err)
	}
	if b.Value(cell) != board.Empty {
		t.Fatalf("picked an already-filled cell %+v", cell)
	}
	if v != solution[cell.Row][cell.Col] {
		t.Fatalf("revealed %d but solution holds %d at %+v", v, solution[cell.Row][cell.Col], cell)
	}
	// Pick must not mutate.
	if b.Value(cell) != board.Empty || b.Prov(cell) != board.ProvEmpty {
		t.Fatalf("Pick mutated the board")
	}
}

func TestPickQuotaExhausted(t *testing.T) {
	b, solution := fixture()
	_, _, err := Pick(b, solution, 0, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted, got %v", err)
	}
}

func TestPickFullBoard(t *testing.T) {
	var solution board.Grid
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			solution[r][c] = uint8((r*3+r/3+c)%9 + 1)
		}
	}
	full := board.FromGivens(solution)
	_, _, err := Pick(full, solution, Budget, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrNoEmptyCells) {
		t.Fatalf("expected ErrNoEmptyCells, got %v", err)
	}
}
