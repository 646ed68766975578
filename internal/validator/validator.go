package validator

import (
	"sudoku_core_go/internal/board"
)

// IsLegalPlacement reports whether value v could be placed at cell c
// without clashing with any peer. The cell's own current value is
// ignored. Pure check, no mutation.
func IsLegalPlacement(b *board.Board, c board.Cell, v uint8) bool {
	if v == board.Empty || v > 9 {
		return false
	}
	for _, p := range board.Peers(c) {
		if b.Value(p) == v {
			return false
		}
	}
	return true
}

// Conflicts returns every cell whose value is duplicated somewhere in
// its row, column or box. Both endpoints of a conflicting pair are
// reported so the UI can highlight them symmetrically. The result is
// in row-major order and stable across repeated calls on an
// unmodified board.
func Conflicts(b *board.Board) []board.Cell {
	return GridConflicts(b.Grid())
}

// GridConflicts is Conflicts over a bare value grid.
func GridConflicts(g board.Grid) []board.Cell {
	var flagged [board.Size][board.Size]bool

	// one pass per unit kind; positions[v] collects cells holding v
	mark := func(cells []board.Cell) {
		var positions [10][]board.Cell
		for _, c := range cells {
			v := g[c.Row][c.Col]
			if v == board.Empty {
				continue
			}
			positions[v] = append(positions[v], c)
		}
		for v := 1; v <= 9; v++ {
			if len(positions[v]) > 1 {
				for _, c := range positions[v] {
					flagged[c.Row][c.Col] = true
				}
			}
		}
	}

	unit := make([]board.Cell, board.Size)
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			unit[c] = board.Cell{Row: r, Col: c}
		}
		mark(unit)
	}
	for c := 0; c < board.Size; c++ {
		for r := 0; r < board.Size; r++ {
			unit[r] = board.Cell{Row: r, Col: c}
		}
		mark(unit)
	}
	for br := 0; br < board.Size; br += board.BoxSize {
		for bc := 0; bc < board.Size; bc += board.BoxSize {
			i := 0
			for dr := 0; dr < board.BoxSize; dr++ {
				for dc := 0; dc < board.BoxSize; dc++ {
					unit[i] = board.Cell{Row: br + dr, Col: bc + dc}
					i++
				}
			}
			mark(unit)
		}
	}

	var out []board.Cell
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			if flagged[r][c] {
				out = append(out, board.Cell{Row: r, Col: c})
			}
		}
	}
	return out
}

// IsConsistent reports whether the grid has no duplicate values in any
// unit. Empty cells are ignored.
func IsConsistent(g board.Grid) bool {
	return len(GridConflicts(g)) == 0
}

// IsComplete reports whether the board is fully filled and free of
// conflicts. A full board can still be invalid, both conditions are
// checked.
func IsComplete(b *board.Board) bool {
	return b.Empties() == 0 && len(Conflicts(b)) == 0
}
