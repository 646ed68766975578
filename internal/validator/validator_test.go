package validator

import (
	"testing"

	"sudoku_core_go/internal/board"
)

// solvedGrid builds a valid full grid from the standard shift
// pattern: value(r,c) = (r*3 + r/3 + c) mod 9 + 1.
func solvedGrid() board.Grid {
	var g board.Grid
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			g[r][c] = uint8((r*3+r/3+c)%9 + 1)
		}
	}
	return g
}

func TestConflictsReportsBothEndpoints(t *testing.T) {
	b := board.New()
	if err := b.Place(board.Cell{Row: 0, Col: 0}, 1, board.ProvPlayer); err != nil {
		t.Fatal(err)
	}
	if err := b.Place(board.Cell{Row: 0, Col: 3}, 1, board.ProvPlayer); err != nil {
		t.Fatal(err)
	}
	conf := Conflicts(b)
	if len(conf) != 2 {
		t.Fatalf("expected both endpoints reported, got %v", conf)
	}
	want := map[board.Cell]bool{{Row: 0, Col: 0}: true, {Row: 0, Col: 3}: true}
	for _, c := range conf {
		if !want[c] {
			t.Fatalf("unexpected conflict cell %+v", c)
		}
	}
}

func TestConflictsBoxAndColumn(t *testing.T) {
	b := board.New()
	// same box, different row and column
	b.Set(board.Cell{Row: 0, Col: 0}, 7, board.ProvPlayer)
	b.Set(board.Cell{Row: 1, Col: 1}, 7, board.ProvPlayer)
	// same column, far apart
	b.Set(board.Cell{Row: 8, Col: 4}, 2, board.ProvPlayer)
	b.Set(board.Cell{Row: 0, Col: 4}, 2, board.ProvPlayer)

	conf := Conflicts(b)
	if len(conf) != 4 {
		t.Fatalf("expected 4 conflicting cells, got %v", conf)
	}
}

func TestConflictsIdempotent(t *testing.T) {
	b := board.New()
	b.Set(board.Cell{Row: 2, Col: 2}, 5, board.ProvPlayer)
	b.Set(board.Cell{Row: 2, Col: 7}, 5, board.ProvPlayer)

	first := Conflicts(b)
	second := Conflicts(b)
	if len(first) != len(second) {
		t.Fatalf("conflict set changed between calls: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("conflict order changed between calls: %v vs %v", first, second)
		}
	}
}

func TestIsLegalPlacementMatchesConflicts(t *testing.T) {
	b := board.New()
	b.Set(board.Cell{Row: 4, Col: 0}, 6, board.ProvPlayer)
	cell := board.Cell{Row: 4, Col: 8}

	for v := uint8(1); v <= 9; v++ {
		legal := IsLegalPlacement(b, cell, v)

		probe := b.Clone()
		probe.Set(cell, v, board.ProvPlayer)
		inConflict := false
		for _, c := range Conflicts(probe) {
			if c == cell {
				inConflict = true
			}
		}
		if legal == inConflict {
			t.Fatalf("value %d: IsLegalPlacement=%v but conflict after placing=%v", v, legal, inConflict)
		}
	}
}

func TestIsComplete(t *testing.T) {
	full := solvedGrid()
	b := board.FromGivens(full)
	if !IsComplete(b) {
		t.Fatalf("valid full grid must be complete")
	}

	// full but invalid: swap two cells in the same row
	bad := full
	bad[0][0], bad[0][1] = bad[0][1], bad[0][0]
	bad[1][0] = bad[0][0] // force a column duplicate
	bb := board.FromGivens(bad)
	if IsComplete(bb) {
		t.Fatalf("a full board with conflicts is not complete")
	}

	// incomplete
	partial := full
	partial[8][8] = board.Empty
	if IsComplete(board.FromGivens(partial)) {
		t.Fatalf("board with an empty cell is not complete")
	}
}
