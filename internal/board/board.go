package board

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Size is the board edge length; boxes are BoxSize x BoxSize.
const (
	Size    = 9
	BoxSize = 3
)

// Empty marks a cell with no value. Valid values are 1..9.
const Empty uint8 = 0

// Provenance records how a cell got its value.
type Provenance uint8

const (
	ProvEmpty Provenance = iota
	ProvGiven
	ProvPlayer
	ProvHint
)

func (p Provenance) String() string {
	switch p {
	case ProvGiven:
		return "given"
	case ProvPlayer:
		return "player"
	case ProvHint:
		return "hint"
	default:
		return "empty"
	}
}

// Cell identifies a position on the board.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Box returns the index (0-8) of the 3x3 box containing the cell.
func (c Cell) Box() int {
	return (c.Row/BoxSize)*BoxSize + c.Col/BoxSize
}

// InBounds reports whether the cell lies on a 9x9 board.
func (c Cell) InBounds() bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

// Grid is a bare 9x9 value grid with no provenance, used by the
// solver and generator as their private working state.
type Grid [Size][Size]uint8

var (
	ErrOutOfBounds = errors.New("cell out of bounds")
	ErrBadValue    = errors.New("value must be 1-9 or empty")
	ErrFixedCell   = errors.New("cell is fixed and cannot be changed")
)

// Board is a 9x9 grid of values plus per-cell provenance. Given cells
// are immutable after construction; hint-revealed cells are locked the
// same way once placed.
type Board struct {
	values Grid
	prov   [Size][Size]Provenance
}

// New returns an empty board.
func New() *Board { return &Board{} }

// FromGivens builds a board whose non-empty cells are all givens.
func FromGivens(g Grid) *Board {
	b := &Board{values: g}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if g[r][c] != Empty {
				b.prov[r][c] = ProvGiven
			}
		}
	}
	return b
}

// Value returns the value at cell c, or Empty.
func (b *Board) Value(c Cell) uint8 {
	return b.values[c.Row][c.Col]
}

// Prov returns the provenance of cell c.
func (b *Board) Prov(c Cell) Provenance {
	return b.prov[c.Row][c.Col]
}

// Grid returns a copy of the raw values.
func (b *Board) Grid() Grid { return b.values }

// Place writes value v with provenance p at cell c. Given and
// hint-revealed cells reject any write. Clearing a cell is Place with
// the Empty value and ProvEmpty.
func (b *Board) Place(c Cell, v uint8, p Provenance) error {
	if !c.InBounds() {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, c.Row, c.Col)
	}
	if v > 9 {
		return fmt.Errorf("%w: %d", ErrBadValue, v)
	}
	if (v == Empty) != (p == ProvEmpty) {
		return fmt.Errorf("%w: value %d with provenance %s", ErrBadValue, v, p)
	}
	switch b.prov[c.Row][c.Col] {
	case ProvGiven, ProvHint:
		return fmt.Errorf("%w: (%d,%d) is %s", ErrFixedCell, c.Row, c.Col, b.prov[c.Row][c.Col])
	}
	b.values[c.Row][c.Col] = v
	b.prov[c.Row][c.Col] = p
	return nil
}

// Set writes without the fixed-cell check. The session uses it when
// undoing a move or applying a hint result.
func (b *Board) Set(c Cell, v uint8, p Provenance) {
	b.values[c.Row][c.Col] = v
	b.prov[c.Row][c.Col] = p
}

// Empties returns the number of empty cells.
func (b *Board) Empties() int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.values[r][c] == Empty {
				n++
			}
		}
	}
	return n
}

// Givens returns the number of given cells.
func (b *Board) Givens() int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.prov[r][c] == ProvGiven {
				n++
			}
		}
	}
	return n
}

// ClearNonGivens resets every player and hint cell back to empty,
// leaving the givens untouched.
func (b *Board) ClearNonGivens() {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.prov[r][c] != ProvGiven {
				b.values[r][c] = Empty
				b.prov[r][c] = ProvEmpty
			}
		}
	}
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	cp := *b
	return &cp
}

// Peers returns the 20 cells sharing a row, column or box with c,
// excluding c itself, in row-major order.
func Peers(c Cell) []Cell {
	peers := make([]Cell, 0, 20)
	seen := [Size][Size]bool{}
	seen[c.Row][c.Col] = true
	add := func(p Cell) {
		if !seen[p.Row][p.Col] {
			seen[p.Row][p.Col] = true
			peers = append(peers, p)
		}
	}
	br, bc := (c.Row/BoxSize)*BoxSize, (c.Col/BoxSize)*BoxSize
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			if r == c.Row || col == c.Col || (r >= br && r < br+BoxSize && col >= bc && col < bc+BoxSize) {
				add(Cell{Row: r, Col: col})
			}
		}
	}
	return peers
}

// boardJSON is the serialized form consumed by the session layer.
type boardJSON struct {
	Values [Size][Size]uint8      `json:"values"`
	Prov   [Size][Size]Provenance `json:"prov"`
}

func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{Values: b.values, Prov: b.prov})
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var bj boardJSON
	if err := json.Unmarshal(data, &bj); err != nil {
		return err
	}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if bj.Values[r][c] > 9 {
				return fmt.Errorf("%w: %d at (%d,%d)", ErrBadValue, bj.Values[r][c], r, c)
			}
			if bj.Prov[r][c] > ProvHint {
				return fmt.Errorf("%w: provenance %d at (%d,%d)", ErrBadValue, bj.Prov[r][c], r, c)
			}
		}
	}
	b.values = bj.Values
	b.prov = bj.Prov
	return nil
}
