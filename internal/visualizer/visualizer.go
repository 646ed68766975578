// Package visualizer renders boards for the console demo. Givens
// print as plain digits, player entries in parentheses, hint reveals
// in brackets, empty cells as a dot.
package visualizer

import (
	"fmt"
	"strings"

	"sudoku_core_go/internal/board"
)

type Visualizer struct {
	b *board.Board
}

func New(b *board.Board) *Visualizer {
	return &Visualizer{b: b}
}

func cellGlyph(v uint8, p board.Provenance) string {
	switch p {
	case board.ProvGiven:
		return fmt.Sprintf(" %d ", v)
	case board.ProvPlayer:
		return fmt.Sprintf("(%d)", v)
	case board.ProvHint:
		return fmt.Sprintf("[%d]", v)
	default:
		return " · "
	}
}

// Render returns the board as a box-drawn string.
func (v *Visualizer) Render() string {
	var sb strings.Builder
	segment := strings.Repeat("─", board.BoxSize*4+1)
	top := "┌" + segment + "┬" + segment + "┬" + segment + "┐"
	mid := "├" + segment + "┼" + segment + "┼" + segment + "┤"
	bottom := "└" + segment + "┴" + segment + "┴" + segment + "┘"

	sb.WriteString(top + "\n")
	for r := 0; r < board.Size; r++ {
		sb.WriteString("│")
		for c := 0; c < board.Size; c++ {
			cell := board.Cell{Row: r, Col: c}
			sb.WriteString(" " + cellGlyph(v.b.Value(cell), v.b.Prov(cell)))
			if (c+1)%board.BoxSize == 0 {
				sb.WriteString(" │")
			}
		}
		sb.WriteString("\n")
		if (r+1)%board.BoxSize == 0 && r < board.Size-1 {
			sb.WriteString(mid + "\n")
		}
	}
	sb.WriteString(bottom + "\n")
	return sb.String()
}

// RenderGrid renders a bare value grid, as used for solutions.
func RenderGrid(g board.Grid) string {
	return New(board.FromGivens(g)).Render()
}

// Print writes the rendering to stdout.
func (v *Visualizer) Print() {
	fmt.Print(v.Render())
}
