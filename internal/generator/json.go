package generator

import (
	"encoding/json"

	"sudoku_core_go/internal/board"
)

type puzzleJSON struct {
	Board      *board.Board `json:"board"`
	Solution   board.Grid   `json:"solution"`
	Difficulty string       `json:"difficulty"`
	Givens     int          `json:"givens"`
	Seed       int64        `json:"seed,omitempty"`
}

// ToJSON serializes the puzzle, with the difficulty by name.
func (p *Puzzle) ToJSON() ([]byte, error) {
	return json.Marshal(puzzleJSON{
		Board:      p.Board,
		Solution:   p.Solution,
		Difficulty: p.Difficulty.String(),
		Givens:     p.Givens,
		Seed:       p.Seed,
	})
}

// FromJSON deserializes a puzzle written by ToJSON.
func FromJSON(data []byte) (*Puzzle, error) {
	var pj puzzleJSON
	pj.Board = board.New()
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, err
	}
	d, err := ParseDifficulty(pj.Difficulty)
	if err != nil {
		return nil, err
	}
	return &Puzzle{
		Board:      pj.Board,
		Solution:   pj.Solution,
		Difficulty: d,
		Givens:     pj.Givens,
		Seed:       pj.Seed,
	}, nil
}
