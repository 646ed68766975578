// Package solver implements depth-first backtracking search over a
// 9x9 grid. A single search core serves both solving (first solution)
// and uniqueness proofs (solution counting capped at a limit), with
// candidate ordering either ascending or shuffled by a caller-supplied
// random source.
package solver

import (
	"context"
	"errors"
	"math/bits"
	"math/rand"
	"time"

	"sudoku_core_go/internal/board"
	"sudoku_core_go/internal/validator"
)

var (
	// ErrInvalidBoard means the input already violates Sudoku
	// constraints; the solver never repairs illegal input.
	ErrInvalidBoard = errors.New("board is inconsistent")
	// ErrUnsolvable means the search space was exhausted with no
	// solution found.
	ErrUnsolvable = errors.New("board has no solution")
)

// Stats captures the cost of a search.
type Stats struct {
	Nodes    int
	Duration time.Duration
}

// allMask has bits 1..9 set; bit v means value v is taken.
const allMask = 0x3FE

type search struct {
	ctx      context.Context
	grid     board.Grid
	rng      *rand.Rand // nil means ascending candidate order
	limit    int
	count    int
	nodes    int
	solution board.Grid

	rows  [board.Size]uint16
	cols  [board.Size]uint16
	boxes [board.Size]uint16
}

func newSearch(ctx context.Context, g board.Grid, rng *rand.Rand, limit int) *search {
	s := &search{ctx: ctx, grid: g, rng: rng, limit: limit}
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			if v := g[r][c]; v != board.Empty {
				bit := uint16(1) << v
				s.rows[r] |= bit
				s.cols[c] |= bit
				s.boxes[boxOf(r, c)] |= bit
			}
		}
	}
	return s
}

func boxOf(r, c int) int {
	return (r/board.BoxSize)*board.BoxSize + c/board.BoxSize
}

// next selects the empty cell with the fewest remaining candidates,
// ties broken by row-major position. Returns ok=false when the grid
// is full. The minimum-remaining-values ordering is what keeps hard
// puzzles and generation tractable.
func (s *search) next() (r, c int, candidates uint16, ok bool) {
	best := 10
	for i := 0; i < board.Size; i++ {
		for j := 0; j < board.Size; j++ {
			if s.grid[i][j] != board.Empty {
				continue
			}
			free := ^(s.rows[i] | s.cols[j] | s.boxes[boxOf(i, j)]) & allMask
			n := bits.OnesCount16(free)
			if n < best {
				best, r, c, candidates, ok = n, i, j, free, true
				if n == 0 {
					return
				}
			}
		}
	}
	return
}

func (s *search) place(r, c int, v uint8) {
	bit := uint16(1) << v
	s.grid[r][c] = v
	s.rows[r] |= bit
	s.cols[c] |= bit
	s.boxes[boxOf(r, c)] |= bit
}

func (s *search) unplace(r, c int, v uint8) {
	bit := uint16(1) << v
	s.grid[r][c] = board.Empty
	s.rows[r] &^= bit
	s.cols[c] &^= bit
	s.boxes[boxOf(r, c)] &^= bit
}

// candidateOrder expands the free-value mask into concrete values,
// ascending for deterministic solving or shuffled for generation.
func (s *search) candidateOrder(free uint16) []uint8 {
	vals := make([]uint8, 0, 9)
	for v := uint8(1); v <= 9; v++ {
		if free&(1<<v) != 0 {
			vals = append(vals, v)
		}
	}
	if s.rng != nil {
		s.rng.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
	}
	return vals
}

// dfs returns true when the search should stop: either the solution
// count reached the limit or the context was cancelled.
func (s *search) dfs() bool {
	if s.ctx.Err() != nil {
		return true
	}
	r, c, free, ok := s.next()
	if !ok {
		s.count++
		if s.count == 1 {
			s.solution = s.grid
		}
		return s.count >= s.limit
	}
	for _, v := range s.candidateOrder(free) {
		s.nodes++
		s.place(r, c, v)
		if s.dfs() {
			return true
		}
		s.unplace(r, c, v)
	}
	return false
}

func (s *search) run() (Stats, error) {
	start := time.Now()
	if !validator.IsConsistent(s.grid) {
		return Stats{Duration: time.Since(start)}, ErrInvalidBoard
	}
	s.dfs()
	st := Stats{Nodes: s.nodes, Duration: time.Since(start)}
	if err := s.ctx.Err(); err != nil {
		return st, err
	}
	return st, nil
}

// Solve returns the first solution of g in deterministic (ascending)
// candidate order, or ErrUnsolvable.
func Solve(ctx context.Context, g board.Grid) (board.Grid, Stats, error) {
	return solve(ctx, g, nil)
}

// SolveRandom solves g trying candidates in an order drawn from rng.
// On an empty grid this yields a uniformly shuffled full solution,
// which is how the generator produces fresh boards.
func SolveRandom(ctx context.Context, g board.Grid, rng *rand.Rand) (board.Grid, Stats, error) {
	return solve(ctx, g, rng)
}

func solve(ctx context.Context, g board.Grid, rng *rand.Rand) (board.Grid, Stats, error) {
	s := newSearch(ctx, g, rng, 1)
	st, err := s.run()
	if err != nil {
		return board.Grid{}, st, err
	}
	if s.count == 0 {
		return board.Grid{}, st, ErrUnsolvable
	}
	return s.solution, st, nil
}

// CountSolutions counts solutions of g, stopping early once limit is
// reached. limit=2 is enough to distinguish a unique puzzle from an
// ambiguous one.
func CountSolutions(ctx context.Context, g board.Grid, limit int) (int, Stats, error) {
	if limit < 1 {
		limit = 1
	}
	s := newSearch(ctx, g, nil, limit)
	st, err := s.run()
	if err != nil {
		return 0, st, err
	}
	return s.count, st, nil
}

// IsUnique reports whether g has exactly one solution.
func IsUnique(ctx context.Context, g board.Grid) (bool, Stats, error) {
	n, st, err := CountSolutions(ctx, g, 2)
	return n == 1, st, err
}
