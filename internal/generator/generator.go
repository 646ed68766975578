// Package generator produces uniquely solvable 9x9 puzzles at a
// requested difficulty. Generation is two-phase: fill an empty grid
// into a random full solution, then dig clues out while a
// count-capped solver run proves the remainder still has exactly one
// solution.
package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"sudoku_core_go/internal/board"
	"sudoku_core_go/internal/solver"
)

var log = logrus.New()

// Difficulty names a clue-count profile. Higher difficulty means
// fewer givens.
type Difficulty int

const (
	Beginner Difficulty = iota
	Intermediate
	Advanced
	Expert
)

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Advanced:
		return "advanced"
	case Expert:
		return "expert"
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

// ParseDifficulty maps a level name to its Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Beginner; d <= Expert; d++ {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// Profile is the given-count range targeted for one difficulty. The
// target for a single puzzle is drawn uniformly from [MinGivens,
// MaxGivens]; it is a soft goal, digging stops early when no further
// removal keeps the puzzle unique.
type Profile struct {
	MinGivens int
	MaxGivens int
}

// DefaultProfiles mirror the empty-square ranges of the desktop game
// (35-40, 41-49, 50-58, 59-64 empties) expressed as givens.
var DefaultProfiles = map[Difficulty]Profile{
	Beginner:     {MinGivens: 41, MaxGivens: 46},
	Intermediate: {MinGivens: 32, MaxGivens: 40},
	Advanced:     {MinGivens: 23, MaxGivens: 31},
	Expert:       {MinGivens: 17, MaxGivens: 22},
}

// Puzzle is a generated board plus the solution it was dug from. The
// solution is the phase-1 grid, retained rather than recomputed, and
// is the unique solution of Board.
type Puzzle struct {
	Board      *board.Board
	Solution   board.Grid
	Difficulty Difficulty
	Givens     int
	Seed       int64
}

// Generator creates puzzles at the difficulties its profile table
// covers.
type Generator struct {
	profiles map[Difficulty]Profile
}

func New() *Generator {
	return &Generator{profiles: DefaultProfiles}
}

// WithProfiles overrides the difficulty table, for tuning or tests.
func (g *Generator) WithProfiles(p map[Difficulty]Profile) *Generator {
	g.profiles = p
	return g
}

// Profile returns the clue-count range for d.
func (g *Generator) Profile(d Difficulty) (Profile, error) {
	p, ok := g.profiles[d]
	if !ok {
		return Profile{}, fmt.Errorf("no profile for %v", d)
	}
	if p.MinGivens < 17 || p.MaxGivens > 81 || p.MinGivens > p.MaxGivens {
		return Profile{}, fmt.Errorf("invalid profile for %v: %+v", d, p)
	}
	return p, nil
}

// Generate builds one puzzle from the given seed. Identical seed and
// difficulty produce identical puzzles.
func (g *Generator) Generate(ctx context.Context, seed int64, d Difficulty) (*Puzzle, solver.Stats, error) {
	start := time.Now()
	prof, err := g.Profile(d)
	if err != nil {
		return nil, solver.Stats{}, err
	}
	rng := rand.New(rand.NewSource(seed))

	// Phase 1: an empty grid always has solutions, so a randomized
	// solve cannot fail short of cancellation.
	full, st, err := solver.SolveRandom(ctx, board.Grid{}, rng)
	if err != nil {
		return nil, st, fmt.Errorf("fill: %w", err)
	}
	nodes := st.Nodes

	// Phase 2: dig. Each cell is attempted at most once, in a
	// shuffled order; a removal that breaks uniqueness is restored
	// and never retried.
	target := prof.MinGivens + rng.Intn(prof.MaxGivens-prof.MinGivens+1)
	puz := full
	givens := board.Size * board.Size
	for _, pos := range rng.Perm(board.Size * board.Size) {
		if givens <= target {
			break
		}
		if ctx.Err() != nil {
			return nil, solver.Stats{Nodes: nodes, Duration: time.Since(start)}, ctx.Err()
		}
		r, c := pos/board.Size, pos%board.Size
		old := puz[r][c]
		puz[r][c] = board.Empty
		unique, st, err := solver.IsUnique(ctx, puz)
		nodes += st.Nodes
		if err != nil {
			return nil, solver.Stats{Nodes: nodes, Duration: time.Since(start)}, err
		}
		if unique {
			givens--
		} else {
			puz[r][c] = old
		}
	}

	if givens > target {
		log.WithFields(logrus.Fields{
			"difficulty": d.String(),
			"target":     target,
			"givens":     givens,
		}).Warn("dig stopped short of target, keeping denser puzzle")
	}

	p := &Puzzle{
		Board:      board.FromGivens(puz),
		Solution:   full,
		Difficulty: d,
		Givens:     givens,
		Seed:       seed,
	}
	stats := solver.Stats{Nodes: nodes, Duration: time.Since(start)}
	log.WithFields(logrus.Fields{
		"difficulty": d.String(),
		"givens":     givens,
		"nodes":      stats.Nodes,
		"dur":        stats.Duration.Round(time.Millisecond),
	}).Debug("puzzle generated")
	return p, stats, nil
}

// GenerateBatch produces count puzzles concurrently, one worker per
// CPU, deriving per-puzzle seeds from the base seed. Used to pre-seed
// the store.
func (g *Generator) GenerateBatch(ctx context.Context, seed int64, d Difficulty, count int) ([]*Puzzle, error) {
	if count < 1 {
		return nil, errors.New("count must be positive")
	}
	puzzles := make([]*Puzzle, count)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for i := 0; i < count; i++ {
		eg.Go(func() error {
			p, _, err := g.Generate(ctx, seed+int64(i), d)
			if err != nil {
				return err
			}
			puzzles[i] = p
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return puzzles, nil
}
