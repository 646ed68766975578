package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"sudoku_core_go/internal/board"
	"sudoku_core_go/internal/generator"
	"sudoku_core_go/internal/solver"
	"sudoku_core_go/internal/store"
	"sudoku_core_go/internal/validator"
	"sudoku_core_go/internal/visualizer"
)

var log = logrus.New()

func main() {
	diffName := flag.String("difficulty", "intermediate", "beginner|intermediate|advanced|expert")
	count := flag.Int("count", 1, "number of puzzles to generate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "base random seed")
	upload := flag.Bool("upload", false, "save generated puzzles to the PocketBase store")
	timeout := flag.Duration("timeout", 30*time.Second, "overall generation deadline")
	level := flag.String("log-level", "info", "debug|info|warn|error")
	flag.Parse()

	if lvl, err := logrus.ParseLevel(*level); err == nil {
		log.SetLevel(lvl)
	}

	diff, err := generator.ParseDifficulty(*diffName)
	if err != nil {
		log.WithError(err).Fatal("bad difficulty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	gen := generator.New()
	start := time.Now()
	puzzles, err := gen.GenerateBatch(ctx, *seed, diff, *count)
	if err != nil {
		log.WithError(err).Fatal("generation failed")
	}
	log.WithFields(logrus.Fields{
		"count":      len(puzzles),
		"difficulty": diff.String(),
		"dur":        time.Since(start).Round(time.Millisecond),
	}).Info("puzzles generated")

	var st *store.Store
	if *upload {
		st, err = store.New()
		if err != nil {
			log.WithError(err).Fatal("store unavailable")
		}
	}

	for i, p := range puzzles {
		fmt.Printf("\nPuzzle %d (%s, %d givens):\n", i+1, p.Difficulty, p.Givens)
		visualizer.New(p.Board).Print()

		if err := verify(ctx, p); err != nil {
			log.WithError(err).Fatal("generated puzzle failed verification")
		}

		data, err := p.ToJSON()
		if err != nil {
			log.WithError(err).Error("failed to serialize puzzle")
			continue
		}
		filename := fmt.Sprintf("sudoku_%s_%d.json", p.Difficulty, i+1)
		if err := os.WriteFile(filename, data, 0644); err != nil {
			log.WithError(err).WithField("file", filename).Error("failed to write puzzle")
			continue
		}
		log.WithField("file", filename).Info("puzzle written")

		if st != nil {
			id, err := st.Save(p)
			if err != nil {
				log.WithError(err).Error("upload failed")
				continue
			}
			log.WithField("id", id).Info("puzzle uploaded")
		}
	}
}

// verify re-proves the generator's invariants: the puzzle has exactly
// one solution and solving it reproduces the retained solution.
func verify(ctx context.Context, p *generator.Puzzle) error {
	if !validator.IsConsistent(p.Solution) || hasEmpty(p.Solution) {
		return fmt.Errorf("retained solution is not a valid full grid")
	}
	unique, _, err := solver.IsUnique(ctx, p.Board.Grid())
	if err != nil {
		return err
	}
	if !unique {
		return fmt.Errorf("puzzle does not have a unique solution")
	}
	solved, _, err := solver.Solve(ctx, p.Board.Grid())
	if err != nil {
		return err
	}
	if solved != p.Solution {
		return fmt.Errorf("solver disagrees with retained solution")
	}
	return nil
}

func hasEmpty(g board.Grid) bool {
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			if g[r][c] == board.Empty {
				return true
			}
		}
	}
	return false
}
