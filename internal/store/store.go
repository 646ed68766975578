// Package store persists generated puzzles in a PocketBase
// collection so clients can fetch pre-generated boards by difficulty
// instead of waiting on a dig.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/duke-git/lancet/v2/random"
	"github.com/duke-git/lancet/v2/slice"
	"github.com/habibrosyad/pocketbase-go-sdk"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"sudoku_core_go/internal/generator"
)

var log = logrus.New()

const collection = "puzzles"

// Store wraps the PocketBase client.
type Store struct {
	client *pocketbase.Client
}

// New builds a store from the environment: POCKETBASE_URL,
// POCKETBASE_EMAIL, POCKETBASE_PASSWORD. A .env file is honored when
// present.
func New() (*Store, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, relying on process env")
	}
	url := os.Getenv("POCKETBASE_URL")
	if url == "" {
		return nil, fmt.Errorf("POCKETBASE_URL is not set")
	}
	client := pocketbase.NewClient(url,
		pocketbase.WithSuperuserEmailPassword(
			os.Getenv("POCKETBASE_EMAIL"),
			os.Getenv("POCKETBASE_PASSWORD"),
		))
	if err := client.Authorize(); err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	return &Store{client: client}, nil
}

// StartReauth keeps the session fresh by re-authorizing on a ticker.
func (s *Store) StartReauth(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		for range ticker.C {
			if err := s.client.Authorize(); err != nil {
				log.WithError(err).Warn("re-authentication failed")
			}
		}
	}()
}

// Save uploads a puzzle under a fresh 6-char ID and returns the ID.
func (s *Store) Save(p *generator.Puzzle) (string, error) {
	payload, err := p.ToJSON()
	if err != nil {
		return "", fmt.Errorf("failed to marshal puzzle: %w", err)
	}

	// IDs in the collection are capped at 6 characters; retry on the
	// off chance of a collision.
	var id string
	for attempt := 0; attempt < 5; attempt++ {
		id = strings.ToLower(random.RandString(6))
		exists, err := s.Exists(id)
		if err != nil {
			return "", err
		}
		if !exists {
			break
		}
		id = ""
	}
	if id == "" {
		return "", fmt.Errorf("could not allocate a free puzzle ID")
	}

	data := map[string]any{
		"id":         id,
		"puzzle":     string(payload),
		"difficulty": p.Difficulty.String(),
		"givens":     p.Givens,
	}
	if _, err := s.client.Create(collection, data); err != nil {
		return "", fmt.Errorf("failed to upload puzzle: %w", err)
	}
	log.WithFields(logrus.Fields{
		"id":         id,
		"difficulty": p.Difficulty.String(),
		"givens":     p.Givens,
	}).Info("puzzle saved")
	return id, nil
}

// Load fetches a puzzle by ID.
func (s *Store) Load(id string) (*generator.Puzzle, error) {
	record, err := s.client.One(collection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load puzzle %s: %w", id, err)
	}
	raw, ok := record["puzzle"].(string)
	if !ok {
		return nil, fmt.Errorf("puzzle %s has no payload", id)
	}
	p, err := generator.FromJSON([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal puzzle %s: %w", id, err)
	}
	return p, nil
}

// Meta is a listing entry.
type Meta struct {
	ID         string `json:"id"`
	Difficulty string `json:"difficulty"`
	Givens     int    `json:"givens"`
	Created    string `json:"created"`
}

var difficultyNames = []string{"beginner", "intermediate", "advanced", "expert"}

// List pages through stored puzzles, optionally filtered by
// difficulty name and sorted by creation time.
func (s *Store) List(page, perPage int, difficulty string) ([]Meta, error) {
	var filters string
	if difficulty != "" {
		if !slice.Contain(difficultyNames, difficulty) {
			return nil, fmt.Errorf("unknown difficulty %q", difficulty)
		}
		filters = fmt.Sprintf("difficulty = %q", difficulty)
	}

	result, err := s.client.List(collection, pocketbase.ParamsList{
		Page:    page,
		Size:    perPage,
		Sort:    "-created",
		Filters: filters,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list puzzles: %w", err)
	}

	metas := make([]Meta, 0, len(result.Items))
	for _, item := range result.Items {
		raw, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var m Meta
		if err := json.Unmarshal(raw, &m); err != nil || m.ID == "" {
			continue
		}
		metas = append(metas, m)
	}
	return metas, nil
}

// Exists reports whether a puzzle with the given ID is stored.
func (s *Store) Exists(id string) (bool, error) {
	_, err := s.client.One(collection, id)
	if err != nil {
		if strings.Contains(err.Error(), "404") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
