// Package tastelog records how a dog responds to individual ingredients so
// future pantry selections can be refined.
package tastelog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Preference grades a dog's observed response to an ingredient.
type Preference string

const (
	PreferenceDislike Preference = "dislike"
	PreferenceNeutral Preference = "neutral"
	PreferenceLike    Preference = "like"
	PreferenceLove    Preference = "love"
)

// Score maps a preference onto the 0..3 scale used for ranking.
func (p Preference) Score() (int, error) {
	switch p {
	case PreferenceDislike:
		return 0, nil
	case PreferenceNeutral:
		return 1, nil
	case PreferenceLike:
		return 2, nil
	case PreferenceLove:
		return 3, nil
	}
	return 0, fmt.Errorf("unknown preference %q", p)
}

// Valid reports whether p is one of the known preference levels.
func (p Preference) Valid() bool {
	_, err := p.Score()
	return err == nil
}

// Entry is a single taste observation.
type Entry struct {
	ID           string     `json:"id"`
	IngredientID string     `json:"ingredient_id"`
	Preference   Preference `json:"preference"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Summary ranks an ingredient by its average preference score.
type Summary struct {
	IngredientID string  `json:"ingredient_id"`
	Entries      int     `json:"entries"`
	AvgScore     float64 `json:"avg_score"`
}

// Store persists taste entries to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record validates and inserts a taste observation, returning it with its
// assigned ID and timestamp.
func (s *Store) Record(ctx context.Context, ingredientID string, pref Preference, notes string) (*Entry, error) {
	if ingredientID == "" {
		return nil, fmt.Errorf("ingredient id is required")
	}
	score, err := pref.Score()
	if err != nil {
		return nil, err
	}

	e := &Entry{
		ID:           uuid.NewString(),
		IngredientID: ingredientID,
		Preference:   pref,
		Notes:        notes,
		CreatedAt:    time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO taste_entries (id, ingredient_id, preference, score, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.IngredientID, string(e.Preference), score, e.Notes, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record taste entry: %w", err)
	}
	return e, nil
}

// Summaries returns per-ingredient preference averages, best first.
func (s *Store) Summaries(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ingredient_id, count(*), avg(score)
		 FROM taste_entries GROUP BY ingredient_id
		 ORDER BY avg(score) DESC, ingredient_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query taste summaries: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.IngredientID, &sum.Entries, &sum.AvgScore); err != nil {
			return nil, fmt.Errorf("failed to scan taste summary: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// ListRecent returns the most recent observations.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ingredient_id, preference, notes, created_at
		 FROM taste_entries ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list taste entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var pref string
		if err := rows.Scan(&e.ID, &e.IngredientID, &pref, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan taste entry: %w", err)
		}
		e.Preference = Preference(pref)
		out = append(out, e)
	}
	return out, rows.Err()
}
