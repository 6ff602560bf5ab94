package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StoredPlan is the repository's listing view of a persisted plan.
type StoredPlan struct {
	ID        string
	CreatedAt time.Time
}

// PlanRepository persists computed weekly plans as JSON blobs in SQLite.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Save assigns the plan an ID and creation time if it has none, then inserts
// it. The stored row is immutable; a recomputation stores a fresh plan.
func (r *PlanRepository) Save(ctx context.Context, plan *WeeklyPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (id, created_at, data) VALUES (?, ?, ?)`,
		plan.ID, plan.CreatedAt, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan %s: %w", plan.ID, err)
	}
	return nil
}

// Get retrieves a stored plan by ID. Returns (nil, nil) when absent.
func (r *PlanRepository) Get(ctx context.Context, id string) (*WeeklyPlan, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM meal_plans WHERE id = ?`, id,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan %s: %w", id, err)
	}

	var plan WeeklyPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan %s: %w", id, err)
	}
	return &plan, nil
}

// ListRecent returns metadata for the most recently stored plans.
func (r *PlanRepository) ListRecent(ctx context.Context, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM meal_plans ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var out []StoredPlan
	for rows.Next() {
		var sp StoredPlan
		if err := rows.Scan(&sp.ID, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}
