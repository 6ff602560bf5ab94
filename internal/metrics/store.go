package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PlanningMetric records metadata for a single weekly plan computation.
type PlanningMetric struct {
	DurationMS   int64
	Days         int
	FallbackDays int
	Timestamp    time.Time
}

// Store handles persistence of planning metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m PlanningMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO planning_metrics (duration_ms, days, fallback_days, created_at) VALUES (?, ?, ?, ?)`,
		m.DurationMS, m.Days, m.FallbackDays, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to record planning metric: %w", err)
	}
	return nil
}

// DailyUsage represents planning totals for a single day.
type DailyUsage struct {
	Date          string
	Plans         int
	AvgDurationMS float64
	FallbackDays  int
}

// GetDailyUsage retrieves planning activity for the last N days.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().AddDate(0, 0, -days).UTC()
	rows, err := s.db.QueryContext(ctx,
		`SELECT date(created_at), count(*), avg(duration_ms), sum(fallback_days)
		 FROM planning_metrics WHERE created_at >= ?
		 GROUP BY date(created_at) ORDER BY date(created_at) DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var out []DailyUsage
	for rows.Next() {
		var u DailyUsage
		var avg sql.NullFloat64
		var fallback sql.NullInt64
		if err := rows.Scan(&u.Date, &u.Plans, &avg, &fallback); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		if avg.Valid {
			u.AvgDurationMS = avg.Float64
		}
		if fallback.Valid {
			u.FallbackDays = int(fallback.Int64)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// reports how many rows were removed.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().AddDate(0, 0, -olderThanDays).UTC()
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM planning_metrics WHERE created_at < ?`, threshold,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up planning metrics: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return affected, nil
}
