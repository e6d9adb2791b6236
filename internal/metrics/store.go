// Package metrics records search outcomes and reports system health.
package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"grocery-planner/internal/database"
	"grocery-planner/internal/shared"
)

// SearchMetric records metadata for a single product search.
type SearchMetric struct {
	Term      string
	Outcome   shared.SearchOutcome
	Results   int
	LatencyMS int64
	Timestamp time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m SearchMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_metrics (term, outcome, results, latency_ms, timestamp) VALUES (?, ?, ?, ?, ?)`,
		m.Term, string(m.Outcome), m.Results, m.LatencyMS, database.FormatTime(ts))
	if err != nil {
		return fmt.Errorf("failed to insert search metric: %w", err)
	}
	return nil
}

// RecordSearch records metrics directly from shared.SearchMeta. It
// implements catalog.Recorder.
func (s *Store) RecordSearch(meta shared.SearchMeta) error {
	return s.Record(context.Background(), MapMeta(meta))
}

// DailyUsage holds search totals for a single day.
type DailyUsage struct {
	Date         string
	Searches     int
	Catalog      int
	Lookup       int
	Synthesized  int
	AvgLatencyMS float64
}

// GetDailyUsage retrieves usage for the last N days, most recent first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := database.FormatTime(s.now().AddDate(0, 0, -days))
	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(timestamp, 1, 10) AS day,
		       COUNT(*),
		       SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		       SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		       SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		       AVG(latency_ms)
		FROM search_metrics
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day DESC`,
		string(shared.OutcomeCatalog), string(shared.OutcomeLookup), string(shared.OutcomeSynthesized), since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		var avg sql.NullFloat64
		if err := rows.Scan(&u.Date, &u.Searches, &u.Catalog, &u.Lookup, &u.Synthesized, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		u.AvgLatencyMS = avg.Float64
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := database.FormatTime(s.now().AddDate(0, 0, -olderThanDays))
	res, err := s.db.ExecContext(ctx, `DELETE FROM search_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up search metrics: %w", err)
	}
	return res.RowsAffected()
}

// MapMeta converts shared.SearchMeta to a SearchMetric.
func MapMeta(meta shared.SearchMeta) SearchMetric {
	return SearchMetric{
		Term:      meta.Term,
		Outcome:   meta.Outcome,
		Results:   meta.Results,
		LatencyMS: meta.Latency.Milliseconds(),
	}
}
