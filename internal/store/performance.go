package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abhisek/examprep/internal/performance"
)

var performanceColumns = []string{
	"id", "session_id", "subject", "score", "total_questions", "completed_at",
}

// PerformanceRepo is the SQLite-backed performance.Store. Records are
// append-only and listed in sequence order.
type PerformanceRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var _ performance.Store = (*PerformanceRepo)(nil)

func (r *PerformanceRepo) Append(ctx context.Context, rec performance.Record) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := sqlite().Insert(performanceTable).
		Columns("sequence", "session_id", "subject", "score", "total_questions", "completed_at").
		Values(seqNum, rec.SessionID, rec.Subject, rec.Score, rec.TotalQuestions, formatTime(rec.CompletedAt)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save performance record: %w", err)
	}
	return nil
}

func (r *PerformanceRepo) List(ctx context.Context) ([]performance.Record, error) {
	b := sqlite()
	query, args := b.Select(performanceColumns...).
		From(b.Table(performanceTable)).
		OrderBy("sequence").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query performance records: %w", err)
	}
	defer rows.Close()

	var out []performance.Record
	for rows.Next() {
		var rec performance.Record
		var completed string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Subject, &rec.Score, &rec.TotalQuestions, &completed); err != nil {
			return nil, fmt.Errorf("scan performance record: %w", err)
		}
		if rec.CompletedAt, err = parseTime(completed); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate performance records: %w", err)
	}
	return out, nil
}

// Reset deletes every performance record. Only the CLI reset command
// calls this.
func (r *PerformanceRepo) Reset(ctx context.Context) error {
	query, args := sqlite().Delete(performanceTable).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete performance records: %w", err)
	}
	return nil
}
