// Package performance keeps the append-only history of completed quizzes
// and derives the averages shown on the performance dashboard.
package performance

import (
	"context"
	"math"
	"time"
)

// Record is the outcome of one completed quiz.
type Record struct {
	ID             int64
	SessionID      string
	Subject        string
	Score          int
	TotalQuestions int
	CompletedAt    time.Time
}

// Percentage returns the unrounded score percentage of the record.
func (r Record) Percentage() float64 {
	return Ratio(r.Score, r.TotalQuestions) * 100
}

// Appender accepts completed quiz records.
type Appender interface {
	Append(ctx context.Context, rec Record) error
}

// Store is an append-only performance history.
type Store interface {
	Appender

	// List returns every record in append order.
	List(ctx context.Context) ([]Record, error)

	// Reset wipes the history.
	Reset(ctx context.Context) error
}

// Ratio returns score/total, or 0 when total is not positive.
func Ratio(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total)
}

// Percentage returns score/total*100 rounded half away from zero.
func Percentage(score, total int) int {
	return Round(Ratio(score, total) * 100)
}

// Round rounds half away from zero.
func Round(v float64) int {
	return int(math.Round(v))
}
