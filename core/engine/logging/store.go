package logging

import (
	"context"
	"time"

	"github.com/kilianp07/sitepower/core/model"
)

// Query defines filters for retrieving decision records. The zero Source
// matches every record.
type Query struct {
	Start  time.Time
	End    time.Time
	Source model.Source
}

// Store persists decision records append-only and supports range queries.
// Records are never mutated after Append; the dashboard layer reads them
// through Query.
type Store interface {
	Append(ctx context.Context, rec model.DecisionRecord) error
	Query(ctx context.Context, q Query) ([]model.DecisionRecord, error)
	Close() error
}

func matches(rec model.DecisionRecord, q Query) bool {
	if !q.Start.IsZero() && rec.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && rec.Timestamp.After(q.End) {
		return false
	}
	if q.Source != 0 && rec.Allocation.PowerFor(q.Source) == 0 {
		return false
	}
	return true
}
