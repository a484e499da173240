package timeline

import (
	"time"

	"github.com/couchcryptid/carbon-intensity-service/internal/domain"
)

// Range names a relative time window ending at "now".
type Range string

const (
	RangeLast72h  Range = "72h"
	RangeLast3Mo  Range = "3mo"
	RangeLast12Mo Range = "12mo"
	RangeAll      Range = "all"
)

// Valid reports whether r is one of the named ranges.
func (r Range) Valid() bool {
	switch r {
	case RangeLast72h, RangeLast3Mo, RangeLast12Mo, RangeAll:
		return true
	}
	return false
}

// Start computes the window's lower bound relative to now. The 72h window
// is a fixed duration; the month and year windows are calendar offsets,
// so "3mo" from March 31 lands on the normalized calendar date the same
// way time.AddDate does. ok=false for RangeAll, which has no lower bound.
func (r Range) Start(now time.Time) (time.Time, bool) {
	switch r {
	case RangeLast72h:
		return now.Add(-72 * time.Hour), true
	case RangeLast3Mo:
		return now.AddDate(0, -3, 0), true
	case RangeLast12Mo:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// FilterByRange returns the records whose instants fall inside the window
// [start, ∞) for the named range, preserving dataset order. "all" returns
// the input slice unchanged. Pure function: no hidden state, safe to call
// repeatedly as the user switches ranges or live time advances.
func FilterByRange(records []domain.IntensityRecord, r Range, now time.Time) []domain.IntensityRecord {
	start, bounded := r.Start(now)
	if !bounded {
		return records
	}

	out := make([]domain.IntensityRecord, 0, len(records))
	for _, rec := range records {
		if !rec.Instant.Before(start) {
			out = append(out, rec)
		}
	}
	return out
}
