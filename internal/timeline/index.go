// Package timeline indexes the normalized dataset by time and answers the
// map's "what is shown at instant T" queries: which calendar days have
// data, which available day is nearest a target instant, which record on
// that day is nearest a target hour, and which records fall in a named
// relative window. Everything here is a pure function over an immutable
// record set; callers may query concurrently without coordination.
package timeline

import (
	"sort"
	"time"

	"github.com/couchcryptid/carbon-intensity-service/internal/domain"
)

// Index is the availability index over one loaded dataset: the distinct
// UTC calendar days that carry data, plus the true instant bounds. Built
// once per load, read-only afterward.
type Index struct {
	// Days is strictly increasing, deduplicated, day-granularity UTC.
	Days []time.Time `json:"days"`

	// Earliest and Latest are the min/max record instants, not truncated.
	// They bound manual date-time selection.
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// Empty reports whether the index covers no data. An empty index carries
// the inverted Earliest > Latest sentinel.
func (ix Index) Empty() bool {
	return len(ix.Days) == 0
}

// BuildIndex derives the availability index from a record set in one pass.
func BuildIndex(records []domain.IntensityRecord) Index {
	b := NewIndexBuilder()
	for _, rec := range records {
		b.Add(rec)
	}
	return b.Build()
}

// IndexBuilder accumulates index inputs incrementally so the loader can
// derive the availability index during its parse pass instead of scanning
// the record set a second time.
type IndexBuilder struct {
	seen     map[time.Time]struct{}
	earliest time.Time
	latest   time.Time
	any      bool
}

// NewIndexBuilder returns an empty builder.
func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{seen: make(map[time.Time]struct{})}
}

// Add folds one record into the index under construction.
func (b *IndexBuilder) Add(rec domain.IntensityRecord) {
	if !b.any {
		b.earliest, b.latest = rec.Instant, rec.Instant
		b.any = true
	} else {
		if rec.Instant.Before(b.earliest) {
			b.earliest = rec.Instant
		}
		if rec.Instant.After(b.latest) {
			b.latest = rec.Instant
		}
	}
	b.seen[rec.Day()] = struct{}{}
}

// Build finalizes the index. With no records it returns the inverted
// Earliest > Latest sentinel that marks "no data".
func (b *IndexBuilder) Build() Index {
	if !b.any {
		return Index{Earliest: time.Unix(1, 0).UTC(), Latest: time.Unix(0, 0).UTC()}
	}
	ix := Index{Earliest: b.earliest, Latest: b.latest, Days: make([]time.Time, 0, len(b.seen))}
	for day := range b.seen {
		ix.Days = append(ix.Days, day)
	}
	sortDays(ix.Days)
	return ix
}

// Clamp constrains a manually selected instant to the index bounds.
// Out-of-range selections are pulled to the nearest bound rather than
// rejected; an empty index returns the target unchanged.
func (ix Index) Clamp(target time.Time) time.Time {
	if ix.Empty() {
		return target
	}
	if target.Before(ix.Earliest) {
		return ix.Earliest
	}
	if target.After(ix.Latest) {
		return ix.Latest
	}
	return target
}

func sortDays(days []time.Time) {
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
}
