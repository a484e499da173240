package timeline

import (
	"time"

	"github.com/couchcryptid/carbon-intensity-service/internal/domain"
)

// DayMatch is the result of a nearest-day search: the available day and
// how far it sits from the requested instant. DiffMinutes is part of the
// contract, not a debug value; the UI discloses it so users know the
// shown data is approximate.
type DayMatch struct {
	Day         time.Time `json:"day"`
	DiffMinutes int       `json:"diff_minutes"`
}

// NearestDay returns the day in the index closest to the target instant.
// The scan is linear over the (small) day list, minimizing the absolute
// difference; on an exact tie the earlier day wins because the list is
// ascending and the first encountered candidate is kept. ok=false when
// the day list is empty. Permuting days does not change the result.
func NearestDay(target time.Time, days []time.Time) (DayMatch, bool) {
	if len(days) == 0 {
		return DayMatch{}, false
	}

	ordered := days
	if !isAscending(days) {
		ordered = append([]time.Time(nil), days...)
		sortDays(ordered)
	}

	best := ordered[0]
	bestDiff := absDuration(target.Sub(ordered[0]))
	for _, day := range ordered[1:] {
		if diff := absDuration(target.Sub(day)); diff < bestDiff {
			best = day
			bestDiff = diff
		}
	}
	return DayMatch{Day: best, DiffMinutes: int(bestDiff / time.Minute)}, true
}

// NearestHourRecord returns the record for the given country on the given
// day whose hour of day is closest to targetHour. Candidates keep their
// dataset order, so an exact hour-distance tie resolves to the earlier
// record. ok=false when no record matches country and day.
func NearestHourRecord(records []domain.IntensityRecord, country string, day time.Time, targetHour int) (domain.IntensityRecord, bool) {
	day = domain.DayOf(day)

	var best domain.IntensityRecord
	bestDiff := -1
	for _, rec := range records {
		if rec.Country != country || !rec.Day().Equal(day) {
			continue
		}
		diff := rec.Hour() - targetHour
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best = rec
			bestDiff = diff
		}
	}
	if bestDiff < 0 {
		return domain.IntensityRecord{}, false
	}
	return best, true
}

// Resolution pairs a resolved record with the discrepancy of the day it
// came from.
type Resolution struct {
	Record      domain.IntensityRecord `json:"record"`
	DiffMinutes int                    `json:"diff_minutes"`
}

// ResolveInstant composes the two searches: nearest available day for the
// target instant, then nearest hour within that day for the country.
// ok=false when the index is empty or the country has no data on the
// resolved day.
func ResolveInstant(records []domain.IntensityRecord, ix Index, country string, target time.Time) (Resolution, bool) {
	match, ok := NearestDay(target, ix.Days)
	if !ok {
		return Resolution{}, false
	}
	rec, ok := NearestHourRecord(records, country, match.Day, target.UTC().Hour())
	if !ok {
		return Resolution{}, false
	}
	return Resolution{Record: rec, DiffMinutes: match.DiffMinutes}, true
}

func isAscending(days []time.Time) bool {
	for i := 1; i < len(days); i++ {
		if days[i].Before(days[i-1]) {
			return false
		}
	}
	return true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
