package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// primaryTimestampRe matches the dataset's native timestamp format:
// "DD/MM/YYYY H:MM" with optional minutes, e.g. "20/02/2023 2:00" or
// "3/1/2023 14". Day and month may be one or two digits.
var primaryTimestampRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})\s+(\d{1,2})(?::(\d{1,2}))?$`)

// isoLayouts are tried in order for anything that is not in the primary
// format. Covers full RFC 3339 plus the second-less and date-only forms
// that show up in hand-edited datasets.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp converts a raw dataset timestamp into a UTC instant.
// The primary format is day/month/year 24-hour wall clock with no zone
// marker; it is interpreted as UTC by convention, matching how the dataset
// is indexed. Anything else falls back to ISO-8601 parsing. Returns
// ok=false for unparseable input or impossible calendar dates; it never
// panics and never guesses.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if m := primaryTimestampRe.FindStringSubmatch(raw); m != nil {
		return parsePrimary(m)
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parsePrimary builds an instant from the primary-format submatches,
// zero-padding each field before construction. time.Parse rejects
// out-of-range components, which is how month 13 or day 32 fail here
// rather than being silently normalized.
func parsePrimary(m []string) (time.Time, bool) {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	hour, _ := strconv.Atoi(m[4])
	minute := 0
	if m[5] != "" {
		minute, _ = strconv.Atoi(m[5])
	}

	padded := fmt.Sprintf("%02d/%02d/%s %02d:%02d", day, month, m[3], hour, minute)
	t, err := time.Parse("02/01/2006 15:04", padded)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
