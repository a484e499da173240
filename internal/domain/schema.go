package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Exact header names the dataset must carry. The schema is fixed: missing
// required columns fail validation up front instead of being discovered
// row by row.
const (
	ColDatetime        = "Datetime (UTC)"
	ColCountry         = "Country"
	ColZoneName        = "Zone Name"
	ColZoneID          = "Zone Id"
	ColDirectIntensity = "Carbon Intensity gCO₂eq/kWh (direct)"
	ColLCAIntensity    = "Carbon Intensity gCO₂eq/kWh (LCA)"
	ColLowCarbonPct    = "Low Carbon Percentage"
	ColRenewablePct    = "Renewable Percentage"
)

var requiredColumns = []string{
	ColDatetime,
	ColCountry,
	ColZoneName,
	ColDirectIntensity,
	ColLCAIntensity,
}

// Schema maps the dataset's header row to fixed column positions,
// validated once at parse time.
type Schema struct {
	datetime        int
	country         int
	zoneName        int
	zoneID          int // -1 when absent
	directIntensity int
	lcaIntensity    int
	lowCarbonPct    int // -1 when absent
	renewablePct    int // -1 when absent

	fieldCount int
	extra      []string // unknown headers, preserved but unused
}

// ParseHeader validates a header row against the fixed dataset schema.
// The returned error names every missing required column.
func ParseHeader(fields []string) (Schema, error) {
	index := make(map[string]int, len(fields))
	s := Schema{zoneID: -1, lowCarbonPct: -1, renewablePct: -1, fieldCount: len(fields)}

	for i, f := range fields {
		name := strings.TrimSpace(f)
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = i

		switch name {
		case ColDatetime:
			s.datetime = i
		case ColCountry:
			s.country = i
		case ColZoneName:
			s.zoneName = i
		case ColZoneID:
			s.zoneID = i
		case ColDirectIntensity:
			s.directIntensity = i
		case ColLCAIntensity:
			s.lcaIntensity = i
		case ColLowCarbonPct:
			s.lowCarbonPct = i
		case ColRenewablePct:
			s.renewablePct = i
		default:
			s.extra = append(s.extra, name)
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return Schema{}, fmt.Errorf("dataset header missing required columns: %s", strings.Join(missing, ", "))
	}
	return s, nil
}

// FieldCount returns the number of columns in the validated header.
func (s Schema) FieldCount() int { return s.fieldCount }

// ExtraColumns returns header names not part of the fixed schema.
func (s Schema) ExtraColumns() []string { return s.extra }

// Normalize converts one raw data row into an IntensityRecord.
// ok=false means the row is malformed (wrong column count or no valid
// instant) and contributes nothing. Rows with unparseable intensity
// values are kept with NaN: a record with unknown intensity is still
// temporally valid and must still feed the availability index.
func (s Schema) Normalize(fields []string) (IntensityRecord, bool) {
	if len(fields) != s.fieldCount {
		return IntensityRecord{}, false
	}

	instant, ok := ParseTimestamp(fields[s.datetime])
	if !ok {
		return IntensityRecord{}, false
	}

	rec := IntensityRecord{
		Country:         strings.TrimSpace(fields[s.country]),
		ZoneName:        strings.TrimSpace(fields[s.zoneName]),
		Instant:         instant,
		DirectIntensity: parseFloatOrNaN(fields[s.directIntensity]),
		LCAIntensity:    parseFloatOrNaN(fields[s.lcaIntensity]),
	}
	if rec.ZoneName == "" {
		rec.ZoneName = rec.Country
	}
	if s.zoneID >= 0 {
		rec.ZoneID = strings.TrimSpace(fields[s.zoneID])
	}
	if s.lowCarbonPct >= 0 {
		rec.LowCarbonPct = parseFloatOrZero(fields[s.lowCarbonPct])
	}
	if s.renewablePct >= 0 {
		rec.RenewablePct = parseFloatOrZero(fields[s.renewablePct])
	}
	return rec, true
}

// parseFloatOrNaN parses a string as float64, returning NaN on failure.
// NaN is the "missing measurement" sentinel, distinct from a real zero.
func parseFloatOrNaN(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
