package domain

import (
	"encoding/json"
	"math"
	"time"
)

// IntensityRecord is one normalized row of the carbon-intensity dataset:
// a single region's readings at a single instant.
type IntensityRecord struct {
	Country  string `json:"country"`
	ZoneName string `json:"zone_name"`
	ZoneID   string `json:"zone_id,omitempty"`

	// Instant is the reading's absolute UTC timestamp. Rows without a
	// parseable instant never become records.
	Instant time.Time `json:"instant"`

	// DirectIntensity and LCAIntensity are gCO₂eq/kWh. NaN means the
	// source reported no value; it is never coerced to zero.
	DirectIntensity float64 `json:"direct_intensity"`
	LCAIntensity    float64 `json:"lca_intensity"`

	// Percentages default to 0 when the source column is absent.
	LowCarbonPct float64 `json:"low_carbon_pct"`
	RenewablePct float64 `json:"renewable_pct"`
}

// Day returns the record's UTC calendar day (instant truncated to midnight).
func (r IntensityRecord) Day() time.Time {
	return DayOf(r.Instant)
}

// Hour returns the record's UTC hour of day.
func (r IntensityRecord) Hour() int {
	return r.Instant.UTC().Hour()
}

// Intensity selects the metric for a view mode: "production" reads the
// direct intensity, anything else the LCA intensity.
func (r IntensityRecord) Intensity(mode string) float64 {
	if mode == "production" {
		return r.DirectIntensity
	}
	return r.LCAIntensity
}

// HasIntensity reports whether the record carries at least one real
// (non-NaN) intensity value.
func (r IntensityRecord) HasIntensity() bool {
	return !math.IsNaN(r.DirectIntensity) || !math.IsNaN(r.LCAIntensity)
}

// DayOf truncates an instant to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MarshalJSON encodes NaN intensities as null; encoding/json rejects NaN
// outright, and null is what the map consumer expects for "no data".
func (r IntensityRecord) MarshalJSON() ([]byte, error) {
	type alias struct {
		Country         string    `json:"country"`
		ZoneName        string    `json:"zone_name"`
		ZoneID          string    `json:"zone_id,omitempty"`
		Instant         time.Time `json:"instant"`
		DirectIntensity *float64  `json:"direct_intensity"`
		LCAIntensity    *float64  `json:"lca_intensity"`
		LowCarbonPct    float64   `json:"low_carbon_pct"`
		RenewablePct    float64   `json:"renewable_pct"`
	}
	return json.Marshal(alias{
		Country:         r.Country,
		ZoneName:        r.ZoneName,
		ZoneID:          r.ZoneID,
		Instant:         r.Instant,
		DirectIntensity: floatOrNull(r.DirectIntensity),
		LCAIntensity:    floatOrNull(r.LCAIntensity),
		LowCarbonPct:    r.LowCarbonPct,
		RenewablePct:    r.RenewablePct,
	})
}

func floatOrNull(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
