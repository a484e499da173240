package domain

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fullHeader = []string{
	"Datetime (UTC)",
	"Country",
	"Zone Name",
	"Zone Id",
	"Carbon Intensity gCO₂eq/kWh (direct)",
	"Carbon Intensity gCO₂eq/kWh (LCA)",
	"Low Carbon Percentage",
	"Renewable Percentage",
}

var minimalHeader = []string{
	"Datetime (UTC)",
	"Country",
	"Zone Name",
	"Carbon Intensity gCO₂eq/kWh (direct)",
	"Carbon Intensity gCO₂eq/kWh (LCA)",
}

func TestParseHeader(t *testing.T) {
	t.Run("full header", func(t *testing.T) {
		s, err := ParseHeader(fullHeader)
		require.NoError(t, err)
		assert.Equal(t, len(fullHeader), s.FieldCount())
		assert.Empty(t, s.ExtraColumns())
	})

	t.Run("minimal header", func(t *testing.T) {
		s, err := ParseHeader(minimalHeader)
		require.NoError(t, err)
		assert.Equal(t, len(minimalHeader), s.FieldCount())
	})

	t.Run("missing required columns are all named", func(t *testing.T) {
		_, err := ParseHeader([]string{"Country", "Zone Name"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Datetime (UTC)")
		assert.Contains(t, err.Error(), "Carbon Intensity gCO₂eq/kWh (direct)")
		assert.Contains(t, err.Error(), "Carbon Intensity gCO₂eq/kWh (LCA)")
		assert.NotContains(t, err.Error(), "Country,")
	})

	t.Run("unknown columns preserved as extras", func(t *testing.T) {
		header := append(append([]string{}, minimalHeader...), "Data Source", "Notes")
		s, err := ParseHeader(header)
		require.NoError(t, err)
		assert.Equal(t, []string{"Data Source", "Notes"}, s.ExtraColumns())
	})

	t.Run("empty header", func(t *testing.T) {
		_, err := ParseHeader(nil)
		require.Error(t, err)
	})
}

func TestSchema_Normalize(t *testing.T) {
	t.Run("well-formed row", func(t *testing.T) {
		s, err := ParseHeader(minimalHeader)
		require.NoError(t, err)

		rec, ok := s.Normalize([]string{"20/02/2023 2:00", "Belgium", "Belgium", "106.61", "147.72"})
		require.True(t, ok)
		assert.Equal(t, "Belgium", rec.Country)
		assert.Equal(t, "Belgium", rec.ZoneName)
		assert.Equal(t, 106.61, rec.DirectIntensity)
		assert.Equal(t, 147.72, rec.LCAIntensity)
		assert.Equal(t, time.Date(2023, 2, 20, 2, 0, 0, 0, time.UTC), rec.Instant)
		assert.Zero(t, rec.LowCarbonPct)
		assert.Zero(t, rec.RenewablePct)
	})

	t.Run("full row with optional columns", func(t *testing.T) {
		s, err := ParseHeader(fullHeader)
		require.NoError(t, err)

		rec, ok := s.Normalize([]string{"20/02/2023 2:00", "Belgium", "Flanders", "BE", "106.61", "147.72", "74.12", "28.66"})
		require.True(t, ok)
		assert.Equal(t, "Flanders", rec.ZoneName)
		assert.Equal(t, "BE", rec.ZoneID)
		assert.Equal(t, 74.12, rec.LowCarbonPct)
		assert.Equal(t, 28.66, rec.RenewablePct)
	})

	t.Run("column count mismatch rejects row", func(t *testing.T) {
		s, err := ParseHeader(minimalHeader)
		require.NoError(t, err)

		_, ok := s.Normalize([]string{"20/02/2023 2:00", "Belgium", "Belgium", "106.61"})
		assert.False(t, ok)

		_, ok = s.Normalize([]string{"20/02/2023 2:00", "Belgium", "Belgium", "106.61", "147.72", "extra"})
		assert.False(t, ok)
	})

	t.Run("unparseable timestamp rejects row", func(t *testing.T) {
		s, err := ParseHeader(minimalHeader)
		require.NoError(t, err)

		_, ok := s.Normalize([]string{"yesterday-ish", "Belgium", "Belgium", "106.61", "147.72"})
		assert.False(t, ok)
	})

	t.Run("unparseable intensity keeps row with NaN", func(t *testing.T) {
		s, err := ParseHeader(minimalHeader)
		require.NoError(t, err)

		rec, ok := s.Normalize([]string{"20/02/2023 2:00", "Belgium", "Belgium", "n/a", ""})
		require.True(t, ok)
		assert.True(t, math.IsNaN(rec.DirectIntensity))
		assert.True(t, math.IsNaN(rec.LCAIntensity))
		assert.False(t, rec.HasIntensity())
	})

	t.Run("zone name defaults to country", func(t *testing.T) {
		s, err := ParseHeader(minimalHeader)
		require.NoError(t, err)

		rec, ok := s.Normalize([]string{"20/02/2023 2:00", "France", "", "44.76", "79.64"})
		require.True(t, ok)
		assert.Equal(t, "France", rec.ZoneName)
	})
}

func TestIntensityRecord_Accessors(t *testing.T) {
	rec := IntensityRecord{
		Instant:         time.Date(2023, 2, 20, 14, 30, 0, 0, time.UTC),
		DirectIntensity: 100,
		LCAIntensity:    150,
	}

	assert.Equal(t, time.Date(2023, 2, 20, 0, 0, 0, 0, time.UTC), rec.Day())
	assert.Equal(t, 14, rec.Hour())
	assert.Equal(t, 100.0, rec.Intensity("production"))
	assert.Equal(t, 150.0, rec.Intensity("consumption"))
	assert.True(t, rec.HasIntensity())
}

func TestIntensityRecord_MarshalJSON_NaN(t *testing.T) {
	rec := IntensityRecord{
		Country:         "Belgium",
		ZoneName:        "Belgium",
		Instant:         time.Date(2023, 2, 20, 2, 0, 0, 0, time.UTC),
		DirectIntensity: math.NaN(),
		LCAIntensity:    147.72,
	}

	data, err := rec.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"direct_intensity":null`)
	assert.Contains(t, string(data), `"lca_intensity":147.72`)
	assert.False(t, strings.Contains(string(data), "NaN"))
}
