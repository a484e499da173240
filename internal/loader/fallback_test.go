package loader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fixture is the last line of defense: these tests pin its size and
// shape so a careless edit cannot break the loader's non-empty guarantee.
func TestFallbackDataset(t *testing.T) {
	records, index := fallbackDataset()

	require.Len(t, records, 23)
	require.False(t, index.Empty())

	t.Run("spans three days", func(t *testing.T) {
		assert.Len(t, index.Days, 3)
		assert.Equal(t, time.Date(2023, 2, 20, 0, 0, 0, 0, time.UTC), index.Days[0])
		assert.Equal(t, time.Date(2023, 2, 22, 0, 0, 0, 0, time.UTC), index.Days[2])
	})

	t.Run("bounds are true instants", func(t *testing.T) {
		assert.Equal(t, time.Date(2023, 2, 20, 2, 0, 0, 0, time.UTC), index.Earliest)
		assert.Equal(t, time.Date(2023, 2, 22, 8, 0, 0, 0, time.UTC), index.Latest)
	})

	t.Run("every record is fully normalized", func(t *testing.T) {
		for _, rec := range records {
			assert.NotEmpty(t, rec.Country)
			assert.NotEmpty(t, rec.ZoneName)
			assert.NotEmpty(t, rec.ZoneID)
			assert.False(t, rec.Instant.IsZero())
			assert.True(t, rec.HasIntensity())
			assert.Positive(t, rec.LowCarbonPct)
			assert.Positive(t, rec.RenewablePct)
		}
	})

	t.Run("reference record", func(t *testing.T) {
		first := records[0]
		assert.Equal(t, "Belgium", first.Country)
		assert.Equal(t, 106.61, first.DirectIntensity)
		assert.Equal(t, 147.72, first.LCAIntensity)
	})

	t.Run("repeated calls share the parsed fixture", func(t *testing.T) {
		again, _ := fallbackDataset()
		assert.Len(t, again, len(records))
	})
}
