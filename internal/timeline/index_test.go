package timeline

import (
	"testing"
	"time"

	"github.com/couchcryptid/carbon-intensity-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(country string, instant time.Time) domain.IntensityRecord {
	return domain.IntensityRecord{Country: country, ZoneName: country, Instant: instant}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildIndex(t *testing.T) {
	records := []domain.IntensityRecord{
		rec("Belgium", time.Date(2023, 2, 21, 14, 0, 0, 0, time.UTC)),
		rec("France", time.Date(2023, 2, 20, 2, 0, 0, 0, time.UTC)),
		rec("Belgium", time.Date(2023, 2, 20, 23, 0, 0, 0, time.UTC)),
		rec("Belgium", time.Date(2023, 2, 22, 8, 0, 0, 0, time.UTC)),
	}

	ix := BuildIndex(records)

	require.False(t, ix.Empty())
	assert.Equal(t, []time.Time{day(2023, 2, 20), day(2023, 2, 21), day(2023, 2, 22)}, ix.Days)
	assert.Equal(t, time.Date(2023, 2, 20, 2, 0, 0, 0, time.UTC), ix.Earliest)
	assert.Equal(t, time.Date(2023, 2, 22, 8, 0, 0, 0, time.UTC), ix.Latest)
}

func TestBuildIndex_BoundsNotTruncated(t *testing.T) {
	// Earliest/Latest must be true instants, not day midnights.
	ix := BuildIndex([]domain.IntensityRecord{
		rec("Spain", time.Date(2023, 5, 1, 13, 45, 0, 0, time.UTC)),
	})
	assert.Equal(t, time.Date(2023, 5, 1, 13, 45, 0, 0, time.UTC), ix.Earliest)
	assert.Equal(t, ix.Earliest, ix.Latest)
	assert.Equal(t, []time.Time{day(2023, 5, 1)}, ix.Days)
}

func TestBuildIndex_Empty(t *testing.T) {
	ix := BuildIndex(nil)
	assert.True(t, ix.Empty())
	assert.Empty(t, ix.Days)
	// Inverted bounds are the "no data" sentinel.
	assert.True(t, ix.Earliest.After(ix.Latest))
}

func TestIndexBuilder_MatchesBatchBuild(t *testing.T) {
	records := []domain.IntensityRecord{
		rec("Poland", time.Date(2023, 3, 1, 6, 0, 0, 0, time.UTC)),
		rec("Poland", time.Date(2023, 3, 3, 18, 0, 0, 0, time.UTC)),
		rec("Sweden", time.Date(2023, 3, 2, 12, 0, 0, 0, time.UTC)),
	}

	b := NewIndexBuilder()
	for _, r := range records {
		b.Add(r)
	}

	assert.Equal(t, BuildIndex(records), b.Build())
}

func TestIndex_Clamp(t *testing.T) {
	ix := BuildIndex([]domain.IntensityRecord{
		rec("Italy", time.Date(2023, 2, 20, 2, 0, 0, 0, time.UTC)),
		rec("Italy", time.Date(2023, 2, 22, 8, 0, 0, 0, time.UTC)),
	})

	t.Run("below range clamps to earliest", func(t *testing.T) {
		got := ix.Clamp(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, ix.Earliest, got)
	})

	t.Run("above range clamps to latest", func(t *testing.T) {
		got := ix.Clamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, ix.Latest, got)
	})

	t.Run("inside range unchanged", func(t *testing.T) {
		target := time.Date(2023, 2, 21, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, target, ix.Clamp(target))
	})

	t.Run("empty index passes target through", func(t *testing.T) {
		target := time.Date(2023, 2, 21, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, target, BuildIndex(nil).Clamp(target))
	})
}
