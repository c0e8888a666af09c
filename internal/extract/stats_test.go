package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsSnapshotPercentiles(t *testing.T) {
	stats := NewStats(time.Hour)
	for i, ms := range []int{100, 200, 300, 400, 500} {
		stats.Observe(time.Duration(ms)*time.Millisecond, i+1)
	}

	snap := stats.Snapshot()
	require.Equal(t, 5, snap.Documents)
	assert.Equal(t, 15, snap.Records)
	assert.InDelta(t, 100, snap.MinMs, 1e-9)
	assert.InDelta(t, 500, snap.MaxMs, 1e-9)
	assert.InDelta(t, 300, snap.AvgMs, 1e-9)
	assert.InDelta(t, 300, snap.P50Ms, 1e-9)
	assert.InDelta(t, 480, snap.P95Ms, 1e-9)
	assert.InDelta(t, 496, snap.P99Ms, 1e-9)
}

func TestStatsPrunesExpiredSamples(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	stats := NewStats(time.Minute)
	stats.now = func() time.Time { return now }

	stats.Observe(100*time.Millisecond, 3)
	now = now.Add(2 * time.Minute)
	assert.Equal(t, StatsSnapshot{}, stats.Snapshot())

	stats.Observe(200*time.Millisecond, 1)
	snap := stats.Snapshot()
	assert.Equal(t, 1, snap.Documents)
	assert.Equal(t, 1, snap.Records)
	assert.InDelta(t, 200, snap.MinMs, 1e-9)
	assert.InDelta(t, 200, snap.MaxMs, 1e-9)
}

func TestStatsClampsNegativeValues(t *testing.T) {
	stats := NewStats(0)
	stats.Observe(-time.Second, -4)

	snap := stats.Snapshot()
	assert.Equal(t, 1, snap.Documents)
	assert.Equal(t, 0, snap.Records)
	assert.Zero(t, snap.MinMs)
	assert.Zero(t, snap.MaxMs)
}

func TestPercentileEdges(t *testing.T) {
	assert.Zero(t, percentile(nil, 50))
	assert.Equal(t, 7.0, percentile([]float64{7}, 99))
	assert.Equal(t, 1.0, percentile([]float64{1, 2}, 0))
	assert.Equal(t, 2.0, percentile([]float64{1, 2}, 100))
}
