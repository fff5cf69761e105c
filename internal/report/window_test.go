package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatePoints(t *testing.T) {
	now := day("2026-08-15")
	jan := day("2026-01-10")

	t.Run("six month default", func(t *testing.T) {
		points := datePoints(Range6M, now, &jan, 0)
		require.Len(t, points, 6)
		assert.Equal(t, "2026-03", points[0].Key)
		assert.Equal(t, "2026-08", points[5].Key)
	})

	t.Run("year to date", func(t *testing.T) {
		points := datePoints(RangeYTD, now, &jan, 0)
		assert.Len(t, points, 8)
	})

	t.Run("window never predates history", func(t *testing.T) {
		jul := day("2026-07-02")
		points := datePoints(Range1Y, now, &jul, 0)
		require.Len(t, points, 2)
		assert.Equal(t, "2026-07", points[0].Key)
	})

	t.Run("plan cap clamps", func(t *testing.T) {
		old := day("2024-01-01")
		points := datePoints(RangeAll, now, &old, 3)
		assert.Len(t, points, 3)
	})

	t.Run("no history collapses to current month", func(t *testing.T) {
		points := datePoints(RangeAll, now, nil, 0)
		require.Len(t, points, 1)
		assert.Equal(t, "2026-08", points[0].Key)
	})

	t.Run("points are month ends", func(t *testing.T) {
		points := datePoints(Range3M, now, &jan, 0)
		last := points[len(points)-1].Date
		assert.Equal(t, time.August, last.Month())
		assert.Equal(t, 31, last.Day())
	})
}
