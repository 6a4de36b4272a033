package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chicago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	return loc
}

func TestCurrentWeek(t *testing.T) {
	loc := chicago(t)
	boundaries := NflWeekBoundaries(2025, loc)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{
			name: "midseason between boundaries",
			now:  time.Date(2025, time.October, 5, 12, 0, 0, 0, loc),
			want: 6,
		},
		{
			name: "instant after a boundary",
			now:  time.Date(2025, time.September, 11, 0, 0, 1, 0, loc),
			want: 3,
		},
		{
			name: "exactly on a boundary belongs to the prior week",
			now:  time.Date(2025, time.September, 11, 0, 0, 0, 0, loc),
			want: 2,
		},
		{
			name: "offseason summer resolves to week 1",
			now:  time.Date(2025, time.June, 15, 12, 0, 0, 0, loc),
			want: 1,
		},
		{
			name: "january playoff dates fall in the late weeks",
			now:  time.Date(2026, time.January, 10, 12, 0, 0, 0, loc),
			want: 20,
		},
		{
			name: "after the final boundary saturates to the last week",
			now:  time.Date(2026, time.March, 1, 12, 0, 0, 0, loc),
			want: 24,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentWeek(boundaries, tt.now))
		})
	}
}

func TestCurrentWeekBeforeAllBoundaries(t *testing.T) {
	loc := chicago(t)
	boundaries := NflWeekBoundaries(2025, loc)

	// Before the first boundary the scan finds nothing and the result
	// saturates to the table length.
	now := time.Date(2024, time.December, 31, 12, 0, 0, 0, loc)
	assert.Equal(t, len(boundaries), CurrentWeek(boundaries, now))
}

func TestNflWeekBoundariesOrdered(t *testing.T) {
	loc := chicago(t)
	boundaries := NflWeekBoundaries(2025, loc)

	require.Len(t, boundaries, 24)
	for i := 1; i < len(boundaries); i++ {
		assert.True(t, boundaries[i].After(boundaries[i-1]), "boundary %d not after boundary %d", i, i-1)
	}

	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, loc), boundaries[0])
	assert.Equal(t, time.Date(2026, time.February, 5, 0, 0, 0, 0, loc), boundaries[23])
}

func TestCfbWeekBoundaries(t *testing.T) {
	loc := chicago(t)
	boundaries := CfbWeekBoundaries(2025, loc)

	require.Len(t, boundaries, 18)
	assert.Equal(t, time.Date(2025, time.September, 2, 0, 0, 0, 0, loc), boundaries[1])
	assert.Equal(t, time.Date(2025, time.December, 19, 0, 0, 0, 0, loc), boundaries[17])
}

func TestCurrentNflSeason(t *testing.T) {
	loc := chicago(t)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"regular season", time.Date(2025, time.October, 5, 12, 0, 0, 0, loc), 2025},
		{"january belongs to prior season", time.Date(2026, time.January, 15, 12, 0, 0, 0, loc), 2025},
		{"february belongs to prior season", time.Date(2026, time.February, 20, 12, 0, 0, 0, loc), 2025},
		{"march starts the new season year", time.Date(2026, time.March, 2, 12, 0, 0, 0, loc), 2026},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentNflSeason(tt.now))
		})
	}
}

func TestCurrentCfbSeason(t *testing.T) {
	loc := chicago(t)

	assert.Equal(t, 2025, CurrentCfbSeason(time.Date(2026, time.January, 15, 12, 0, 0, 0, loc)))
	assert.Equal(t, 2026, CurrentCfbSeason(time.Date(2026, time.February, 2, 12, 0, 0, 0, loc)))
}
