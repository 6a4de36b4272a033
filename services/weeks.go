package services

import (
	"time"
)

// Week boundary tables. Each entry is the instant a semantic week begins;
// boundaries[0] corresponds to week 1. Tables are rebuilt per call because
// they are anchored to the given year and must not be cached across seasons.

type weekStart struct {
	yearOffset int
	month      time.Month
	day        int
}

var nflWeekStarts = []weekStart{
	{0, time.January, 1},
	{0, time.September, 4},
	{0, time.September, 11},
	{0, time.September, 18},
	{0, time.September, 25},
	{0, time.October, 2},
	{0, time.October, 9},
	{0, time.October, 16},
	{0, time.October, 23},
	{0, time.October, 30},
	{0, time.November, 6},
	{0, time.November, 13},
	{0, time.November, 20},
	{0, time.November, 27},
	{0, time.December, 4},
	{0, time.December, 11},
	{0, time.December, 18},
	{0, time.December, 25},
	{1, time.January, 1},
	{1, time.January, 8},
	{1, time.January, 15},
	{1, time.January, 22},
	{1, time.January, 29},
	{1, time.February, 5},
}

var cfbWeekStarts = []weekStart{
	{0, time.January, 1},
	{0, time.September, 2},
	{0, time.September, 8},
	{0, time.September, 15},
	{0, time.September, 22},
	{0, time.September, 29},
	{0, time.October, 6},
	{0, time.October, 13},
	{0, time.October, 20},
	{0, time.October, 27},
	{0, time.November, 3},
	{0, time.November, 10},
	{0, time.November, 17},
	{0, time.November, 24},
	{0, time.December, 1},
	{0, time.December, 8},
	{0, time.December, 13},
	{0, time.December, 19},
}

func buildBoundaries(starts []weekStart, year int, loc *time.Location) []time.Time {
	boundaries := make([]time.Time, len(starts))
	for i, s := range starts {
		boundaries[i] = time.Date(year+s.yearOffset, s.month, s.day, 0, 0, 0, 0, loc)
	}
	return boundaries
}

// NflWeekBoundaries returns the NFL week-start instants for the season anchored at year
func NflWeekBoundaries(year int, loc *time.Location) []time.Time {
	return buildBoundaries(nflWeekStarts, year, loc)
}

// CfbWeekBoundaries returns the college football week-start instants for the season anchored at year
func CfbWeekBoundaries(year int, loc *time.Location) []time.Time {
	return buildBoundaries(cfbWeekStarts, year, loc)
}

// CurrentWeek returns the 1-based week number for now given an ascending list
// of week-start instants. The list is scanned from the end: the latest
// boundary that now is after wins. If now precedes every boundary the result
// saturates to len(boundaries) rather than extrapolating or erroring.
func CurrentWeek(boundaries []time.Time, now time.Time) int {
	for week := len(boundaries); week >= 1; week-- {
		if now.After(boundaries[week-1]) {
			return week
		}
	}
	return len(boundaries)
}

// CurrentNflWeek resolves now to an NFL week using boundaries for now's season
func CurrentNflWeek(now time.Time, loc *time.Location) int {
	return CurrentWeek(NflWeekBoundaries(CurrentNflSeason(now), loc), now)
}

// CurrentNflSeason returns the season year for now. NFL seasons run two
// months into the next calendar year, so January and February still belong to
// the prior season.
func CurrentNflSeason(now time.Time) int {
	return now.AddDate(0, -2, 0).Year()
}

// CurrentCfbSeason returns the college football season year for now; CFB
// postseasons run one month into the next calendar year.
func CurrentCfbSeason(now time.Time) int {
	return now.AddDate(0, -1, 0).Year()
}
