package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testGame() Game {
	return Game{
		ID: 100, Season: 2025, Week: 6,
		HomeTeam: "Kansas City Chiefs", HomeTeamID: 11,
		AwayTeam: "Las Vegas Raiders", AwayTeamID: 22,
		Kickoff: time.Date(2025, time.October, 12, 17, 0, 0, 0, time.UTC),
	}
}

func TestHasStarted(t *testing.T) {
	g := testGame()

	assert.False(t, g.HasStarted(g.Kickoff.Add(-time.Minute)))
	assert.True(t, g.HasStarted(g.Kickoff), "kickoff instant counts as started")
	assert.True(t, g.HasStarted(g.Kickoff.Add(time.Minute)))
}

func TestTeamName(t *testing.T) {
	g := testGame()

	assert.Equal(t, "Kansas City Chiefs", g.TeamName(11))
	assert.Equal(t, "Las Vegas Raiders", g.TeamName(22))
	assert.Equal(t, "team 99", g.TeamName(99))
}

func TestMatchup(t *testing.T) {
	g := testGame()
	assert.Equal(t, "Las Vegas Raiders @ Kansas City Chiefs", g.Matchup())
}

func TestDecided(t *testing.T) {
	g := testGame()
	assert.False(t, g.Decided())

	g.WinnerID = 11
	assert.True(t, g.Decided())
}
