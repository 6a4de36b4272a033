package models

import (
	"fmt"
	"time"
)

// Game represents one NFL game tracked for pick'em, keyed by its ESPN event ID.
// Team/kickoff fields are refreshed every time the weekly schedule is posted;
// scores and WinnerID are written once, when the game is graded after going final.
type Game struct {
	ID         int       `json:"id" bson:"id"`
	Season     int       `json:"season" bson:"season"`
	Week       int       `json:"week" bson:"week"`
	HomeTeam   string    `json:"homeTeam" bson:"home_team"`
	HomeTeamID int       `json:"homeTeamId" bson:"home_team_id"`
	AwayTeam   string    `json:"awayTeam" bson:"away_team"`
	AwayTeamID int       `json:"awayTeamId" bson:"away_team_id"`
	Kickoff    time.Time `json:"kickoff" bson:"kickoff"`
	HomeScore  int       `json:"homeScore" bson:"home_score"`
	AwayScore  int       `json:"awayScore" bson:"away_score"`

	// WinnerID is 0 until the game has been graded.
	WinnerID int `json:"winnerId" bson:"winner_id"`
}

// Decided returns true once final scores have been recorded and a winner computed
func (g *Game) Decided() bool {
	return g.WinnerID != 0
}

// HasStarted returns true if kickoff has passed at the given instant
func (g *Game) HasStarted(now time.Time) bool {
	return !now.Before(g.Kickoff)
}

// TeamName resolves a team ID to its display name for this game
func (g *Game) TeamName(teamID int) string {
	switch teamID {
	case g.HomeTeamID:
		return g.HomeTeam
	case g.AwayTeamID:
		return g.AwayTeam
	default:
		return fmt.Sprintf("team %d", teamID)
	}
}

// Matchup returns the "Away @ Home" description
func (g *Game) Matchup() string {
	return fmt.Sprintf("%s @ %s", g.AwayTeam, g.HomeTeam)
}
