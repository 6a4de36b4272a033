package models

import (
	"time"
)

// Pick represents a user's prediction for a game. There is at most one Pick
// per (game, user) pair; re-picking before kickoff overwrites the row.
type Pick struct {
	GameID        int       `json:"game_id" bson:"game_id"`
	UserID        string    `json:"user_id" bson:"user_id"` // Discord snowflake
	Season        int       `json:"season" bson:"season"`
	Week          int       `json:"week" bson:"week"`
	WinningTeamID int       `json:"winning_team_id" bson:"winning_team_id"`
	Processed     bool      `json:"processed" bson:"processed"`
	CorrectPick   bool      `json:"correct_pick" bson:"correct_pick"`
	PickedAt      time.Time `json:"picked_at" bson:"picked_at"`
}

// NewPick creates an ungraded pick for a (game, user) pair
func NewPick(gameID int, userID string) *Pick {
	return &Pick{
		GameID:   gameID,
		UserID:   userID,
		PickedAt: time.Now().UTC(),
	}
}

// Grade records whether the pick matched the game's winner. Regrading with the
// same winner is a no-op in effect, which keeps weekly processing idempotent.
func (p *Pick) Grade(winnerID int) {
	p.CorrectPick = p.WinningTeamID == winnerID
	p.Processed = true
}
