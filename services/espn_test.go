package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetScoreboard(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"events": [{
				"id": "401547403",
				"date": "2025-10-05T17:00Z",
				"status": {"type": {"name": "STATUS_FINAL", "state": "post", "completed": true}},
				"competitions": [{
					"competitors": [
						{"homeAway": "away", "score": "10", "team": {"id": "22", "displayName": "Las Vegas Raiders"}},
						{"homeAway": "home", "score": "27", "team": {"id": "11", "displayName": "Kansas City Chiefs"}}
					],
					"odds": [{"details": "KC -7.5", "overUnder": 44.5}]
				}]
			}]
		}`))
	}))
	defer server.Close()

	svc := NewESPNService()
	svc.baseURL = server.URL

	sb, err := svc.GetScoreboard(context.Background(), 2025, 5)
	require.NoError(t, err)
	require.Len(t, sb.Events, 1)

	assert.Contains(t, gotQuery, "dates=2025")
	assert.Contains(t, gotQuery, "week=5")
	assert.Contains(t, gotQuery, "seasontype=2")

	ev := &sb.Events[0]
	assert.True(t, ev.IsFinal())
	assert.Equal(t, "Kansas City Chiefs", ev.Competitor("home").Team.DisplayName)
	assert.Equal(t, "Las Vegas Raiders", ev.Competitor("away").Team.DisplayName)
}

func TestGetScoreboardUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewESPNService()
	svc.baseURL = server.URL

	_, err := svc.GetScoreboard(context.Background(), 2025, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCompetitorMatchesByDesignation(t *testing.T) {
	// Away listed first; lookup must go by designation, not position
	ev := scheduledEvent(1, 11, 22, "2025-10-05T17:00Z")
	ev.Competitions[0].Competitors[0], ev.Competitions[0].Competitors[1] =
		ev.Competitions[0].Competitors[1], ev.Competitions[0].Competitors[0]

	home := ev.Competitor("home")
	require.NotNil(t, home)
	assert.Equal(t, 11, home.TeamID())

	away := ev.Competitor("away")
	require.NotNil(t, away)
	assert.Equal(t, 22, away.TeamID())
}

func TestKickoffParsing(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
	}{
		{"without seconds", "2025-10-05T17:00Z", time.Date(2025, time.October, 5, 17, 0, 0, 0, time.UTC)},
		{"rfc3339", "2025-10-05T17:00:00Z", time.Date(2025, time.October, 5, 17, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := ESPNEvent{Date: tt.date}
			got, err := ev.Kickoff()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("garbage date errors", func(t *testing.T) {
		ev := ESPNEvent{Date: "Sunday-ish"}
		_, err := ev.Kickoff()
		assert.Error(t, err)
	})
}

func TestToGame(t *testing.T) {
	ev := finalEvent(401547403, 11, 22, 27, 10)

	game, err := ev.ToGame(2025, 5)
	require.NoError(t, err)

	assert.Equal(t, 401547403, game.ID)
	assert.Equal(t, 2025, game.Season)
	assert.Equal(t, 5, game.Week)
	assert.Equal(t, 11, game.HomeTeamID)
	assert.Equal(t, 22, game.AwayTeamID)
	// Scores are grading's job, not conversion's
	assert.Equal(t, 0, game.HomeScore)
	assert.Equal(t, 0, game.AwayScore)
	assert.Equal(t, 0, game.WinnerID)
}

func TestToGameMissingCompetitor(t *testing.T) {
	ev := ESPNEvent{
		ID:   "123",
		Date: "2025-10-05T17:00Z",
		Competitions: []ESPNCompetition{{
			Competitors: []ESPNCompetitor{
				{HomeAway: "home", Team: ESPNTeam{ID: "11"}},
			},
		}},
	}

	_, err := ev.ToGame(2025, 5)
	assert.Error(t, err)
}

func TestLineText(t *testing.T) {
	ou := 44.5
	spread := -7.5

	tests := []struct {
		name string
		odds []ESPNOdds
		want string
	}{
		{"no odds", nil, "TBD"},
		{"details and over under", []ESPNOdds{{Details: "KC -7.5", OverUnder: &ou}}, "KC -7.5 (O/U 44.5)"},
		{"details only", []ESPNOdds{{Details: "KC -7.5"}}, "KC -7.5"},
		{"spread only", []ESPNOdds{{Spread: &spread}}, "Spread: -7.5"},
		{"over under only", []ESPNOdds{{OverUnder: &ou}}, "O/U 44.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := scheduledEvent(1, 11, 22, "2025-10-05T17:00Z")
			ev.Competitions[0].Odds = tt.odds
			assert.Equal(t, tt.want, ev.LineText())
		})
	}
}

func TestScoreValue(t *testing.T) {
	assert.Equal(t, 27, (&ESPNCompetitor{Score: "27"}).ScoreValue())
	assert.Equal(t, 0, (&ESPNCompetitor{Score: ""}).ScoreValue())
}
