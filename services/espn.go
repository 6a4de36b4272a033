package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"huskerbot-go/logging"
	"huskerbot-go/models"
)

const statusFinal = "STATUS_FINAL"

// ESPNService fetches NFL scoreboards from the ESPN site API
type ESPNService struct {
	client  *http.Client
	baseURL string
	logger  *logging.Logger
}

// NewESPNService creates a new ESPN service
func NewESPNService() *ESPNService {
	return &ESPNService{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://site.api.espn.com/apis/site/v2/sports/football/nfl/scoreboard",
		logger:  logging.WithPrefix("espn"),
	}
}

// ESPN API response structures

type ESPNScoreboard struct {
	Events []ESPNEvent `json:"events"`
}

type ESPNEvent struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	Status       ESPNStatus        `json:"status"`
	Competitions []ESPNCompetition `json:"competitions"`
}

type ESPNStatus struct {
	Type ESPNStatusType `json:"type"`
}

type ESPNStatusType struct {
	Name        string `json:"name"`
	State       string `json:"state"`
	Completed   bool   `json:"completed"`
	ShortDetail string `json:"shortDetail"`
}

type ESPNCompetition struct {
	Competitors []ESPNCompetitor `json:"competitors"`
	Odds        []ESPNOdds       `json:"odds"`
}

type ESPNCompetitor struct {
	HomeAway string       `json:"homeAway"`
	Score    string       `json:"score"`
	Team     ESPNTeam     `json:"team"`
	Records  []ESPNRecord `json:"records"`
}

type ESPNTeam struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
	Logo         string `json:"logo"`
}

type ESPNRecord struct {
	Summary string `json:"summary"`
}

type ESPNOdds struct {
	Details   string   `json:"details"`
	OverUnder *float64 `json:"overUnder"`
	Spread    *float64 `json:"spread"`
}

// GetScoreboard fetches the NFL scoreboard for a regular-season week
func (e *ESPNService) GetScoreboard(ctx context.Context, season, week int) (*ESPNScoreboard, error) {
	url := fmt.Sprintf("%s?lang=en&region=us&calendartype=blacklist&limit=100&dates=%d&seasontype=2&week=%d",
		e.baseURL, season, week)

	e.logger.Infof("Fetching scoreboard for season %d week %d", season, week)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build scoreboard request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ESPN data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ESPN API returned status %d", resp.StatusCode)
	}

	var scoreboard ESPNScoreboard
	if err := json.NewDecoder(resp.Body).Decode(&scoreboard); err != nil {
		return nil, fmt.Errorf("failed to decode ESPN response: %w", err)
	}

	e.logger.Infof("Received %d events for week %d", len(scoreboard.Events), week)
	return &scoreboard, nil
}

// IsFinal reports whether the event has gone final
func (ev *ESPNEvent) IsFinal() bool {
	return ev.Status.Type.Name == statusFinal
}

// Competitor returns the competitor with the given home/away designation, or nil.
// Competitors are matched by designation, never by array position.
func (ev *ESPNEvent) Competitor(homeAway string) *ESPNCompetitor {
	if len(ev.Competitions) == 0 {
		return nil
	}
	for i := range ev.Competitions[0].Competitors {
		c := &ev.Competitions[0].Competitors[i]
		if c.HomeAway == homeAway {
			return c
		}
	}
	return nil
}

// Kickoff parses the event date. ESPN uses ISO-8601 with or without seconds.
func (ev *ESPNEvent) Kickoff() (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04Z", ev.Date)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ev.Date)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse event date %q: %w", ev.Date, err)
		}
	}
	return t.UTC(), nil
}

// ToGame converts the event to a Game model for the given season/week.
// Scores and winner are left unset; grading fills those in separately.
func (ev *ESPNEvent) ToGame(season, week int) (*models.Game, error) {
	home := ev.Competitor("home")
	away := ev.Competitor("away")
	if home == nil || away == nil {
		return nil, fmt.Errorf("event %s is missing a home or away competitor", ev.ID)
	}

	gameID, err := strconv.Atoi(ev.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse event id %q: %w", ev.ID, err)
	}

	kickoff, err := ev.Kickoff()
	if err != nil {
		return nil, err
	}

	return &models.Game{
		ID:         gameID,
		Season:     season,
		Week:       week,
		HomeTeam:   home.Team.DisplayName,
		HomeTeamID: home.TeamID(),
		AwayTeam:   away.Team.DisplayName,
		AwayTeamID: away.TeamID(),
		Kickoff:    kickoff,
	}, nil
}

// LineText formats the event's betting line for display, or "TBD"
func (ev *ESPNEvent) LineText() string {
	if len(ev.Competitions) == 0 || len(ev.Competitions[0].Odds) == 0 {
		return "TBD"
	}
	o := ev.Competitions[0].Odds[0]

	switch {
	case o.Details != "" && o.OverUnder != nil:
		return fmt.Sprintf("%s (O/U %.1f)", o.Details, *o.OverUnder)
	case o.Details != "":
		return o.Details
	case o.Spread != nil && o.OverUnder != nil:
		return fmt.Sprintf("Spread: %.1f • O/U %.1f", *o.Spread, *o.OverUnder)
	case o.Spread != nil:
		return fmt.Sprintf("Spread: %.1f", *o.Spread)
	case o.OverUnder != nil:
		return fmt.Sprintf("O/U %.1f", *o.OverUnder)
	default:
		return "TBD"
	}
}

// TeamID returns the competitor's numeric team ID, or 0 if unparseable
func (c *ESPNCompetitor) TeamID() int {
	id, err := strconv.Atoi(c.Team.ID)
	if err != nil {
		return 0
	}
	return id
}

// ScoreValue parses the competitor's score; absent pre-kickoff scores read as 0
func (c *ESPNCompetitor) ScoreValue() int {
	score, err := strconv.Atoi(c.Score)
	if err != nil {
		return 0
	}
	return score
}

// RecordSummary returns the competitor's win-loss summary, defaulting to "0-0"
func (c *ESPNCompetitor) RecordSummary() string {
	if len(c.Records) > 0 && c.Records[0].Summary != "" {
		return c.Records[0].Summary
	}
	return "0-0"
}
