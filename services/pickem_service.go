package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"huskerbot-go/logging"
	"huskerbot-go/models"
)

// Typed pick submission failures so callers can map them to user-facing replies.
var (
	ErrUnknownGame = errors.New("no game found for that pick")
	ErrUnknownTeam = errors.New("team is not playing in that game")
	ErrPicksClosed = errors.New("picks are closed once the game has kicked off")
)

// GameStore persists games keyed by ESPN event id.
type GameStore interface {
	Upsert(ctx context.Context, game *models.Game) error
	FindByID(ctx context.Context, gameID int) (*models.Game, error)
	FindByWeek(ctx context.Context, season, week int) ([]models.Game, error)
}

// PickStore persists picks keyed by (game, user).
type PickStore interface {
	Upsert(ctx context.Context, pick *models.Pick) error
	UpsertMany(ctx context.Context, picks []models.Pick) error
	FindByGameAndUser(ctx context.Context, gameID int, userID string) (*models.Pick, error)
	FindByGame(ctx context.Context, gameID int) ([]models.Pick, error)
	FindByWeek(ctx context.Context, season, week int) ([]models.Pick, error)
	FindBySeason(ctx context.Context, season int) ([]models.Pick, error)
	FindByUserAndWeek(ctx context.Context, userID string, season, week int) ([]models.Pick, error)
}

// Scoreboard fetches week scoreboards from the upstream score provider.
type Scoreboard interface {
	GetScoreboard(ctx context.Context, season, week int) (*ESPNScoreboard, error)
}

// GamePrompt is everything the channel surface needs to render one pickable game.
type GamePrompt struct {
	Game   *models.Game
	Line   string
	Counts map[int]int // picks so far per team id
}

// ChannelSurface is the pick'em channel as the orchestrator sees it. The bot
// package provides the Discord-backed implementation; tests substitute fakes.
type ChannelSurface interface {
	ClearChannel(ctx context.Context) error
	EnsureReadOnly(ctx context.Context) error
	PostLeaderboard(ctx context.Context, title string, fields []LeaderboardField) error
	PostGamePrompt(ctx context.Context, prompt *GamePrompt) error
	PostPickInfo(ctx context.Context) error
	PostNotice(ctx context.Context, text string) error
}

// PickemService orchestrates the weekly pick'em cycle: grade last week's
// picks against finals, reset the channel, publish standings, and post the
// new week's pick prompts.
type PickemService struct {
	games          GameStore
	picks          PickStore
	scoreboard     Scoreboard
	surface        ChannelSurface
	leaderboard    *LeaderboardService
	loc            *time.Location
	now            func() time.Time
	seasonOverride int
	logger         *logging.Logger
}

func NewPickemService(games GameStore, picks PickStore, scoreboard Scoreboard, surface ChannelSurface, leaderboard *LeaderboardService, loc *time.Location) *PickemService {
	return &PickemService{
		games:       games,
		picks:       picks,
		scoreboard:  scoreboard,
		surface:     surface,
		leaderboard: leaderboard,
		loc:         loc,
		now:         time.Now,
		logger:      logging.WithPrefix("pickem"),
	}
}

// SetClock overrides the service clock. Tests use this to pin week resolution.
func (s *PickemService) SetClock(now func() time.Time) {
	s.now = now
}

// SetSeasonOverride pins the season year instead of deriving it from the
// clock, for replaying past seasons.
func (s *PickemService) SetSeasonOverride(season int) {
	s.seasonOverride = season
}

// CurrentSeasonWeek resolves the service clock to a season and week.
func (s *PickemService) CurrentSeasonWeek() (season, week int) {
	now := s.now().In(s.loc)
	season = s.seasonOverride
	if season == 0 {
		season = CurrentNflSeason(now)
	}
	week = CurrentWeek(NflWeekBoundaries(season, s.loc), now)
	return season, week
}

// RunWeekly executes the full weekly cycle for the current week.
func (s *PickemService) RunWeekly(ctx context.Context) error {
	return s.PostWeeklyPickem(ctx, 0)
}

// PostWeeklyPickem executes the full weekly cycle; week 0 resolves to the
// current week. Each step is fault-isolated: a failed grade, sweep, lock, or
// standings post is logged and the cycle still moves on, so the new week's
// prompts always get their chance to go out.
func (s *PickemService) PostWeeklyPickem(ctx context.Context, week int) error {
	season, current := s.CurrentSeasonWeek()
	if week <= 0 {
		week = current
	}
	s.logger.Infof("Running weekly pick'em cycle for season %d week %d", season, week)

	if week > 1 {
		if err := s.GradeWeek(ctx, season, week-1); err != nil {
			s.logger.Errorf("Failed to grade week %d: %v", week-1, err)
		}
	}

	if err := s.surface.ClearChannel(ctx); err != nil {
		s.logger.Errorf("Failed to clear pick'em channel: %v", err)
	}
	if err := s.surface.EnsureReadOnly(ctx); err != nil {
		s.logger.Errorf("Failed to lock pick'em channel: %v", err)
	}

	if week > 1 {
		if err := s.postLeaderboards(ctx, season, week-1); err != nil {
			s.logger.Errorf("Failed to post standings for week %d: %v", week-1, err)
		}
	}

	return s.PostWeekPrompts(ctx, season, week)
}

// GradeWeek marks every final game of the week in the store and grades all
// picks against its winner. Re-running the same week is a no-op for picks
// already graded to the same outcome.
func (s *PickemService) GradeWeek(ctx context.Context, season, week int) error {
	scoreboard, err := s.scoreboard.GetScoreboard(ctx, season, week)
	if err != nil {
		return err
	}

	graded := 0
	for i := range scoreboard.Events {
		ev := &scoreboard.Events[i]
		if !ev.IsFinal() {
			continue
		}

		game, err := s.finalizeGame(ctx, ev, season, week)
		if err != nil {
			// One malformed event must not abort the rest of the week
			s.logger.Errorf("Skipping event %s: %v", ev.ID, err)
			continue
		}

		n, err := s.gradeGamePicks(ctx, game)
		if err != nil {
			return err
		}
		graded += n
	}

	s.logger.Infof("Graded %d picks for season %d week %d", graded, season, week)
	return nil
}

// finalizeGame upserts the final score and winner for an event. The winner is
// the side with the strictly greater score; a tie credits the away side.
// Grading only touches games that were posted: a final for a game with no
// stored row is an inconsistency, reported so the rest of the week proceeds.
func (s *PickemService) finalizeGame(ctx context.Context, ev *ESPNEvent, season, week int) (*models.Game, error) {
	game, err := ev.ToGame(season, week)
	if err != nil {
		return nil, err
	}

	stored, err := s.games.FindByID(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game %d: %w", game.ID, err)
	}
	if stored == nil {
		return nil, fmt.Errorf("no stored game for final event %d", game.ID)
	}

	home := ev.Competitor("home")
	away := ev.Competitor("away")
	game.HomeScore = home.ScoreValue()
	game.AwayScore = away.ScoreValue()
	if game.HomeScore > game.AwayScore {
		game.WinnerID = game.HomeTeamID
	} else {
		game.WinnerID = game.AwayTeamID
	}

	if err := s.games.Upsert(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to store final for game %d: %w", game.ID, err)
	}
	return game, nil
}

func (s *PickemService) gradeGamePicks(ctx context.Context, game *models.Game) (int, error) {
	picks, err := s.picks.FindByGame(ctx, game.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to load picks for game %d: %w", game.ID, err)
	}

	for i := range picks {
		picks[i].Grade(game.WinnerID)
	}
	if err := s.picks.UpsertMany(ctx, picks); err != nil {
		return 0, fmt.Errorf("failed to store graded picks for game %d: %w", game.ID, err)
	}
	return len(picks), nil
}

func (s *PickemService) postLeaderboards(ctx context.Context, season, gradedWeek int) error {
	weekPicks, err := s.picks.FindByWeek(ctx, season, gradedWeek)
	if err != nil {
		return fmt.Errorf("failed to load week %d picks: %w", gradedWeek, err)
	}
	weekFields := s.leaderboard.RenderFields(s.leaderboard.ComputeEntries(weekPicks), nil)
	title := fmt.Sprintf("Week %d Results", gradedWeek)
	if err := s.surface.PostLeaderboard(ctx, title, weekFields); err != nil {
		return fmt.Errorf("failed to post week results: %w", err)
	}

	seasonPicks, err := s.picks.FindBySeason(ctx, season)
	if err != nil {
		return fmt.Errorf("failed to load season picks: %w", err)
	}
	seasonFields := s.leaderboard.RenderFields(s.leaderboard.ComputeEntries(seasonPicks), nil)
	title = fmt.Sprintf("%d Season Standings", season)
	if err := s.surface.PostLeaderboard(ctx, title, seasonFields); err != nil {
		return fmt.Errorf("failed to post season standings: %w", err)
	}
	return nil
}

// PostWeekPrompts fetches the week's schedule, stores the games, and posts a
// pick prompt per game. A week with no events posts a notice instead.
func (s *PickemService) PostWeekPrompts(ctx context.Context, season, week int) error {
	scoreboard, err := s.scoreboard.GetScoreboard(ctx, season, week)
	if err != nil {
		return fmt.Errorf("failed to fetch week %d schedule: %w", week, err)
	}

	if len(scoreboard.Events) == 0 {
		s.logger.Warnf("No games scheduled for season %d week %d", season, week)
		return s.surface.PostNotice(ctx, fmt.Sprintf("No NFL games scheduled for week %d.", week))
	}

	header := fmt.Sprintf("**NFL Pick'em, Week %d**\nPicks lock at kickoff. Tap a team below to pick.", week)
	if err := s.surface.PostNotice(ctx, header); err != nil {
		return fmt.Errorf("failed to post week header: %w", err)
	}

	posted := 0
	for i := range scoreboard.Events {
		ev := &scoreboard.Events[i]
		game, err := ev.ToGame(season, week)
		if err != nil {
			s.logger.Errorf("Skipping event %s: %v", ev.ID, err)
			continue
		}
		if err := s.games.Upsert(ctx, game); err != nil {
			return fmt.Errorf("failed to store game %d: %w", game.ID, err)
		}

		counts, err := s.PickCounts(ctx, game.ID)
		if err != nil {
			return err
		}
		prompt := &GamePrompt{Game: game, Line: ev.LineText(), Counts: counts}
		if err := s.surface.PostGamePrompt(ctx, prompt); err != nil {
			return fmt.Errorf("failed to post prompt for game %d: %w", game.ID, err)
		}
		posted++
	}

	if err := s.surface.PostPickInfo(ctx); err != nil {
		return fmt.Errorf("failed to post pick info footer: %w", err)
	}

	s.logger.Infof("Posted %d game prompts for season %d week %d", posted, season, week)
	return nil
}

// SubmitPick records or overwrites a user's pick for a game. Picks lock at
// kickoff; re-picking before kickoff resets any earlier grading state.
func (s *PickemService) SubmitPick(ctx context.Context, userID string, gameID, teamID int) (*models.Pick, error) {
	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}
	if game == nil {
		return nil, ErrUnknownGame
	}
	if teamID != game.HomeTeamID && teamID != game.AwayTeamID {
		return nil, ErrUnknownTeam
	}
	if game.HasStarted(s.now()) {
		return nil, ErrPicksClosed
	}

	pick := models.NewPick(gameID, userID)
	pick.Season = game.Season
	pick.Week = game.Week
	pick.WinningTeamID = teamID
	pick.PickedAt = s.now()

	if err := s.picks.Upsert(ctx, pick); err != nil {
		return nil, fmt.Errorf("failed to store pick for game %d user %s: %w", gameID, userID, err)
	}

	s.logger.Infof("User %s picked team %d for game %d", userID, teamID, gameID)
	return pick, nil
}

// PromptFor rebuilds the prompt data for a stored game, used when refreshing
// button counts after a pick.
func (s *PickemService) PromptFor(ctx context.Context, gameID int) (*GamePrompt, error) {
	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}
	if game == nil {
		return nil, ErrUnknownGame
	}
	counts, err := s.PickCounts(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return &GamePrompt{Game: game, Counts: counts}, nil
}

// PickCounts tallies picks per team for a game.
func (s *PickemService) PickCounts(ctx context.Context, gameID int) (map[int]int, error) {
	picks, err := s.picks.FindByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to count picks for game %d: %w", gameID, err)
	}
	counts := make(map[int]int)
	for _, pick := range picks {
		counts[pick.WinningTeamID]++
	}
	return counts, nil
}

// UserWeekPicks returns a user's picks for a week joined with their games,
// formatted one line per pick. Week 0 resolves to the current week.
func (s *PickemService) UserWeekPicks(ctx context.Context, userID string, week int) ([]string, error) {
	season, current := s.CurrentSeasonWeek()
	if week <= 0 {
		week = current
	}

	picks, err := s.picks.FindByUserAndWeek(ctx, userID, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load picks for user %s: %w", userID, err)
	}
	if len(picks) == 0 {
		return nil, nil
	}

	games, err := s.games.FindByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load week %d games: %w", week, err)
	}
	byID := make(map[int]*models.Game, len(games))
	for i := range games {
		byID[games[i].ID] = &games[i]
	}

	lines := make([]string, 0, len(picks))
	for _, pick := range picks {
		game, ok := byID[pick.GameID]
		if !ok {
			s.logger.Warnf("Pick references unknown game %d for user %s", pick.GameID, userID)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: **%s**", game.Matchup(), game.TeamName(pick.WinningTeamID)))
	}
	return lines, nil
}

// WeeklyLeaderboard renders the standings for one week.
func (s *PickemService) WeeklyLeaderboard(ctx context.Context, season, week int, resolve DisplayNameResolver) ([]LeaderboardField, error) {
	picks, err := s.picks.FindByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load week %d picks: %w", week, err)
	}
	return s.leaderboard.RenderFields(s.leaderboard.ComputeEntries(picks), resolve), nil
}

// SeasonLeaderboard renders the season-to-date standings.
func (s *PickemService) SeasonLeaderboard(ctx context.Context, season int, resolve DisplayNameResolver) ([]LeaderboardField, error) {
	picks, err := s.picks.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load season %d picks: %w", season, err)
	}
	return s.leaderboard.RenderFields(s.leaderboard.ComputeEntries(picks), resolve), nil
}
