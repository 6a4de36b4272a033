package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huskerbot-go/models"
	"huskerbot-go/services"
)

type stubGameStore struct {
	games []models.Game
}

func (s *stubGameStore) Upsert(context.Context, *models.Game) error { return nil }

func (s *stubGameStore) FindByID(_ context.Context, gameID int) (*models.Game, error) {
	for i := range s.games {
		if s.games[i].ID == gameID {
			return &s.games[i], nil
		}
	}
	return nil, nil
}

func (s *stubGameStore) FindByWeek(_ context.Context, season, week int) ([]models.Game, error) {
	var out []models.Game
	for _, g := range s.games {
		if g.Season == season && g.Week == week {
			out = append(out, g)
		}
	}
	return out, nil
}

type stubPickStore struct {
	picks []models.Pick
}

func (s *stubPickStore) Upsert(context.Context, *models.Pick) error { return nil }

func (s *stubPickStore) UpsertMany(context.Context, []models.Pick) error { return nil }

func (s *stubPickStore) FindByGameAndUser(context.Context, int, string) (*models.Pick, error) {
	return nil, nil
}

func (s *stubPickStore) FindByGame(_ context.Context, gameID int) ([]models.Pick, error) {
	var out []models.Pick
	for _, p := range s.picks {
		if p.GameID == gameID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubPickStore) FindByWeek(_ context.Context, season, week int) ([]models.Pick, error) {
	var out []models.Pick
	for _, p := range s.picks {
		if p.Season == season && p.Week == week {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubPickStore) FindBySeason(_ context.Context, season int) ([]models.Pick, error) {
	var out []models.Pick
	for _, p := range s.picks {
		if p.Season == season {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubPickStore) FindByUserAndWeek(_ context.Context, userID string, season, week int) ([]models.Pick, error) {
	var out []models.Pick
	for _, p := range s.picks {
		if p.UserID == userID && p.Season == season && p.Week == week {
			out = append(out, p)
		}
	}
	return out, nil
}

type noopScoreboard struct{}

func (noopScoreboard) GetScoreboard(context.Context, int, int) (*services.ESPNScoreboard, error) {
	return &services.ESPNScoreboard{}, nil
}

type noopSurface struct{}

func (noopSurface) ClearChannel(context.Context) error   { return nil }
func (noopSurface) EnsureReadOnly(context.Context) error { return nil }
func (noopSurface) PostLeaderboard(context.Context, string, []services.LeaderboardField) error {
	return nil
}
func (noopSurface) PostGamePrompt(context.Context, *services.GamePrompt) error { return nil }
func (noopSurface) PostPickInfo(context.Context) error                         { return nil }
func (noopSurface) PostNotice(context.Context, string) error                   { return nil }

func newTestRouter(t *testing.T, games *stubGameStore, picks *stubPickStore) *mux.Router {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	leaderboard := services.NewLeaderboardService()
	pickem := services.NewPickemService(games, picks, noopScoreboard{}, noopSurface{}, leaderboard, loc)
	pickem.SetClock(func() time.Time {
		return time.Date(2025, time.October, 7, 12, 0, 0, 0, loc)
	})

	router := mux.NewRouter()
	NewPickemAPIHandler(pickem, games, picks, leaderboard).RegisterRoutes(router)
	return router
}

func TestGetCurrentWeek(t *testing.T) {
	router := newTestRouter(t, &stubGameStore{}, &stubPickStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/pickem/week", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2025, body["season"])
	assert.Equal(t, 6, body["week"])
}

func TestGetGames(t *testing.T) {
	games := &stubGameStore{games: []models.Game{
		{ID: 100, Season: 2025, Week: 6, HomeTeam: "Chiefs", AwayTeam: "Raiders"},
		{ID: 200, Season: 2025, Week: 5, HomeTeam: "Bears", AwayTeam: "Packers"},
	}}
	router := newTestRouter(t, games, &stubPickStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/pickem/games", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body []models.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, 100, body[0].ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/pickem/games?week=5", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, 200, body[0].ID)
}

func TestGetGamesRejectsBadWeek(t *testing.T) {
	router := newTestRouter(t, &stubGameStore{}, &stubPickStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/pickem/games?week=soon", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPicksFilteredByUser(t *testing.T) {
	picks := &stubPickStore{picks: []models.Pick{
		{GameID: 100, UserID: "u1", Season: 2025, Week: 6, WinningTeamID: 11},
		{GameID: 100, UserID: "u2", Season: 2025, Week: 6, WinningTeamID: 22},
	}}
	router := newTestRouter(t, &stubGameStore{}, picks)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/pickem/picks?user=u1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body []models.Pick
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "u1", body[0].UserID)
}

func TestGetLeaderboard(t *testing.T) {
	picks := &stubPickStore{picks: []models.Pick{
		{GameID: 100, UserID: "u1", Season: 2025, Week: 5, Processed: true, CorrectPick: true},
		{GameID: 200, UserID: "u1", Season: 2025, Week: 6, Processed: true, CorrectPick: true},
		{GameID: 100, UserID: "u2", Season: 2025, Week: 5, Processed: true, CorrectPick: false},
	}}
	router := newTestRouter(t, &stubGameStore{}, picks)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/pickem/leaderboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body []services.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "u1", body[0].UserID)
	assert.Equal(t, 20, body[0].Points)

	// Week-scoped board only counts that week's picks
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/pickem/leaderboard?week=5", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, 10, body[0].Points)
}
