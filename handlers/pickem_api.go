package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"huskerbot-go/logging"
	"huskerbot-go/models"
	"huskerbot-go/services"
)

// PickemAPIHandler serves read-only pick'em data over HTTP for dashboards
// and debugging. Mutations only happen through Discord.
type PickemAPIHandler struct {
	pickem      *services.PickemService
	games       services.GameStore
	picks       services.PickStore
	leaderboard *services.LeaderboardService
	logger      *logging.Logger
}

func NewPickemAPIHandler(pickem *services.PickemService, games services.GameStore, picks services.PickStore, leaderboard *services.LeaderboardService) *PickemAPIHandler {
	return &PickemAPIHandler{
		pickem:      pickem,
		games:       games,
		picks:       picks,
		leaderboard: leaderboard,
		logger:      logging.WithPrefix("api"),
	}
}

// RegisterRoutes mounts the pick'em API under /api/pickem.
func (h *PickemAPIHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/pickem").Subrouter()
	api.HandleFunc("/week", h.GetCurrentWeek).Methods("GET")
	api.HandleFunc("/games", h.GetGames).Methods("GET")
	api.HandleFunc("/picks", h.GetPicks).Methods("GET")
	api.HandleFunc("/leaderboard", h.GetLeaderboard).Methods("GET")
}

// GetCurrentWeek returns the resolved season and week.
func (h *PickemAPIHandler) GetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	season, week := h.pickem.CurrentSeasonWeek()
	h.writeJSON(w, map[string]int{"season": season, "week": week})
}

// GetGames returns the stored games for a week, defaulting to the current one.
func (h *PickemAPIHandler) GetGames(w http.ResponseWriter, r *http.Request) {
	season, week, ok := h.seasonWeek(w, r)
	if !ok {
		return
	}

	games, err := h.games.FindByWeek(r.Context(), season, week)
	if err != nil {
		h.logger.Errorf("Failed to load games for season %d week %d: %v", season, week, err)
		http.Error(w, "failed to load games", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, games)
}

// GetPicks returns picks for a week, optionally filtered to one user.
func (h *PickemAPIHandler) GetPicks(w http.ResponseWriter, r *http.Request) {
	season, week, ok := h.seasonWeek(w, r)
	if !ok {
		return
	}

	if userID := r.URL.Query().Get("user"); userID != "" {
		picks, err := h.picks.FindByUserAndWeek(r.Context(), userID, season, week)
		if err != nil {
			h.logger.Errorf("Failed to load picks for user %s: %v", userID, err)
			http.Error(w, "failed to load picks", http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, picks)
		return
	}

	picks, err := h.picks.FindByWeek(r.Context(), season, week)
	if err != nil {
		h.logger.Errorf("Failed to load picks for season %d week %d: %v", season, week, err)
		http.Error(w, "failed to load picks", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, picks)
}

// GetLeaderboard returns ranked entries for the season, or for one week when
// the week parameter is present.
func (h *PickemAPIHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	season, _ := h.pickem.CurrentSeasonWeek()
	if s := r.URL.Query().Get("season"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid season", http.StatusBadRequest)
			return
		}
		season = parsed
	}

	var picks []models.Pick
	var err error
	if weekParam := r.URL.Query().Get("week"); weekParam != "" {
		week, convErr := strconv.Atoi(weekParam)
		if convErr != nil {
			http.Error(w, "invalid week", http.StatusBadRequest)
			return
		}
		picks, err = h.picks.FindByWeek(r.Context(), season, week)
	} else {
		picks, err = h.picks.FindBySeason(r.Context(), season)
	}
	if err != nil {
		h.logger.Errorf("Failed to load picks for leaderboard: %v", err)
		http.Error(w, "failed to build leaderboard", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, h.leaderboard.ComputeEntries(picks))
}

// seasonWeek reads season/week query parameters, defaulting both to the
// currently resolved values.
func (h *PickemAPIHandler) seasonWeek(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	season, week := h.pickem.CurrentSeasonWeek()

	if s := r.URL.Query().Get("season"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid season", http.StatusBadRequest)
			return 0, 0, false
		}
		season = parsed
	}
	if s := r.URL.Query().Get("week"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid week", http.StatusBadRequest)
			return 0, 0, false
		}
		week = parsed
	}
	return season, week, true
}

func (h *PickemAPIHandler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Errorf("Failed to encode response: %v", err)
	}
}
