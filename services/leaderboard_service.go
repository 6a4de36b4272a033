package services

import (
	"fmt"
	"sort"
	"strings"

	"huskerbot-go/logging"
	"huskerbot-go/models"
)

const pointsPerCorrectPick = 10

// maximum characters per embed field value imposed by Discord
const leaderboardFieldLimit = 1000

// LeaderboardEntry is one user's aggregated pick record.
type LeaderboardEntry struct {
	UserID  string
	Correct int
	Total   int
	Points  int
}

// DisplayNameResolver maps a user id to a human-readable name at render time.
// Aggregation never touches names so a failed lookup only degrades display,
// falling back to a mention of the raw id.
type DisplayNameResolver func(userID string) string

// LeaderboardService turns graded picks into ranked standings and renders
// them as Discord embed fields.
type LeaderboardService struct {
	logger *logging.Logger
}

func NewLeaderboardService() *LeaderboardService {
	return &LeaderboardService{
		logger: logging.WithPrefix("leaderboard"),
	}
}

// ComputeEntries aggregates picks per user and orders them by points
// descending, then user id ascending so equal scores render deterministically.
// Unprocessed picks count toward Total but never toward Correct.
func (s *LeaderboardService) ComputeEntries(picks []models.Pick) []LeaderboardEntry {
	byUser := make(map[string]*LeaderboardEntry)
	for _, pick := range picks {
		entry, ok := byUser[pick.UserID]
		if !ok {
			entry = &LeaderboardEntry{UserID: pick.UserID}
			byUser[pick.UserID] = entry
		}
		entry.Total++
		if pick.Processed && pick.CorrectPick {
			entry.Correct++
		}
	}

	entries := make([]LeaderboardEntry, 0, len(byUser))
	for _, entry := range byUser {
		entry.Points = entry.Correct * pointsPerCorrectPick
		entries = append(entries, *entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})

	return entries
}

// Ranks assigns standard competition ranks to sorted entries: ties share a
// rank and the next distinct score skips past them, so [30, 30, 20] ranks
// as [1, 1, 3].
func (s *LeaderboardService) Ranks(entries []LeaderboardEntry) []int {
	ranks := make([]int, len(entries))
	for i := range entries {
		if i > 0 && entries[i].Points == entries[i-1].Points {
			ranks[i] = ranks[i-1]
			continue
		}
		ranks[i] = i + 1
	}
	return ranks
}

func rankLabel(rank int) string {
	switch rank {
	case 1:
		return "\U0001F947" // gold
	case 2:
		return "\U0001F948" // silver
	case 3:
		return "\U0001F949" // bronze
	default:
		return fmt.Sprintf("%d.", rank)
	}
}

// LeaderboardField is a rendered embed field. The first field is titled
// "Leaderboard" and continuation fields "Leaderboard (cont.)".
type LeaderboardField struct {
	Name  string
	Value string
}

// RenderFields formats ranked entries into embed fields, starting a new
// field whenever adding a line would push the value past the Discord limit.
func (s *LeaderboardService) RenderFields(entries []LeaderboardEntry, resolve DisplayNameResolver) []LeaderboardField {
	if len(entries) == 0 {
		return []LeaderboardField{{Name: "Leaderboard", Value: "No picks recorded yet."}}
	}

	ranks := s.Ranks(entries)

	var fields []LeaderboardField
	var b strings.Builder
	for i, entry := range entries {
		name := "<@" + entry.UserID + ">"
		if resolve != nil {
			if resolved := resolve(entry.UserID); resolved != "" {
				name = resolved
			}
		}
		line := fmt.Sprintf("%s %s: %d points (%d/%d)\n", rankLabel(ranks[i]), name, entry.Points, entry.Correct, entry.Total)
		if b.Len() > 0 && b.Len()+len(line) > leaderboardFieldLimit {
			fields = append(fields, LeaderboardField{Name: fieldName(len(fields)), Value: strings.TrimRight(b.String(), "\n")})
			b.Reset()
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		fields = append(fields, LeaderboardField{Name: fieldName(len(fields)), Value: strings.TrimRight(b.String(), "\n")})
	}

	s.logger.Debugf("Rendered leaderboard with %d entries across %d fields", len(entries), len(fields))
	return fields
}

func fieldName(index int) string {
	if index == 0 {
		return "Leaderboard"
	}
	return "Leaderboard (cont.)"
}
