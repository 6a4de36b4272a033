package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickCustomIDRoundTrip(t *testing.T) {
	id := pickCustomID(401547403, 11)
	assert.Equal(t, "nflpickem|401547403|11", id)

	gameID, teamID, ok := parsePickCustomID(id)
	assert.True(t, ok)
	assert.Equal(t, 401547403, gameID)
	assert.Equal(t, 11, teamID)
}

func TestParsePickCustomIDRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"wrong prefix", "othergame|100|11"},
		{"too few parts", "nflpickem|100"},
		{"too many parts", "nflpickem|100|11|extra"},
		{"non numeric game", "nflpickem|abc|11"},
		{"non numeric team", "nflpickem|100|xyz"},
		{"my picks sentinel", myPicksCustomID},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := parsePickCustomID(tt.id)
			assert.False(t, ok)
		})
	}
}

func TestPickButtonLabels(t *testing.T) {
	b := pickButton("\U0001F3E0", "Kansas City Chiefs", 100, 11, 0)
	assert.Equal(t, "\U0001F3E0 Kansas City Chiefs (0)", b.Label)
	assert.Equal(t, "nflpickem|100|11", b.CustomID)

	b = pickButton("✈️", "Las Vegas Raiders", 100, 22, 7)
	assert.Equal(t, "✈️ Las Vegas Raiders (7)", b.Label)
}
