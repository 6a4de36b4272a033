package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPick(t *testing.T) {
	pick := NewPick(401547403, "123456789")

	assert.Equal(t, 401547403, pick.GameID)
	assert.Equal(t, "123456789", pick.UserID)
	assert.False(t, pick.Processed)
	assert.False(t, pick.CorrectPick)
}

func TestGrade(t *testing.T) {
	pick := NewPick(100, "u1")
	pick.WinningTeamID = 11

	pick.Grade(11)
	assert.True(t, pick.Processed)
	assert.True(t, pick.CorrectPick)

	pick.Grade(22)
	assert.True(t, pick.Processed)
	assert.False(t, pick.CorrectPick)
}
