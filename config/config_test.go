package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("DISCORD_PICKEM_CHANNEL_ID", "123456789")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.Discord.Token)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "27017", cfg.Database.Port)
	assert.Equal(t, 10*time.Second, cfg.Database.Timeout)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "America/Chicago", cfg.App.Timezone)
	assert.Equal(t, "0 2 * * TUE", cfg.App.PickemCron)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_TIMEOUT", "30")
	t.Setenv("API_ENABLED", "false")
	t.Setenv("SEASON_OVERRIDE", "2024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 30*time.Second, cfg.Database.Timeout)
	assert.False(t, cfg.Server.Enabled)
	assert.Equal(t, 2024, cfg.App.SeasonOverride)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DISCORD_PICKEM_CHANNEL_ID", "123456789")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_TOKEN")
}

func TestLoadRequiresChannel(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("DISCORD_PICKEM_CHANNEL_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_PICKEM_CHANNEL_ID")
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_TIMEZONE")
}

func TestLocation(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	loc := cfg.Location()
	require.NotNil(t, loc)
	assert.Equal(t, "America/Chicago", loc.String())
}
