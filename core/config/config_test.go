package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.Set("publisher_base_url", "https://api.example.test")
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("INSTA_USERNAME", "")
	t.Setenv("INSTA_PASSWORD", "")

	cfg, err := LoadConfig(newViper())
	require.NoError(t, err)

	assert.Equal(t, "session.json", cfg.Paths.SessionFile)
	assert.Equal(t, filepath.Join("logs", "schedule_log.txt"), filepath.Clean(cfg.Paths.LogFile))
	assert.Equal(t, 60*time.Second, cfg.Scheduler.CoarseThreshold)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.CoarseInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.Scheduler.FineMinimum)
	assert.Equal(t, 5*time.Second, cfg.Scheduler.InterJobDelay)
	assert.Equal(t, filepath.Join("storages", "history.db"), cfg.Database.Name)
	assert.Equal(t, 1080, cfg.Media.MaxWidth)
}

func TestLoadConfig_ReadsEnvironment(t *testing.T) {
	t.Setenv("INSTA_USERNAME", "alice")
	t.Setenv("INSTA_PASSWORD", "secret")
	t.Setenv("SCHEDULER_INTER_JOB_DELAY", "2s")
	t.Setenv("SESSION_FILE", "/var/lib/autopost/session.json")

	cfg, err := LoadConfig(newViper())
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.Credentials.Username)
	assert.Equal(t, "secret", cfg.Credentials.Password)
	assert.Equal(t, 2*time.Second, cfg.Scheduler.InterJobDelay)
	assert.Equal(t, "/var/lib/autopost/session.json", cfg.Paths.SessionFile)
}

func TestLoadConfig_RejectsBadScheduler(t *testing.T) {
	v := newViper()
	v.Set("scheduler_coarse_interval", "0s")

	_, err := LoadConfig(v)
	assert.Error(t, err)
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	v := newViper()
	v.Set("db_driver", "oracle")

	_, err := LoadConfig(v)
	assert.Error(t, err)
}

func TestLoadConfig_PublisherBaseURLRequired(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	t.Setenv("PUBLISHER_BASE_URL", "")

	_, err := LoadConfig(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PUBLISHER_BASE_URL")

	t.Setenv("PUBLISHER_BASE_URL", "https://api.example.test/")
	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.test/", cfg.Publisher.BaseURL)
}

func TestLoadConfig_ValkeyNeedsAddress(t *testing.T) {
	v := newViper()
	v.Set("valkey_enabled", true)
	v.Set("valkey_address", "")

	_, err := LoadConfig(v)
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	cfg := &Config{}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.App.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
