package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Alwanly/fleet-dashboard/pkg/poll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDashboardConfigDefaults(t *testing.T) {
	for _, k := range []string{"DASHBOARD_ADDR", "FLEET_API_URL", "REQUEST_TIMEOUT", "VISIBILITY_RESUME", "REDIS_HOST", "FEEDS_FILE", "LOG_LIMIT", "COALESCE_FEEDS"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadDashboardConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8090", cfg.ServerAddr)
	assert.Equal(t, "http://localhost:8081/api", cfg.FleetAPIURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, poll.ResumeRefetch, cfg.Resume)
	assert.Equal(t, 200, cfg.LogLimit)
	assert.False(t, cfg.CoalesceFeeds, "views poll independently unless asked")
	assert.False(t, cfg.RedisEnabled())
	assert.Empty(t, cfg.Feeds)
}

func TestLoadDashboardConfigFromEnv(t *testing.T) {
	t.Setenv("DASHBOARD_ADDR", ":9999")
	t.Setenv("VISIBILITY_RESUME", "schedule")
	t.Setenv("REQUEST_TIMEOUT", "3")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("COALESCE_FEEDS", "true")
	t.Setenv("FEEDS_FILE", "")

	cfg, err := LoadDashboardConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.ServerAddr)
	assert.Equal(t, poll.ResumeSchedule, cfg.Resume)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.CoalesceFeeds)
}

func TestLoadDashboardConfigOverridesWinOverEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feeds:\n  nodes:\n    interval: 7s\n"), 0o600))

	t.Setenv("DASHBOARD_ADDR", ":9999")
	t.Setenv("FLEET_API_URL", "http://env.invalid/api")
	t.Setenv("FEEDS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("VISIBILITY_RESUME", "")

	cfg, err := LoadDashboardConfigWith(DashboardOverrides{
		Addr:        ":7070",
		FleetAPIURL: "http://flag.invalid/api",
		FeedsFile:   path,
	})
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.ServerAddr)
	assert.Equal(t, "http://flag.invalid/api", cfg.FleetAPIURL)
	assert.Equal(t, path, cfg.FeedsFile)

	nodes, ok := cfg.Override("nodes")
	require.True(t, ok)
	assert.Equal(t, 7*time.Second, nodes.Interval)

	// the process environment is left alone
	assert.Equal(t, ":9999", os.Getenv("DASHBOARD_ADDR"))
}

func TestLoadDashboardConfigEmptyOverridesKeepEnv(t *testing.T) {
	t.Setenv("DASHBOARD_ADDR", ":9999")
	t.Setenv("FEEDS_FILE", "")
	t.Setenv("VISIBILITY_RESUME", "")

	cfg, err := LoadDashboardConfigWith(DashboardOverrides{})
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.ServerAddr)
}

func TestLoadDashboardConfigRejectsUnknownResumePolicy(t *testing.T) {
	t.Setenv("VISIBILITY_RESUME", "sometimes")
	t.Setenv("FEEDS_FILE", "")

	_, err := LoadDashboardConfig()
	require.Error(t, err)
}

func TestLoadDashboardConfigReadsFeedsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	doc := "feeds:\n  nodes:\n    interval: 5s\n  deployment_settings:\n    enabled: false\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	t.Setenv("FEEDS_FILE", path)
	t.Setenv("VISIBILITY_RESUME", "")

	cfg, err := LoadDashboardConfig()
	require.NoError(t, err)

	nodes, ok := cfg.Override("nodes")
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, nodes.Interval)
	assert.Nil(t, nodes.Enabled)

	settings, ok := cfg.Override("deployment_settings")
	require.True(t, ok)
	require.NotNil(t, settings.Enabled)
	assert.False(t, *settings.Enabled)
}

func TestLoadDashboardConfigMissingFeedsFile(t *testing.T) {
	t.Setenv("FEEDS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("VISIBILITY_RESUME", "")

	_, err := LoadDashboardConfig()
	require.Error(t, err)
}

func TestParseFeedsRejectsNegativeInterval(t *testing.T) {
	_, err := ParseFeeds([]byte("feeds:\n  nodes:\n    interval: -1s\n"))
	require.Error(t, err)
}

func TestLoadMockAPIConfigDefaults(t *testing.T) {
	t.Setenv("MOCKAPI_ADDR", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("SEED_NODES", "")
	t.Setenv("HEARTBEAT_INTERVAL", "")

	cfg, err := LoadMockAPIConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.ServerAddr)
	assert.Equal(t, "./data/fleet.db", cfg.DatabasePath)
	assert.Equal(t, 6, cfg.SeedNodes)
	assert.Equal(t, 5*time.Second, cfg.Heartbeat)
}

func TestLoadMockAPIConfigHeartbeatDisabled(t *testing.T) {
	t.Setenv("HEARTBEAT_INTERVAL", "0")
	t.Setenv("SEED_NODES", "2")

	cfg, err := LoadMockAPIConfig()
	require.NoError(t, err)
	assert.Zero(t, cfg.Heartbeat)
	assert.Equal(t, 2, cfg.SeedNodes)
}
