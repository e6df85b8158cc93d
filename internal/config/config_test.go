package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "store-search-service", cfg.App.Name)
	assert.Equal(t, "Asia/Seoul", cfg.Search.TimeZone)
	assert.Equal(t, 100, cfg.Search.MaxPageSize)
	assert.Equal(t, 50, cfg.Search.TagFacetLimit)
	assert.Equal(t, 20, cfg.Search.MorningSaleLimit)
	assert.Equal(t, 10*time.Minute, mustParseEvery(t, cfg.Jobs.DealExpiry.Schedule))
	assert.Equal(t, 30*time.Second, cfg.Cache.SearchTTL)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
search:
  max_page_size: 50
  time_zone: UTC
cache:
  enabled: true
`), 0o600))

	t.Setenv("APP_SEARCH_MAX_PAGE_SIZE", "30")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Search.MaxPageSize, "env beats file")
	assert.Equal(t, "UTC", cfg.Search.TimeZone)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoad_RejectsInvalidSettings(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_SEARCH_TIME_ZONE", "Mars/Olympus")
	t.Setenv("APP_JOBS_DEAL_EXPIRY_SCHEDULE", "whenever")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.time_zone")
	assert.Contains(t, err.Error(), "jobs.deal_expiry.schedule")
}

func mustParseEvery(t *testing.T, spec string) time.Duration {
	t.Helper()

	d, err := time.ParseDuration(spec[len("@every "):])
	require.NoError(t, err)

	return d
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
