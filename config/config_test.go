package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shiftbook/config"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := config.FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := config.FromEnv(env(map[string]string{
		"SHIFTBOOK_PORT":         "9090",
		"SHIFTBOOK_DB":           ":memory:",
		"SHIFTBOOK_CORS_ORIGINS": "https://a.example, ,https://b.example",
		"SHIFTBOOK_SESSION_TTL":  "30m",
	}))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestFromEnv_Invalid(t *testing.T) {
	for k, v := range map[string]string{
		"SHIFTBOOK_PORT":        "http",
		"SHIFTBOOK_SESSION_TTL": "-1h",
	} {
		_, err := config.FromEnv(env(map[string]string{k: v}))
		assert.Error(t, err, k)
	}
}

func TestLoad_FlagsWinOverEnv(t *testing.T) {
	// Load reads .env from the working directory
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SHIFTBOOK_DB=from-dotenv.db\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	t.Setenv("SHIFTBOOK_PORT", "9000")
	// godotenv exports what it reads into the process environment
	t.Cleanup(func() { os.Unsetenv("SHIFTBOOK_DB") })

	cfg, err := config.Load([]string{"-port", "7000"})
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "from-dotenv.db", cfg.DBPath)

	_, err = config.Load([]string{"-unknown"})
	assert.Error(t, err)
}
