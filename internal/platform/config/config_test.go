package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecgf-team/roster-api/internal/app/growth"
	"github.com/ecgf-team/roster-api/internal/app/members"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, "roster.db", cfg.SQLitePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.StrictLevelRange)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"PORT":               "127.0.0.1:9000",
		"STORAGE_BACKEND":    " Postgres ",
		"DATABASE_URL":       "postgres://localhost/roster",
		"STRICT_LEVEL_RANGE": "true",
		"SHUTDOWN_TIMEOUT":   "3s",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, BackendPostgres, cfg.StorageBackend)
	assert.True(t, cfg.StrictLevelRange)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown backend":      {"STORAGE_BACKEND": "redis"},
		"postgres without dsn": {"STORAGE_BACKEND": "postgres"},
		"sqlite without path":  {"STORAGE_BACKEND": "sqlite", "SQLITE_PATH": " "},
		"malformed bool":       {"STRICT_LEVEL_RANGE": "maybe"},
		"malformed duration":   {"SHUTDOWN_TIMEOUT": "soon"},
		"negative ttl":         {"IDEMPOTENCY_TTL": "-1h"},
	}
	for name, environ := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(environ)
			assert.Error(t, err)
		})
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy([]byte("mentoring:\n  minLevelGap: 3\nsearch:\n  caseSensitive: true\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, p.Mentoring.MinLevelGap)
	assert.True(t, p.Mentoring.PreferSameArchetype, "unset keys keep their default")
	assert.True(t, p.Search.CaseSensitive)
	assert.True(t, p.Search.PartialMatch)

	assert.Equal(t, growth.Matcher{MinLevelGap: 3, PreferSameArchetype: true}, p.Mentoring)
	assert.Equal(t, members.SearchConfig{CaseSensitive: true, PartialMatch: true}, p.Search)

	empty, err := ParsePolicy(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), empty)

	_, err = ParsePolicy([]byte("mentoring:\n  minLevelGap: 0\n"))
	assert.Error(t, err)
	_, err = ParsePolicy([]byte("mentoring:\n  maxMentees: 3\n"))
	assert.Error(t, err, "unknown keys are rejected")
}

func TestLoadPolicy(t *testing.T) {
	p, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mentoring:\n  preferSameArchetype: false\n"), 0o600))
	p, err = LoadPolicy(path)
	require.NoError(t, err)
	assert.False(t, p.Mentoring.PreferSameArchetype)

	_, err = LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
