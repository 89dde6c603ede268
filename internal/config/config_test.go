package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/kickoff-quiz/internal/question"
)

func setRequired(t *testing.T) {
	t.Setenv("PG_HOST", "localhost")
	t.Setenv("PG_USER", "quiz")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "quiz")
	t.Setenv("REDIS_ADDR", "localhost:6379")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "kickoff-quiz", cfg.Name)
	assert.Equal(t, 32.0, cfg.Match.KFactor)
	assert.Equal(t, "question_count", cfg.Match.TerminationMode)
	assert.Equal(t, int64(10), cfg.Match.TerminationValue)
	assert.Equal(t, "first_correct", cfg.Match.GoalPolicy)
	assert.Equal(t, time.Duration(0), cfg.Match.QuestionTimeout)
	assert.Equal(t, 2, cfg.Selector.MaxWidening)
	assert.Equal(t, 5*time.Minute, cfg.Selector.CacheTTL)
	assert.True(t, cfg.Selector.Prefetch)
	assert.Contains(t, cfg.Postgres.DSN(), "dbname=quiz")
	assert.Contains(t, cfg.Postgres.DSN(), "pool_max_conns=10")
	assert.NotContains(t, cfg.Postgres.ConnString(), "pool_max_conns")
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Minute, cfg.MatchRetention)
}

func TestLoad_AllowedOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("WS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadPostgres(t *testing.T) {
	setRequired(t)
	t.Setenv("PG_PORT", "6543")

	pg, err := LoadPostgres()
	require.NoError(t, err)
	assert.Equal(t, "host=localhost port=6543 user=quiz password=secret dbname=quiz sslmode=disable", pg.ConnString())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("PG_HOST", "")
	_, err := Load(context.Background())
	require.Error(t, err)
}

func TestLoad_RejectsDisabledWidening(t *testing.T) {
	setRequired(t)
	for _, v := range []string{"0", "-1"} {
		t.Setenv("SELECTOR_MAX_WIDENING", v)
		_, err := Load(context.Background())
		assert.ErrorContains(t, err, "SELECTOR_MAX_WIDENING", v)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("MATCH_TERMINATION_MODE", "score_target")
	t.Setenv("MATCH_TERMINATION_VALUE", "3")
	t.Setenv("MATCH_QUESTION_TIMEOUT", "7s")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "score_target", cfg.Match.TerminationMode)
	assert.Equal(t, int64(3), cfg.Match.TerminationValue)
	assert.Equal(t, 7*time.Second, cfg.Match.QuestionTimeout)
}

func TestLoadBands_DefaultWhenUnset(t *testing.T) {
	table, err := LoadBands("")
	require.NoError(t, err)
	assert.Equal(t, question.DefaultBandTable().BandFor(1200, 6), table.BandFor(1200, 6))
}

func TestLoadBands_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bands.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bands:
  - min_rating: 0
    band: {min: 1, max: 2}
  - min_rating: 1000
    band: {min: 3, max: 5}
`), 0o600))

	table, err := LoadBands(path)
	require.NoError(t, err)
	assert.Equal(t, question.Band{Min: 1, Max: 2}, table.BandFor(999, 6))
	assert.Equal(t, question.Band{Min: 3, Max: 5}, table.BandFor(1000, 6))
}

func TestLoadBands_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bands.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bands:\n  - min_rating: 0\n    band: {min: 4, max: 2}\n"), 0o600))

	_, err := LoadBands(path)
	require.Error(t, err)

	_, err = LoadBands(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
