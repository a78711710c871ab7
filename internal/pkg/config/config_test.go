package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"geoattendance/backend/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPolicyDefaults(t *testing.T) {
	p, err := config.NewPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultTimezone, p.Location().String())
	assert.Equal(t, 8*time.Hour+10*time.Minute, p.Cutoff())
	assert.Equal(t, config.DefaultSummaryCacheTTL, p.SummaryCacheTTL)
}

func TestNewPolicyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timezone: America/Bogota\nlate_cutoff: \"09:05\"\nsummary_cache_ttl: 1m\n"), 0o600))

	p, err := config.NewPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, "America/Bogota", p.Location().String())
	assert.Equal(t, 9*time.Hour+5*time.Minute, p.Cutoff())
	assert.Equal(t, time.Minute, p.SummaryCacheTTL)
}

func TestNewPolicyRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("late_cutoff: \"25:00\"\n"), 0o600))

	_, err := config.NewPolicy(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("timezone: Mars/Olympus\n"), 0o600))
	_, err = config.NewPolicy(path)
	assert.Error(t, err)
}
