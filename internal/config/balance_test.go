package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	b := Default()
	assert.Equal(t, 5*time.Minute, b.PhotoValidityWindow.Std())
	assert.Equal(t, 30*time.Second, b.ClockSkewTolerance.Std())
	assert.Equal(t, 1.5, b.TierPhotoMult)
	assert.Equal(t, 2.0, b.TierBothMult)
	assert.Equal(t, 0.15, b.LootDropChance)
	assert.Equal(t, 4, b.DutyBoardSize)
	assert.Equal(t, 1, b.DutyClaimsPerDay)
}

func TestLoadOverridesOnTopOfDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "balance.yaml")
	raw := []byte("photo_validity_window: 10m\nloot_drop_chance: 0.5\nduty_board_size: 6\n")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	b, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, b.PhotoValidityWindow.Std())
	assert.Equal(t, 0.5, b.LootDropChance)
	assert.Equal(t, 6, b.DutyBoardSize)
	// Untouched fields keep their defaults.
	assert.Equal(t, 30*time.Second, b.ClockSkewTolerance.Std())
	assert.Equal(t, 1.75, b.TierLocationMult)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CQ_BALANCE", "")
	b, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default(), b)
}
