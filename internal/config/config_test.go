package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ModePoseTryOne, cfg.Mode)
	assert.True(t, cfg.PhysicsEnabled)
	assert.True(t, cfg.CollisionCheckEnabled)
	assert.InDelta(t, 1.0/60.0, cfg.TimeStep, 1e-6)
	assert.Equal(t, float32(2), cfg.HandSpringStiffness)
	assert.Equal(t, float32(5), cfg.CollisionForce)
	assert.NoError(t, cfg.Validate())
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Mode = PhysicsMode(42)
	cfg.TimeStep = 0
	cfg.CollisionForce = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mode")
	assert.Contains(t, err.Error(), "time_step")
	assert.Contains(t, err.Error(), "collision_force")
	assert.NotContains(t, err.Error(), "hand_spring_stiffness")
}

func TestParseMode(t *testing.T) {
	cases := map[string]PhysicsMode{
		"original":      ModeOriginal,
		"pose-try-one":  ModePoseTryOne,
		"POSE":          ModePoseTryOne,
		"binary-search": ModeBinarySearch,
		"pca":           ModePosePCA,
		"3":             ModePosePCA,
		" 0 ":           ModeOriginal,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("nope")
	assert.Error(t, err)
	_, err = ParseMode("7")
	assert.Error(t, err)
}

func TestModeString(t *testing.T) {
	for _, m := range Modes() {
		parsed, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	assert.Equal(t, "PhysicsMode(9)", PhysicsMode(9).String())
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"sim.json": `{"mode": "binary-search", "collision_force": 8, "log_steps": true}`,
		"sim.yaml": "mode: binary-search\ncollision_force: 8\nlog_steps: true\n",
		"sim.toml": "mode = \"binary-search\"\ncollision_force = 8.0\nlog_steps = true\n",
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))

		cfg, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, ModeBinarySearch, cfg.Mode, name)
		assert.Equal(t, float32(8), cfg.CollisionForce, name)
		assert.True(t, cfg.LogSteps, name)
		// Untouched fields keep their defaults.
		assert.True(t, cfg.PhysicsEnabled, name)
		assert.Equal(t, float32(DefaultHandSpringStiffness), cfg.HandSpringStiffness, name)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "sim.ini"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"time_step": -1}`), 0644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time_step")
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Mode = ModePosePCA
	cfg.GrabDistanceThreshold = 3

	for _, name := range []string{"out.json", "out.yml", "out.toml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, cfg), name)
		loaded, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, cfg, loaded, name)
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"collision_force": 1}`), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan SimulationConfig, 16)
	require.NoError(t, Watch(ctx, path, func(c SimulationConfig) { changes <- c }, nil))

	require.NoError(t, os.WriteFile(path, []byte(`{"collision_force": 7}`), 0644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			if c.CollisionForce == 7 {
				return
			}
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}

func TestWatchRejectsUnknownFormat(t *testing.T) {
	err := Watch(context.Background(), "settings.ini", func(SimulationConfig) {}, nil)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}
