package lenticalib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "cfg.json", "{}"))
	require.NoError(t, err)
	assert.Equal(t, CanvasWidth, cfg.Width)
	assert.Equal(t, CanvasHeight, cfg.Height)
	assert.Equal(t, NumViews, cfg.Views.Count)
	assert.Equal(t, ViewPattern, cfg.Views.Pattern)
	assert.Equal(t, Frames, cfg.Frames)
	assert.Equal(t, GIFDelay, cfg.GIFDelay)
	assert.Empty(t, cfg.CaptureDir, "captures are opt-in")
	assert.Equal(t, DefaultLensParams(), cfg.Lens.LensParams())
	assert.Equal(t, DefaultSweep(), cfg.Sweep.Sweep())
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "cfg.json", `{
		"width": 64, "height": 8,
		"views": {"dir": "samples", "count": 4},
		"lens": {"angle": 0, "numLenses": 3},
		"sweep": {"angleStart": 0.5, "pitchDelta": 0.2},
		"frames": 12
	}`))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 8, cfg.Height)
	assert.Equal(t, "samples", cfg.Views.Dir)
	assert.Equal(t, 4, cfg.Views.Count)
	assert.Equal(t, 12, cfg.Frames)

	p := cfg.Lens.LensParams()
	want := DefaultLensParams()
	want.Angle, want.NumLenses = 0, 3
	assert.Equal(t, want, p)

	sw := cfg.Sweep.Sweep()
	assert.Equal(t, float32(0.5), sw.AngleStart)
	assert.Equal(t, float32(0.2), sw.PitchDelta)
	assert.Equal(t, float32(AngleDelta), sw.AngleDelta)
}

func TestLoadConfigLoadedViewsKeepSize(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "cfg.json", `{"views": {"dir": "samples"}}`))
	require.NoError(t, err)
	assert.Zero(t, cfg.Width)
	assert.Zero(t, cfg.Height)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "cfg.yaml", "{}"))
	assert.ErrorContains(t, err, ".json extension")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "big.json", "{"+strings.Repeat(" ", maxConfigSize)+"}"))
	assert.ErrorContains(t, err, "too large")

	_, err = LoadConfig(writeConfig(t, "bad.json", "{"))
	assert.ErrorContains(t, err, "failed to parse")

	_, err = LoadConfig(writeConfig(t, "degenerate.json", `{"lens": {"focalPoint": 1, "viewerDistance": 1}}`))
	assert.ErrorIs(t, err, ErrDegenerateGeometry)

	_, err = LoadConfig(writeConfig(t, "sweep.json", `{"sweep": {"angleRange": 0}}`))
	assert.ErrorContains(t, err, "angleRange")

	_, err = LoadConfig(writeConfig(t, "workers.json", `{"workers": -1}`))
	assert.ErrorContains(t, err, "workers")

	_, err = LoadConfig(writeConfig(t, "capture.json", `{"captureEvery": true}`))
	assert.ErrorContains(t, err, "captureDir")
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "configs", "calibration.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultLensParams(), cfg.Lens.LensParams())
	assert.Equal(t, CanvasWidth, cfg.Width)
	assert.Equal(t, "captures", cfg.CaptureDir)
}
