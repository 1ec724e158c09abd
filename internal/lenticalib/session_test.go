package lenticalib

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGridSession(t *testing.T, capturer *Capturer) *Session {
	t.Helper()
	muteLogs(t)
	st := NewCalibrationState(gridParams(), DefaultSweep())
	s := NewSession(NewCompositor(2, true), gridViewSet(t, 2, 8, 2), st, capturer)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Close)
	return s
}

func TestSessionStart(t *testing.T) {
	s := newGridSession(t, nil)
	f := s.Latest()
	require.NotNil(t, f)
	assert.Equal(t, uint64(1), f.Seq)
	assert.Equal(t, gridParams(), f.State.Params)
	assert.NotNil(t, f.Diagnostics)
	assert.Equal(t, Idle, s.State().Mode)
}

func TestSessionStartDegenerate(t *testing.T) {
	p := gridParams()
	p.ViewerDistance = 1
	s := NewSession(NewCompositor(1, false), gridViewSet(t, 2, 8, 2), NewCalibrationState(p, DefaultSweep()), nil)
	assert.ErrorIs(t, s.Start(context.Background()), ErrDegenerateGeometry)
	assert.Nil(t, s.Latest())
}

func TestSessionStepping(t *testing.T) {
	s := newGridSession(t, nil)
	ctx := context.Background()
	d := DefaultSweep().AngleDelta

	require.NoError(t, s.Forward(ctx))
	assert.Equal(t, d, s.State().Params.Angle)
	assert.Equal(t, uint64(2), s.Latest().Seq)
	assert.Equal(t, s.State(), s.Latest().State)

	require.NoError(t, s.Backward(ctx))
	assert.Equal(t, float32(0), s.State().Params.Angle)
	assert.Equal(t, uint64(3), s.Latest().Seq)
}

func TestSessionRejectsDegenerate(t *testing.T) {
	s := newGridSession(t, nil)
	before := s.State()
	seq := s.Latest().Seq

	bad := gridParams()
	bad.FocalPoint = 1.0 / 3
	err := s.SetParams(context.Background(), bad)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
	assert.Equal(t, before, s.State())
	assert.Equal(t, seq, s.Latest().Seq)

	// Pitch knob at 0 makes the projection vanish.
	err = s.SetFraction(context.Background(), KnobPitchLens, 0)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
	assert.Equal(t, before, s.State())
}

func TestSessionNudge(t *testing.T) {
	s := newGridSession(t, nil)
	require.NoError(t, s.Nudge(context.Background(), KnobFocalPoint, KnobStep))
	assert.InDelta(t, 1+KnobStep*FocalPointRange, s.State().Params.FocalPoint, 1e-5)
	require.NoError(t, s.SetFraction(context.Background(), KnobAngle, 0.01))
	assert.InDelta(t, 0.01, s.State().Fraction(KnobAngle), 1e-6)
}

func TestSessionAdvanceCrossesDegenerateStep(t *testing.T) {
	s := newGridSession(t, nil)
	ctx := context.Background()
	sw := DefaultSweep()
	// One step before cos(angle) vanishes.
	p := gridParams()
	p.Angle = float32(1.5707964) - sw.AngleDelta
	require.NoError(t, s.SetParams(ctx, p))
	seq := s.Latest().Seq

	st, err := s.Advance(ctx)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
	assert.Equal(t, p.Angle+sw.AngleDelta, st.Params.Angle)
	assert.Equal(t, st, s.State())
	assert.Equal(t, seq, s.Latest().Seq)

	_, err = s.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, seq+1, s.Latest().Seq)
}

func TestSessionTogglePlay(t *testing.T) {
	s := newGridSession(t, nil)
	views := s.views

	var mu sync.Mutex
	var frames []*Frame
	s.OnFrame = func(f *Frame) {
		mu.Lock()
		frames = append(frames, f)
		mu.Unlock()
	}

	ctx := context.Background()
	s.TogglePlay(ctx)
	assert.True(t, s.Playing())
	require.Eventually(t, func() bool { return s.Latest().Seq >= 6 }, 5*time.Second, time.Millisecond)
	s.TogglePlay(ctx)
	assert.False(t, s.Playing())
	assert.Equal(t, Idle, s.State().Mode)

	// Nothing is published once the loop has stopped.
	seq := s.Latest().Seq
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, seq, s.Latest().Seq)

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(frames), 5)
	comp := NewCompositor(1, false)
	for i, f := range frames {
		if i > 0 {
			assert.Equal(t, frames[i-1].Seq+1, f.Seq)
			assert.Greater(t, f.State.Params.Angle, frames[i-1].State.Params.Angle)
		}
		want, _, err := comp.Recompute(ctx, f.State.Params, views)
		require.NoError(t, err)
		assert.True(t, want.Equal(f.Canvas), "frame %d does not match its state", f.Seq)
	}
}

func TestSessionPlayStopsWithContext(t *testing.T) {
	s := newGridSession(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	s.TogglePlay(ctx)
	cancel()
	require.Eventually(t, func() bool { return !s.Playing() }, 5*time.Second, time.Millisecond)
	assert.Equal(t, Idle, s.State().Mode)
}

func TestSessionCapture(t *testing.T) {
	s := newGridSession(t, nil)
	_, err := s.Capture()
	assert.Error(t, err)

	c, err := NewCapturer(t.TempDir())
	require.NoError(t, err)
	s = newGridSession(t, c)
	got, err := s.Capture()
	require.NoError(t, err)
	assert.Equal(t, 0, got.Index)
	assert.FileExists(t, got.ImagePath)
	assert.FileExists(t, got.ParamsPath)
}
