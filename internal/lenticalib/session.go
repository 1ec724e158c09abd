package lenticalib

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Frame is one finished canvas together with the state it was rendered for.
// Nothing writes to a Frame or its canvas once it is published.
type Frame struct {
	Seq         uint64
	State       CalibrationState
	Canvas      *PixelBuffer
	Diagnostics *Diagnostics // nil unless the compositor collects them
	Elapsed     time.Duration
}

// Session owns the calibration state of one interactive run. Commands are
// serialized; each accepted change is recomputed and published as the latest
// Frame. A change whose geometry is degenerate is rejected and the previous
// state is kept.
type Session struct {
	comp     *Compositor
	views    *ViewSet
	capturer *Capturer

	// OnFrame, if set before Start, is called with every published frame while
	// the session lock is held.
	OnFrame func(*Frame)

	mu     sync.Mutex
	state  CalibrationState
	seq    uint64
	latest atomic.Pointer[Frame]

	playCancel context.CancelFunc
	playDone   chan struct{}
}

// NewSession binds a compositor and a view set to an initial state. capturer
// may be nil, which disables Capture.
func NewSession(comp *Compositor, views *ViewSet, st CalibrationState, capturer *Capturer) *Session {
	st.Mode = Idle
	return &Session{comp: comp, views: views, capturer: capturer, state: st}
}

// Start renders the initial state.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.render(ctx, s.state)
	return err
}

// render recomputes next and, on success, commits it. s.mu must be held.
func (s *Session) render(ctx context.Context, next CalibrationState) (*Frame, error) {
	start := time.Now()
	canvas, diag, err := s.comp.Recompute(ctx, next.Params, s.views)
	if err != nil {
		return nil, err
	}
	s.seq++
	f := &Frame{
		Seq:         s.seq,
		State:       next,
		Canvas:      canvas,
		Diagnostics: diag,
		Elapsed:     time.Since(start),
	}
	s.state = next
	s.latest.Store(f)
	if s.OnFrame != nil {
		s.OnFrame(f)
	}
	return f, nil
}

// Latest returns the most recent frame, or nil before Start.
func (s *Session) Latest() *Frame { return s.latest.Load() }

// State returns the current calibration state.
func (s *Session) State() CalibrationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) apply(ctx context.Context, what string, fn func(CalibrationState) CalibrationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(s.state)
	if _, err := s.render(ctx, next); err != nil {
		if errors.Is(err, ErrDegenerateGeometry) {
			Logf("%s rejected: %v", what, err)
		}
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

func (s *Session) Forward(ctx context.Context) error {
	return s.apply(ctx, "step forward", CalibrationState.StepForward)
}

func (s *Session) Backward(ctx context.Context) error {
	return s.apply(ctx, "step backward", CalibrationState.StepBackward)
}

// Nudge moves a knob by delta slider units (see CalibrationState.Nudge).
func (s *Session) Nudge(ctx context.Context, k Knob, delta float64) error {
	return s.apply(ctx, "nudge "+k.String(), func(st CalibrationState) CalibrationState {
		return st.Nudge(k, delta)
	})
}

// SetFraction sets a knob from a slider position in [0, 1].
func (s *Session) SetFraction(ctx context.Context, k Knob, f float64) error {
	return s.apply(ctx, "set "+k.String(), func(st CalibrationState) CalibrationState {
		return st.WithFraction(k, f)
	})
}

// SetParams replaces the lens parameters wholesale.
func (s *Session) SetParams(ctx context.Context, p LensParams) error {
	return s.apply(ctx, "set params", func(st CalibrationState) CalibrationState {
		st.Params = p
		return st
	})
}

// Advance is one sweep step: it steps forward from the current state and
// renders. Unlike Forward, a degenerate step is not rejected: the state moves
// past it without a new frame, so a sweep can cross a singular angle. The
// error is still returned.
func (s *Session) Advance(ctx context.Context) (CalibrationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.StepForward()
	if _, err := s.render(ctx, next); err != nil {
		if errors.Is(err, ErrDegenerateGeometry) {
			s.state = next
		}
		return s.state, err
	}
	return s.state, nil
}

// Playing reports whether the play loop is running.
func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playCancel != nil
}

// TogglePlay starts the play loop, or stops it and waits until the frame in
// flight is published. The loop runs until toggled again, ctx is done or a
// render fails.
func (s *Session) TogglePlay(ctx context.Context) {
	s.mu.Lock()
	if s.playCancel != nil {
		cancel, done := s.playCancel, s.playDone
		s.mu.Unlock()
		cancel()
		<-done
		return
	}
	s.state = s.state.TogglePlay()
	playCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.playCancel, s.playDone = cancel, done
	st := s.state
	s.mu.Unlock()

	go func() {
		defer close(done)
		_, err := Play(playCtx, st, s.playStep)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			Logf("play stopped: %v", err)
		}
		s.mu.Lock()
		s.state.Mode = Idle
		s.playCancel, s.playDone = nil, nil
		s.mu.Unlock()
		cancel()
	}()
}

// playStep steps from the session's own state rather than the proposed one,
// so adjustments made while playing carry into the sweep.
func (s *Session) playStep(ctx context.Context, _ CalibrationState) (CalibrationState, error) {
	st, err := s.Advance(ctx)
	st.Mode = Playing
	return st, err
}

// Capture writes the latest frame through the session's Capturer.
func (s *Session) Capture() (Capture, error) {
	if s.capturer == nil {
		return Capture{}, errors.New("capture is disabled: no capture directory")
	}
	f := s.Latest()
	if f == nil {
		return Capture{}, errors.New("nothing to capture yet")
	}
	c, err := s.capturer.Capture(f)
	if err != nil {
		return Capture{}, err
	}
	Logf("captured %s and %s", c.ImagePath, c.ParamsPath)
	return c, nil
}

// Close stops the play loop, if any.
func (s *Session) Close() {
	if s.Playing() {
		s.TogglePlay(context.Background())
	}
}
