package lenticalib

import (
	"context"
	"errors"
)

// RenderFunc renders one step of a sweep. It returns the state the sweep
// continues from. That state is normally the proposed one; a caller may return
// its own state to fold in edits made while playing, or an Idle state to stop.
type RenderFunc func(ctx context.Context, proposed CalibrationState) (CalibrationState, error)

// Play steps st forward and renders it for as long as st is Playing and ctx
// is live. ctx is only checked between renders: a render that has started
// runs to completion, so every emitted frame is whole. A step whose geometry
// is degenerate is skipped and the sweep moves on. Any other render error
// stops the loop.
func Play(ctx context.Context, st CalibrationState, render RenderFunc) (CalibrationState, error) {
	steps := 0
	for st.Mode == Playing {
		if err := ctx.Err(); err != nil {
			DebugLog("Play cancelled after %d steps at %s", steps, st.Params)
			return st, err
		}
		next, err := render(context.WithoutCancel(ctx), st.StepForward())
		if err != nil {
			if !errors.Is(err, ErrDegenerateGeometry) {
				return st, err
			}
			Logf("play: skipping step: %v", err)
		}
		st = next
		steps++
	}
	DebugLog("Play stopped after %d steps at %s", steps, st.Params)
	return st, nil
}
