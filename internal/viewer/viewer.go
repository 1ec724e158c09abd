// Package viewer is the interactive shell around a lenticalib.Session: it
// shows the latest canvas with its status label and turns key presses into
// session commands.
package viewer

import (
	"context"
	"errors"
	"fmt"

	"github.com/lukaszgryglicki/lenticalib/internal/lenticalib"
)

var (
	// ErrNoDisplay is returned by Run in builds without a display backend.
	ErrNoDisplay = errors.New("viewer: no display backend in this build")
	// ErrQuit is returned by Dispatch for ActionQuit.
	ErrQuit = errors.New("viewer: quit")
)

// Action is one user command.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePlay
	ActionCapture
	ActionBackward
	ActionForward
	ActionFocalDown
	ActionFocalUp
	ActionPitchDown
	ActionPitchUp
	ActionAngleDown
	ActionAngleUp
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:       "none",
	ActionTogglePlay: "toggle play",
	ActionCapture:    "capture",
	ActionBackward:   "backward",
	ActionForward:    "forward",
	ActionFocalDown:  "focal down",
	ActionFocalUp:    "focal up",
	ActionPitchDown:  "pitch down",
	ActionPitchUp:    "pitch up",
	ActionAngleDown:  "angle down",
	ActionAngleUp:    "angle up",
	ActionQuit:       "quit",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// knobAction maps the nudge actions to a knob and a direction.
func knobAction(a Action) (lenticalib.Knob, float64, bool) {
	switch a {
	case ActionFocalDown:
		return lenticalib.KnobFocalPoint, -1, true
	case ActionFocalUp:
		return lenticalib.KnobFocalPoint, 1, true
	case ActionPitchDown:
		return lenticalib.KnobPitchLens, -1, true
	case ActionPitchUp:
		return lenticalib.KnobPitchLens, 1, true
	case ActionAngleDown:
		return lenticalib.KnobAngle, -1, true
	case ActionAngleUp:
		return lenticalib.KnobAngle, 1, true
	}
	return 0, 0, false
}

// Dispatch runs action a against sess. Knob nudges move by
// lenticalib.KnobStep of the knob range.
func Dispatch(ctx context.Context, sess *lenticalib.Session, a Action) error {
	if k, dir, ok := knobAction(a); ok {
		return sess.Nudge(ctx, k, dir*lenticalib.KnobStep)
	}
	switch a {
	case ActionNone:
		return nil
	case ActionTogglePlay:
		sess.TogglePlay(ctx)
		return nil
	case ActionCapture:
		_, err := sess.Capture()
		return err
	case ActionBackward:
		return sess.Backward(ctx)
	case ActionForward:
		return sess.Forward(ctx)
	case ActionQuit:
		return ErrQuit
	}
	return fmt.Errorf("viewer: unknown %s", a)
}
