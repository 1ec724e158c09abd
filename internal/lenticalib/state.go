package lenticalib

import (
	"fmt"
	"strconv"
)

// Mode is the play state of a calibration session.
type Mode int

const (
	Idle Mode = iota
	Playing
)

func (m Mode) String() string {
	if m == Playing {
		return "playing"
	}
	return "idle"
}

// Sweep holds the step sizes and the angle range of a forward/backward sweep.
type Sweep struct {
	AngleDelta float32 `json:"angleDelta"`
	PitchDelta float32 `json:"pitchDelta"`
	AngleStart float32 `json:"angleStart"`
	AngleRange float32 `json:"angleRange"`
}

func DefaultSweep() Sweep {
	return Sweep{
		AngleDelta: AngleDelta,
		PitchDelta: PitchDelta,
		AngleStart: AngleStart,
		AngleRange: AngleRange,
	}
}

// CalibrationState is the parameter set being calibrated. It is a value:
// transitions return a new state and never touch the receiver.
type CalibrationState struct {
	Params LensParams
	Sweep  Sweep
	Mode   Mode
}

func NewCalibrationState(p LensParams, sw Sweep) CalibrationState {
	return CalibrationState{Params: p, Sweep: sw, Mode: Idle}
}

// StepForward advances the angle. Past the end of the range the angle restarts
// at 0 and the lens pitch moves one step, continuing the sweep.
func (s CalibrationState) StepForward() CalibrationState {
	s.Params.Angle += s.Sweep.AngleDelta
	if s.Params.Angle > s.Sweep.AngleRange {
		s.Params.Angle = 0
		s.Params.PitchLens += s.Sweep.PitchDelta
	}
	return s
}

// StepBackward is the mirror of StepForward: below the start the angle wraps
// to the end of the range and the lens pitch moves one step back.
func (s CalibrationState) StepBackward() CalibrationState {
	s.Params.Angle -= s.Sweep.AngleDelta
	if s.Params.Angle < s.Sweep.AngleStart {
		s.Params.Angle = s.Sweep.AngleRange
		s.Params.PitchLens -= s.Sweep.PitchDelta
	}
	return s
}

func (s CalibrationState) TogglePlay() CalibrationState {
	if s.Mode == Playing {
		s.Mode = Idle
	} else {
		s.Mode = Playing
	}
	return s
}

// Knob is one of the three adjustable parameters.
type Knob int

const (
	KnobFocalPoint Knob = iota
	KnobPitchLens
	KnobAngle
)

func (k Knob) String() string {
	switch k {
	case KnobFocalPoint:
		return "focalPoint"
	case KnobPitchLens:
		return "pitchLens"
	case KnobAngle:
		return "angle"
	}
	return fmt.Sprintf("knob(%d)", int(k))
}

// WithFraction sets knob k from a slider position f in [0, 1]: the focal point
// spans [0, FocalPointRange], the lens pitch [0, PitchLensRange] and the angle
// [AngleStart, AngleStart+AngleRange].
func (s CalibrationState) WithFraction(k Knob, f float64) CalibrationState {
	f = clamp01(f)
	switch k {
	case KnobFocalPoint:
		s.Params.FocalPoint = float32(f * FocalPointRange)
	case KnobPitchLens:
		s.Params.PitchLens = float32(f * PitchLensRange)
	case KnobAngle:
		s.Params.Angle = s.Sweep.AngleStart + float32(f*float64(s.Sweep.AngleRange))
	}
	return s
}

// Fraction is the slider position of knob k, the inverse of WithFraction.
func (s CalibrationState) Fraction(k Knob) float64 {
	switch k {
	case KnobFocalPoint:
		return float64(s.Params.FocalPoint) / FocalPointRange
	case KnobPitchLens:
		return float64(s.Params.PitchLens) / PitchLensRange
	case KnobAngle:
		if s.Sweep.AngleRange == 0 {
			return 0
		}
		return float64(s.Params.Angle-s.Sweep.AngleStart) / float64(s.Sweep.AngleRange)
	}
	return 0
}

// Nudge moves knob k by delta slider units.
func (s CalibrationState) Nudge(k Knob, delta float64) CalibrationState {
	return s.WithFraction(k, s.Fraction(k)+delta)
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// Label is the three-line status text shown next to the canvas.
func (s CalibrationState) Label() []string {
	return []string{
		"MicroLensFocalPoint: " + formatFloat(s.Params.FocalPoint),
		"PitchLens: " + formatFloat(s.Params.PitchLens),
		"Angle: " + formatFloat(s.Params.Angle),
	}
}
