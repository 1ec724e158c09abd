package lenticalib

import "math"

// Channel indices for readability.
const (
	ChR = 0
	ChG = 1
	ChB = 2
	// bytes per pixel in a PixelBuffer row
	BytesPerPixel = 3
	// designer values of the calibration rig
	CanvasWidth     = 1692
	CanvasHeight    = 1062
	NumViews        = 8
	NumLenses       = 7
	ViewerDistance  = 150.0
	FocalPoint      = 2.792992
	Angle           = 2.845976
	PitchLens       = 0.015
	PitchPixel      = 0.0530421509
	AngleDelta      = 0.001
	PitchDelta      = 0.01
	AngleStart      = 0.0
	AngleRange      = math.Pi * 2.1
	FocalPointRange = 8.0
	PitchLensRange  = 10.0
	// knob nudges used by the viewer, as fractions of the knob range
	KnobStep = 1.0 / 2000
	// batch defaults
	Frames      = 1
	GIFDelay    = 5 // 100ths of a second per frame
	ViewPattern = "sample%d.bmp"
	// |x| below this is treated as zero by the geometry checks
	degenerateEps = 1e-6
	// config files above this size are refused
	maxConfigSize = 1 << 20
)
