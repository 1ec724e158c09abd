package lenticalib

import (
	"fmt"
	"math"
)

// LensParams describes the lenticular sheet over the panel. Angle is in radians;
// pitches, focal point and viewer distance share one length unit.
type LensParams struct {
	Angle          float32 `json:"angle"`
	PitchLens      float32 `json:"pitchLens"`
	PitchPixel     float32 `json:"pitchPixel"`
	FocalPoint     float32 `json:"focalPoint"`
	ViewerDistance float32 `json:"viewerDistance"`
	NumLenses      uint32  `json:"numLenses"`
}

// DefaultLensParams returns the rig's designer values.
func DefaultLensParams() LensParams {
	return LensParams{
		Angle:          Angle,
		PitchLens:      PitchLens,
		PitchPixel:     PitchPixel,
		FocalPoint:     FocalPoint,
		ViewerDistance: ViewerDistance,
		NumLenses:      NumLenses,
	}
}

func (p LensParams) String() string {
	return fmt.Sprintf("angle=%g pitchLens=%g pitchPixel=%g focalPoint=%g viewerDistance=%g numLenses=%d",
		p.Angle, p.PitchLens, p.PitchPixel, p.FocalPoint, p.ViewerDistance, p.NumLenses)
}

// Magnification is focalPoint*viewerDistance - 1.
func (p LensParams) Magnification() float32 {
	return float32(p.FocalPoint*p.ViewerDistance) - 1
}

func (p LensParams) degenerate(param string, v float32, reason string) error {
	return &GeometryError{Param: param, Value: float64(v), Reason: reason, Params: p}
}

// Projection is the width one lens covers on the pixel grid:
// (m+1)/m * pitchLens / cos(angle).
func (p LensParams) Projection() (float32, error) {
	mag := p.Magnification()
	if !isFinite(float64(mag)) || nearZero(float64(mag)) {
		return 0, p.degenerate("magnification", mag, "focalPoint*viewerDistance must differ from 1")
	}
	cos := float32(math.Cos(float64(p.Angle)))
	if nearZero(float64(cos)) {
		return 0, p.degenerate("angle", p.Angle, "cos(angle) is zero")
	}
	proj := float32(float32((mag+1)/mag)*p.PitchLens) / cos
	if !isFinite(float64(proj)) || nearZero(float64(proj)) {
		return 0, p.degenerate("pitchLens", p.PitchLens, "projection width is zero or not finite")
	}
	return proj, nil
}

// ViewsPerLens is projection / pitchPixel.
func (p LensParams) ViewsPerLens() (float32, error) {
	proj, err := p.Projection()
	if err != nil {
		return 0, err
	}
	if !isFinite(float64(p.PitchPixel)) || nearZero(float64(p.PitchPixel)) {
		return 0, p.degenerate("pitchPixel", p.PitchPixel, "pixel pitch is zero")
	}
	vpl := proj / p.PitchPixel
	if !isFinite(float64(vpl)) || nearZero(float64(vpl)) {
		return 0, p.degenerate("viewsPerLens", vpl, "views per lens is zero or not finite")
	}
	return vpl, nil
}

// Sample is where one output sub-pixel reads from.
type Sample struct {
	View        int // in [0, numViews)
	Raw         int // view index before reduction
	SourceX     int
	SourceY     int
	PixelOffset int
}

// Sampler maps an output sub-pixel to its source.
type Sampler interface {
	Sample(px, py, c int) Sample
}

// Lens is a validated LensParams with the per-frame constants precomputed.
// A Lens is immutable and safe for concurrent use.
type Lens struct {
	Params       LensParams
	Width        int
	NumViews     int
	tan          float32
	projection   float32
	viewsPerLens float32
	numLenses    float32
}

// NewLens validates p for a canvas width and a view count.
func NewLens(p LensParams, width, numViews int) (*Lens, error) {
	if width <= 0 {
		return nil, fmt.Errorf("canvas width must be positive, got %d", width)
	}
	if numViews <= 0 {
		return nil, fmt.Errorf("view count must be positive, got %d", numViews)
	}
	proj, err := p.Projection()
	if err != nil {
		return nil, err
	}
	vpl, err := p.ViewsPerLens()
	if err != nil {
		return nil, err
	}
	tan := float32(math.Tan(float64(p.Angle)))
	if !isFinite(float64(tan)) {
		return nil, p.degenerate("angle", p.Angle, "tan(angle) is not finite")
	}
	l := &Lens{
		Params:       p,
		Width:        width,
		NumViews:     numViews,
		tan:          tan,
		projection:   proj,
		viewsPerLens: vpl,
		numLenses:    float32(p.NumLenses),
	}
	DebugLog("Lens %s: projection=%g viewsPerLens=%g tan=%g", p, proj, vpl, tan)
	return l, nil
}

// ReduceView folds a raw view index into [0, n).
func ReduceView(raw, n int) int {
	return absInt(raw) % n
}

// Sample computes the source of channel c of output pixel (px, py). Each
// channel is shifted one lens row down, which stripes the sub-pixels.
// All steps are single precision; the explicit conversions keep products
// from being fused so results are bit-reproducible.
func (l *Lens) Sample(px, py, c int) Sample {
	row := py + c
	fx := float32(px)
	shear := float32(float32(row) * l.tan)

	xoffset := float32(math.Mod(float64(fx-shear), float64(l.projection)))
	pixelOffset := int(math.RoundToEven(float64(xoffset / l.pitchPixel())))

	stripe := float32(float32(3*row) * l.tan)
	phase := float32(math.Mod(float64(fx+xoffset-stripe), float64(l.viewsPerLens)))
	raw := int(math.RoundToEven(float64(float32(phase/l.viewsPerLens) * l.numLenses)))

	return Sample{
		View:        ReduceView(raw, l.NumViews),
		Raw:         raw,
		SourceX:     clampInt(px+pixelOffset, 0, l.Width-1),
		SourceY:     py,
		PixelOffset: pixelOffset,
	}
}

func (l *Lens) pitchPixel() float32 { return l.Params.PitchPixel }

// SampleAt is the one-shot form of NewLens(p, width, numViews).Sample(px, py, c).
func SampleAt(px, py, c int, p LensParams, width, numViews int) (Sample, error) {
	l, err := NewLens(p, width, numViews)
	if err != nil {
		return Sample{}, err
	}
	return l.Sample(px, py, c), nil
}
