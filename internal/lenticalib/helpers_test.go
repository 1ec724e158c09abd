package lenticalib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// gridParams is a non-degenerate zero-angle geometry small enough to work out
// by hand: magnification 2, projection 1.5, viewsPerLens 1.5, two lenses.
func gridParams() LensParams {
	return LensParams{
		Angle:          0,
		PitchLens:      1,
		PitchPixel:     1,
		FocalPoint:     1,
		ViewerDistance: 3,
		NumLenses:      2,
	}
}

// Expected samples of gridParams for px = 0..7 on an 8 pixel wide canvas.
// Every row and channel is the same since tan(0) = 0.
var (
	gridViews   = []int{0, 1, 1, 0, 1, 1, 0, 1}
	gridSources = []int{0, 2, 2, 3, 5, 5, 6, 7}
	gridOffsets = []int{0, 1, 0, 0, 1, 0, 0, 1}
)

// gridValue is unique per (view, x) for a fixed (y, c) while v < 8 and x < 32,
// and differs between rows and channels.
func gridValue(v, x, y, c int) uint8 {
	return uint8(v*32+x) ^ uint8(y*7+c)
}

// gridViewSet returns n views of w x h where every channel encodes its view,
// position and channel index.
func gridViewSet(t *testing.T, n, w, h int) *ViewSet {
	t.Helper()
	views := make([]*PixelBuffer, n)
	for v := range n {
		b := NewPixelBuffer(w, h)
		for y := range h {
			for x := range w {
				for c := ChR; c <= ChB; c++ {
					require.NoError(t, b.SetChannel(x, y, c, gridValue(v, x, y, c)))
				}
			}
		}
		views[v] = b
	}
	vs, err := NewViewSet(views)
	require.NoError(t, err)
	return vs
}

func muteLogs(t *testing.T) {
	t.Helper()
	prev := Logf
	SetLogger(t.Logf)
	t.Cleanup(func() { Logf = prev })
}
