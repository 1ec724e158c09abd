package lenticalib

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// stripe period of the synthetic views, in pixels
const syntheticStripe = 8

var white = colorful.Color{R: 1, G: 1, B: 1}

// ViewColor is the base hue of synthetic view i of n. Hues are spread evenly
// around the HCL circle so neighboring views are easy to tell apart.
func ViewColor(i, n int) colorful.Color {
	return colorful.Hcl(360*float64(i)/float64(n), 0.55, 0.6).Clamped()
}

// SyntheticViews builds n calibration views of width x height. View i is
// filled with ViewColor(i, n), lightened on every other vertical stripe so
// horizontal source offsets show up on the canvas.
func SyntheticViews(n, width, height int) (*ViewSet, error) {
	if n <= 0 {
		return nil, fmt.Errorf("view count must be positive, got %d", n)
	}
	views := make([]*PixelBuffer, n)
	for i := range n {
		base := ViewColor(i, n)
		light := base.BlendLab(white, 0.35).Clamped()
		dark, bright := rgb255(base), rgb255(light)

		v := NewPixelBuffer(width, height)
		row := v.Pix[:width*BytesPerPixel]
		for x := range width {
			c := dark
			if (x/syntheticStripe)%2 == 1 {
				c = bright
			}
			p := x * BytesPerPixel
			row[p+ChR], row[p+ChG], row[p+ChB] = c.R, c.G, c.B
		}
		for y := 1; y < height; y++ {
			copy(v.Pix[y*v.Stride:], row)
		}
		views[i] = v
	}
	return NewViewSet(views)
}

func rgb255(c colorful.Color) RGB {
	r, g, b := c.RGB255()
	return RGB{r, g, b}
}
