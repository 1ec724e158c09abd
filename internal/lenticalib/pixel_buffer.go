package lenticalib

import (
	"fmt"
	"image"
	"image/color"
)

// RGB is one 24-bit pixel.
type RGB struct {
	R, G, B uint8
}

// PixelBuffer is a fixed-size 24-bit RGB raster. Rows are Stride bytes apart;
// Stride is Width*3 rounded up to a multiple of 4.
type PixelBuffer struct {
	Width, Height int
	Stride        int
	Pix           []uint8 // row-major: y*Stride + x*3 + c
}

func alignedStride(width int) int {
	stride := width * BytesPerPixel
	if stride%4 != 0 {
		stride = 4 * (stride/4 + 1)
	}
	return stride
}

// NewPixelBuffer allocates a zero-initialized (black) buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("pixel buffer size must be positive, got %dx%d", width, height))
	}
	stride := alignedStride(width)
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    make([]uint8, stride*height),
	}
}

// FromImage copies src into a new buffer. The origin of src.Bounds() maps to (0, 0).
func FromImage(src image.Image) *PixelBuffer {
	b := src.Bounds()
	buf := NewPixelBuffer(b.Dx(), b.Dy())
	for y := 0; y < buf.Height; y++ {
		row := buf.Pix[y*buf.Stride:]
		for x := 0; x < buf.Width; x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			p := x * BytesPerPixel
			row[p+ChR] = uint8(r >> 8)
			row[p+ChG] = uint8(g >> 8)
			row[p+ChB] = uint8(bl >> 8)
		}
	}
	return buf
}

func (b *PixelBuffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

func (b *PixelBuffer) offset(x, y int) int {
	return y*b.Stride + x*BytesPerPixel
}

// Get returns the pixel at (x, y).
func (b *PixelBuffer) Get(x, y int) (RGB, error) {
	if !b.inBounds(x, y) {
		return RGB{}, outOfBounds(x, y, b.Width, b.Height)
	}
	p := b.offset(x, y)
	return RGB{b.Pix[p+ChR], b.Pix[p+ChG], b.Pix[p+ChB]}, nil
}

// Set writes the pixel at (x, y).
func (b *PixelBuffer) Set(x, y int, c RGB) error {
	if !b.inBounds(x, y) {
		return outOfBounds(x, y, b.Width, b.Height)
	}
	p := b.offset(x, y)
	b.Pix[p+ChR] = c.R
	b.Pix[p+ChG] = c.G
	b.Pix[p+ChB] = c.B
	return nil
}

// Channel returns component c of the pixel at (x, y).
func (b *PixelBuffer) Channel(x, y, c int) (uint8, error) {
	if !b.inBounds(x, y) || c < ChR || c > ChB {
		return 0, outOfBounds(x, y, b.Width, b.Height)
	}
	return b.Pix[b.offset(x, y)+c], nil
}

// SetChannel writes component c of the pixel at (x, y).
func (b *PixelBuffer) SetChannel(x, y, c int, v uint8) error {
	if !b.inBounds(x, y) || c < ChR || c > ChB {
		return outOfBounds(x, y, b.Width, b.Height)
	}
	b.Pix[b.offset(x, y)+c] = v
	return nil
}

// Snapshot returns an independent deep copy.
func (b *PixelBuffer) Snapshot() *PixelBuffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Stride: b.Stride, Pix: pix}
}

// Equal reports whether both buffers hold the same pixels. Row padding is ignored.
func (b *PixelBuffer) Equal(o *PixelBuffer) bool {
	if b.Width != o.Width || b.Height != o.Height {
		return false
	}
	n := b.Width * BytesPerPixel
	for y := 0; y < b.Height; y++ {
		if string(b.Pix[y*b.Stride:y*b.Stride+n]) != string(o.Pix[y*o.Stride:y*o.Stride+n]) {
			return false
		}
	}
	return true
}

// RGBA converts the buffer into a packed RGBA byte slice (4 bytes per pixel, opaque),
// the layout display backends upload.
func (b *PixelBuffer) RGBA(dst []byte) []byte {
	need := b.Width * b.Height * 4
	if cap(dst) < need {
		dst = make([]byte, need)
	}
	dst = dst[:need]
	i := 0
	for y := 0; y < b.Height; y++ {
		row := b.Pix[y*b.Stride:]
		for x := 0; x < b.Width; x++ {
			p := x * BytesPerPixel
			dst[i+0] = row[p+ChR]
			dst[i+1] = row[p+ChG]
			dst[i+2] = row[p+ChB]
			dst[i+3] = 0xFF
			i += 4
		}
	}
	return dst
}

// ColorModel, Bounds and At make the buffer an image.Image so the standard
// encoders can write it. At returns black outside the extent.
func (b *PixelBuffer) ColorModel() color.Model { return color.RGBAModel }

func (b *PixelBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.Width, b.Height) }

func (b *PixelBuffer) At(x, y int) color.Color {
	if !b.inBounds(x, y) {
		return color.RGBA{A: 0xFF}
	}
	p := b.offset(x, y)
	return color.RGBA{R: b.Pix[p+ChR], G: b.Pix[p+ChG], B: b.Pix[p+ChB], A: 0xFF}
}
