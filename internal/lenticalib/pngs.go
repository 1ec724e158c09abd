package lenticalib

import (
	"fmt"
	"image/png"
	"math"
	"os"
	"path/filepath"
)

// SavePNG writes buf as a lossless 8-bit RGB PNG.
func SavePNG(buf *PixelBuffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression} // still lossless
	if err := enc.Encode(f, buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FramePath is prefix_<k>.<ext> with k zero-padded to fit total frames.
func FramePath(prefix, ext string, k, total int) string {
	width := 1
	if total > 1 {
		width = int(math.Log10(float64(total-1))) + 1
	}
	return fmt.Sprintf("%s_%0*d.%s", prefix, width, k, ext)
}

// SavePNGSequence writes one PNG per frame, named by FramePath.
func SavePNGSequence(frames []*PixelBuffer, prefix string) error {
	if err := os.MkdirAll(filepath.Dir(prefix), 0o755); err != nil {
		return err
	}
	for k, frame := range frames {
		if err := SavePNG(frame, FramePath(prefix, "png", k, len(frames))); err != nil {
			return err
		}
	}
	return nil
}
