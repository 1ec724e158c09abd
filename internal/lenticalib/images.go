package lenticalib

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// LoadImage decodes a BMP, PNG, JPEG or WebP file, or a .raw dump written
// by SaveRaw.
func LoadImage(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".raw") {
		b, err := LoadRaw(path)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// fitImage returns img unchanged when it already is w x h. Otherwise it is
// resampled to w x h when scale is set, or rejected.
func fitImage(img image.Image, w, h int, scale bool) (image.Image, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: image is empty", ErrViewMismatch)
	}
	if b.Dx() == w && b.Dy() == h {
		return img, nil
	}
	if !scale {
		return nil, fmt.Errorf("%w: image is %dx%d, canvas is %dx%d", ErrViewMismatch, b.Dx(), b.Dy(), w, h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}

// LoadViews reads count views named by pattern (a fmt verb taking the 1-based
// view number, e.g. "sample%d.bmp") from dir. A zero width or height takes
// the size of the first view.
func LoadViews(dir, pattern string, count, width, height int, scale bool) (*ViewSet, error) {
	if count <= 0 {
		return nil, fmt.Errorf("view count must be positive, got %d", count)
	}
	views := make([]*PixelBuffer, 0, count)
	for i := 1; i <= count; i++ {
		path := filepath.Join(dir, fmt.Sprintf(pattern, i))
		img, err := LoadImage(path)
		if err != nil {
			return nil, err
		}
		if width <= 0 || height <= 0 {
			width, height = img.Bounds().Dx(), img.Bounds().Dy()
		}
		img, err = fitImage(img, width, height, scale)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		views = append(views, FromImage(img))
		DebugLog("Loaded view %d from %s", i, path)
	}
	return NewViewSet(views)
}
