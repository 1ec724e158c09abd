package lenticalib

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestLoadViews(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 3; i++ {
		writePNG(t, filepath.Join(dir, fmt.Sprintf("sample%d.png", i)), 6, 4, color.RGBA{uint8(i * 10), 0, 0, 255})
	}
	vs, err := LoadViews(dir, "sample%d.png", 3, 0, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 3, vs.Len())
	assert.Equal(t, 6, vs.Width())
	assert.Equal(t, 4, vs.Height())
	px, err := vs.View(2).Get(5, 3)
	require.NoError(t, err)
	assert.Equal(t, RGB{30, 0, 0}, px)
}

func TestLoadViewsSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "sample1.png"), 6, 4, color.White)
	writePNG(t, filepath.Join(dir, "sample2.png"), 5, 4, color.White)
	_, err := LoadViews(dir, "sample%d.png", 2, 0, 0, false)
	assert.ErrorIs(t, err, ErrViewMismatch)

	vs, err := LoadViews(dir, "sample%d.png", 2, 0, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 6, vs.View(1).Width)
	px, err := vs.View(1).Get(2, 2)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, px.R, uint8(250))
	assert.GreaterOrEqual(t, px.G, uint8(250))
	assert.GreaterOrEqual(t, px.B, uint8(250))
}

func TestLoadViewsRaw(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 2; i++ {
		b := NewPixelBuffer(5, 3)
		require.NoError(t, b.Set(4, 2, RGB{uint8(i), 2, 3}))
		require.NoError(t, b.SaveRaw(filepath.Join(dir, fmt.Sprintf("view%d.raw", i))))
	}
	vs, err := LoadViews(dir, "view%d.raw", 2, 0, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 5, vs.Width())
	assert.Equal(t, 3, vs.Height())
	px, err := vs.View(1).Get(4, 2)
	require.NoError(t, err)
	assert.Equal(t, RGB{2, 2, 3}, px)
}

func TestFitImageRejectsEmpty(t *testing.T) {
	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	_, err := fitImage(empty, 0, 0, false)
	assert.ErrorIs(t, err, ErrViewMismatch)
	_, err = fitImage(empty, 4, 4, true)
	assert.ErrorIs(t, err, ErrViewMismatch)
	_, err = fitImage(image.NewRGBA(image.Rect(0, 0, 3, 0)), 3, 2, true)
	assert.ErrorIs(t, err, ErrViewMismatch)
}

func TestLoadViewsMissing(t *testing.T) {
	_, err := LoadViews(t.TempDir(), "sample%d.bmp", 1, 0, 0, false)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = LoadViews(t.TempDir(), "sample%d.bmp", 0, 0, 0, false)
	assert.Error(t, err)
}
