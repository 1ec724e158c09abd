package lenticalib

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SaveRaw dumps buf as-is: Width, Height and Stride as little-endian int32,
// followed by Height*Stride bytes of row data, padding included.
func (b *PixelBuffer) SaveRaw(path string) error {
	if len(b.Pix) != b.Stride*b.Height {
		return fmt.Errorf("pix length mismatch: got %d, expected %d (Stride*Height)", len(b.Pix), b.Stride*b.Height)
	}
	// Make sure parent directory exists.
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, v := range []int32{int32(b.Width), int32(b.Height), int32(b.Stride)} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	if _, err := w.Write(b.Pix); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// LoadRaw reads a dump written by SaveRaw.
func LoadRaw(path string) (*PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var hdr [3]int32
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read raw header: %w", err)
	}
	w, h, stride := int(hdr[0]), int(hdr[1]), int(hdr[2])
	if w <= 0 || h <= 0 || stride != alignedStride(w) {
		return nil, fmt.Errorf("bad raw header: width=%d height=%d stride=%d", w, h, stride)
	}
	b := NewPixelBuffer(w, h)
	if _, err := io.ReadFull(r, b.Pix); err != nil {
		return nil, fmt.Errorf("read raw pixels: %w", err)
	}
	return b, nil
}
