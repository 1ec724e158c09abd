package lenticalib

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
)

// Sidecar keys, in the order they are written.
const (
	keyAngle          = "Angle"
	keyLensPitch      = "LensPitch"
	keyLensFocalPoint = "LensFocalPoint"
	keyViewerDistance = "ViewerDistance"
	keyNumLenses      = "NumLenses"
)

var captureName = regexp.MustCompile(`^Image(\d{3,})\.bmp$`)

// Capture names the two files written for one captured frame.
type Capture struct {
	Index      int
	ImagePath  string
	ParamsPath string
}

// Capturer writes numbered ImageNNN.bmp / ParamsNNN.txt pairs into Dir.
type Capturer struct {
	Dir  string
	mu   sync.Mutex
	next int
}

// NewCapturer creates dir if needed. Numbering continues after the highest
// ImageNNN.bmp already there, so earlier captures are never overwritten.
func NewCapturer(dir string) (*Capturer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create capture dir: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list capture dir: %w", err)
	}
	next := 0
	for _, e := range entries {
		m := captureName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n >= next {
			next = n + 1
		}
	}
	DebugLog("Capturer in %s starts at %03d", dir, next)
	return &Capturer{Dir: dir, next: next}, nil
}

// Capture writes f's canvas as a 24-bit BMP and its lens parameters as a
// sidecar text file.
func (c *Capturer) Capture(f *Frame) (Capture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := Capture{
		Index:      c.next,
		ImagePath:  filepath.Join(c.Dir, fmt.Sprintf("Image%03d.bmp", c.next)),
		ParamsPath: filepath.Join(c.Dir, fmt.Sprintf("Params%03d.txt", c.next)),
	}
	if err := SaveBMP(f.Canvas, out.ImagePath); err != nil {
		return Capture{}, err
	}
	pf, err := os.Create(out.ParamsPath)
	if err != nil {
		return Capture{}, err
	}
	if err := WriteParams(pf, f.State.Params); err != nil {
		pf.Close()
		return Capture{}, err
	}
	if err := pf.Close(); err != nil {
		return Capture{}, err
	}
	c.next++
	return out, nil
}

// SaveBMP writes buf as an uncompressed 24-bit bitmap.
func SaveBMP(buf *PixelBuffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(f, buf); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// WriteParams writes one "key: value" line per lens parameter.
func WriteParams(w io.Writer, p LensParams) error {
	bw := bufio.NewWriter(w)
	lines := [][2]string{
		{keyAngle, formatFloat(p.Angle)},
		{keyLensPitch, formatFloat(p.PitchLens)},
		{keyLensFocalPoint, formatFloat(p.FocalPoint)},
		{keyViewerDistance, formatFloat(p.ViewerDistance)},
		{keyNumLenses, strconv.FormatUint(uint64(p.NumLenses), 10)},
	}
	for _, kv := range lines {
		if _, err := fmt.Fprintf(bw, "%s: %s\n", kv[0], kv[1]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ParseParams reads a sidecar written by WriteParams. Values missing from the
// sidecar, such as the pixel pitch, are taken from base. Unknown keys are ignored.
func ParseParams(r io.Reader, base LensParams) (LensParams, error) {
	p := base
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		key, val, ok := strings.Cut(text, ":")
		if !ok {
			return base, fmt.Errorf("line %d: expected \"key: value\", got %q", line, text)
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		if key == keyNumLenses {
			n, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return base, fmt.Errorf("line %d: %s: %w", line, key, err)
			}
			p.NumLenses = uint32(n)
			continue
		}
		var dst *float32
		switch key {
		case keyAngle:
			dst = &p.Angle
		case keyLensPitch:
			dst = &p.PitchLens
		case keyLensFocalPoint:
			dst = &p.FocalPoint
		case keyViewerDistance:
			dst = &p.ViewerDistance
		default:
			continue
		}
		v, err := strconv.ParseFloat(val, 32)
		if err != nil {
			return base, fmt.Errorf("line %d: %s: %w", line, key, err)
		}
		*dst = float32(v)
	}
	if err := sc.Err(); err != nil {
		return base, err
	}
	return p, nil
}

// LoadParamsFile reads a ParamsNNN.txt sidecar.
func LoadParamsFile(path string, base LensParams) (LensParams, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, err
	}
	defer f.Close()
	p, err := ParseParams(f, base)
	if err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
