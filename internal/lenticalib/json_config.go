package lenticalib

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ViewsCfg names the source views. An empty Dir selects synthetic views.
type ViewsCfg struct {
	Dir        string `json:"dir,omitempty"`
	Pattern    string `json:"pattern,omitempty"` // fmt verb over the 1-based view number
	Count      int    `json:"count,omitempty"`
	ScaleToFit bool   `json:"scaleToFit,omitempty"`
}

// LensCfg overrides the designer lens values. Omitted fields keep them.
type LensCfg struct {
	Angle          *float32 `json:"angle,omitempty"`
	PitchLens      *float32 `json:"pitchLens,omitempty"`
	PitchPixel     *float32 `json:"pitchPixel,omitempty"`
	FocalPoint     *float32 `json:"focalPoint,omitempty"`
	ViewerDistance *float32 `json:"viewerDistance,omitempty"`
	NumLenses      *uint32  `json:"numLenses,omitempty"`
}

type SweepCfg struct {
	AngleDelta *float32 `json:"angleDelta,omitempty"`
	PitchDelta *float32 `json:"pitchDelta,omitempty"`
	AngleStart *float32 `json:"angleStart,omitempty"`
	AngleRange *float32 `json:"angleRange,omitempty"`
}

type Config struct {
	Width       int      `json:"width,omitempty"`
	Height      int      `json:"height,omitempty"`
	Views       ViewsCfg `json:"views"`
	Lens        LensCfg  `json:"lens"`
	Sweep       SweepCfg `json:"sweep"`
	Resume      string   `json:"resume,omitempty"` // ParamsNNN.txt to start from
	Workers     int      `json:"workers,omitempty"`
	Diagnostics bool     `json:"diagnostics,omitempty"`

	// batch run
	Frames       int    `json:"frames,omitempty"`
	CaptureDir   string `json:"captureDir,omitempty"` // empty disables captures
	CaptureEvery bool   `json:"captureEvery,omitempty"`
	PlotDir      string `json:"plotDir,omitempty"`
	GIFOut       string `json:"gifOut,omitempty"`
	GIFDelay     int    `json:"gifDelay,omitempty"`
	PNGPrefix    string `json:"pngPrefix,omitempty"`
	RawPrefix    string `json:"rawPrefix,omitempty"`
}

// LensParams merges the configured overrides into DefaultLensParams.
func (c LensCfg) LensParams() LensParams {
	p := DefaultLensParams()
	set := func(dst *float32, v *float32) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Angle, c.Angle)
	set(&p.PitchLens, c.PitchLens)
	set(&p.PitchPixel, c.PitchPixel)
	set(&p.FocalPoint, c.FocalPoint)
	set(&p.ViewerDistance, c.ViewerDistance)
	if c.NumLenses != nil {
		p.NumLenses = *c.NumLenses
	}
	return p
}

// Sweep merges the configured overrides into DefaultSweep.
func (c SweepCfg) Sweep() Sweep {
	s := DefaultSweep()
	if c.AngleDelta != nil {
		s.AngleDelta = *c.AngleDelta
	}
	if c.PitchDelta != nil {
		s.PitchDelta = *c.PitchDelta
	}
	if c.AngleStart != nil {
		s.AngleStart = *c.AngleStart
	}
	if c.AngleRange != nil {
		s.AngleRange = *c.AngleRange
	}
	return s
}

// DefaultConfig is the designer rig: synthetic views on the full canvas.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Views.Count <= 0 {
		c.Views.Count = NumViews
	}
	if c.Views.Pattern == "" {
		c.Views.Pattern = ViewPattern
	}
	// Loaded views may define the canvas size; synthetic ones cannot.
	if c.Views.Dir == "" || c.Views.ScaleToFit {
		if c.Width <= 0 {
			c.Width = CanvasWidth
		}
		if c.Height <= 0 {
			c.Height = CanvasHeight
		}
	}
	if c.Frames <= 0 {
		c.Frames = Frames
	}
	if c.GIFDelay <= 0 {
		c.GIFDelay = GIFDelay
	}
}

// Validate checks values that would make every render fail.
func (c *Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("canvas size must not be negative, got %dx%d", c.Width, c.Height)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.CaptureEvery && c.CaptureDir == "" {
		return errors.New("captureEvery needs a captureDir")
	}
	if _, err := NewLens(c.Lens.LensParams(), max(c.Width, 1), c.Views.Count); err != nil {
		return err
	}
	sw := c.Sweep.Sweep()
	if sw.AngleRange <= 0 {
		return fmt.Errorf("sweep angleRange must be positive, got %g", sw.AngleRange)
	}
	if sw.AngleDelta < 0 {
		return fmt.Errorf("sweep angleDelta must not be negative, got %g", sw.AngleDelta)
	}
	return nil
}

// LoadConfig reads a JSON config. The file must have a .json extension and
// be at most 1MB. Omitted fields take the designer defaults.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	DebugLog("Loaded config from %s: canvas=%dx%d, views=%d, lens=%s, frames=%d", path, cfg.Width, cfg.Height, cfg.Views.Count, cfg.Lens.LensParams(), cfg.Frames)
	return &cfg, nil
}
