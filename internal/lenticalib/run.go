package lenticalib

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// NewViewsFromConfig loads the configured views, or builds synthetic ones
// when no view directory is set.
func NewViewsFromConfig(cfg *Config) (*ViewSet, error) {
	if cfg.Views.Dir == "" {
		DebugLog("No view dir configured, using %d synthetic %dx%d views", cfg.Views.Count, cfg.Width, cfg.Height)
		return SyntheticViews(cfg.Views.Count, cfg.Width, cfg.Height)
	}
	return LoadViews(cfg.Views.Dir, cfg.Views.Pattern, cfg.Views.Count, cfg.Width, cfg.Height, cfg.Views.ScaleToFit)
}

// NewSessionFromConfig wires views, compositor, capturer and the initial state
// described by cfg. The session is not started.
func NewSessionFromConfig(cfg *Config) (*Session, error) {
	views, err := NewViewsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	params := cfg.Lens.LensParams()
	if cfg.Resume != "" {
		if params, err = LoadParamsFile(cfg.Resume, params); err != nil {
			return nil, fmt.Errorf("resume: %w", err)
		}
		DebugLog("Resuming from %s: %s", cfg.Resume, params)
	}
	var capturer *Capturer
	if cfg.CaptureDir != "" {
		if capturer, err = NewCapturer(cfg.CaptureDir); err != nil {
			return nil, err
		}
	}
	comp := NewCompositor(cfg.Workers, cfg.Diagnostics || cfg.PlotDir != "")
	st := NewCalibrationState(params, cfg.Sweep.Sweep())
	return NewSession(comp, views, st, capturer), nil
}

// Run is the headless batch mode: it renders the initial state and then
// cfg.Frames-1 sweep steps, writing the configured outputs.
func Run(cfgPath string) error {
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	return RunConfig(context.Background(), cfg)
}

func RunConfig(ctx context.Context, cfg *Config) error {
	sess, err := NewSessionFromConfig(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	var frames []*PixelBuffer
	keep := func(f *Frame) {
		if cfg.GIFOut != "" || PNG || RAW {
			frames = append(frames, f.Canvas)
		}
	}

	start := time.Now()
	if err := sess.Start(ctx); err != nil {
		return err
	}
	last := sess.Latest()
	keep(last)
	captured := 0
	capture := func() error {
		if !cfg.CaptureEvery {
			return nil
		}
		if _, err := sess.Capture(); err != nil {
			return err
		}
		captured++
		return nil
	}
	if err := capture(); err != nil {
		return err
	}

	skipped := 0
	for k := 1; k < cfg.Frames; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if k%max(1, cfg.Frames/100) == 0 {
			fmt.Printf("[PROGRESS] %.2f%%\n", float64(k)*100/float64(cfg.Frames))
		}
		if _, err := sess.Advance(ctx); err != nil {
			if errors.Is(err, ErrDegenerateGeometry) {
				Logf("frame %d skipped: %v", k, err)
				skipped++
				continue
			}
			return err
		}
		f := sess.Latest()
		if f == last {
			continue
		}
		last = f
		keep(f)
		if err := capture(); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)
	DebugLog("Frames: %d (skipped %d), time: %s", cfg.Frames, skipped, elapsed)

	if !cfg.CaptureEvery && cfg.CaptureDir != "" {
		if _, err := sess.Capture(); err != nil {
			return err
		}
		captured++
	}
	DebugLog("Captured %d frames into %s", captured, cfg.CaptureDir)

	if last.Diagnostics != nil {
		s := last.Diagnostics.Summary()
		Logf("diagnostics: samples=%d offset mean=%.3f sd=%.3f range=[%d,%d] balance=%.3f",
			s.Samples, s.OffsetMean, s.OffsetStdDev, s.OffsetMin, s.OffsetMax, s.Balance)
		if cfg.PlotDir != "" {
			paths, err := last.Diagnostics.SavePlots(cfg.PlotDir, fmt.Sprintf("frame%03d", last.Seq))
			if err != nil {
				return err
			}
			DebugLog("Saved plots: %s", strings.Join(paths, ", "))
		}
	}

	if PNG {
		prefix := outputPrefix(cfg.PNGPrefix, cfg.GIFOut, "pngs")
		if err := SavePNGSequence(frames, prefix); err != nil {
			return err
		}
		DebugLog("Saved PNG sequence with prefix: %s", prefix)
	}
	if RAW {
		prefix := outputPrefix(cfg.RawPrefix, cfg.GIFOut, "raw")
		for k, f := range frames {
			if err := f.SaveRaw(FramePath(prefix, "raw", k, len(frames))); err != nil {
				return err
			}
		}
		DebugLog("Saved raw dumps with prefix: %s", prefix)
	}
	if cfg.GIFOut != "" {
		if err := SaveAnimatedGIF(frames, cfg.GIFOut, cfg.GIFDelay); err != nil {
			return err
		}
		DebugLog("Saved animated GIF: %s", cfg.GIFOut)
	}
	return nil
}

// outputPrefix is prefix when set, else the GIF path moved into dir without
// its extension, else dir/frame.
func outputPrefix(prefix, gifOut, dir string) string {
	if prefix != "" {
		return prefix
	}
	if gifOut == "" {
		return filepath.Join(dir, "frame")
	}
	base := strings.TrimSuffix(filepath.Base(gifOut), filepath.Ext(gifOut))
	return filepath.Join(dir, base)
}
