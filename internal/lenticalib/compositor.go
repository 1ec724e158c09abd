package lenticalib

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Compositor interleaves a ViewSet into one canvas for a given lens geometry.
type Compositor struct {
	Workers     int  // <= 0 means runtime.NumCPU()
	Diagnostics bool // collect offset/view histograms
}

func NewCompositor(workers int, diagnostics bool) *Compositor {
	return &Compositor{Workers: workers, Diagnostics: diagnostics}
}

func (c *Compositor) workers(rows int) int {
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if workers > rows {
		workers = rows
	}
	return workers
}

// Recompute builds a new canvas from scratch. The geometry is validated before
// any pixel is written; on error no canvas is returned. Diagnostics is nil
// unless c.Diagnostics is set.
func (c *Compositor) Recompute(ctx context.Context, p LensParams, views *ViewSet) (*PixelBuffer, *Diagnostics, error) {
	lens, err := NewLens(p, views.Width(), views.Len())
	if err != nil {
		return nil, nil, fmt.Errorf("recompute: %w", err)
	}
	start := time.Now()
	out := NewPixelBuffer(views.Width(), views.Height())

	// Rows are split evenly, with the remainder spread over the first workers.
	workers := c.workers(out.Height)
	DebugLogOnce("Compositing with %d workers", workers)
	base, rem := out.Height/workers, out.Height%workers
	locals := make([]*Diagnostics, workers)

	g, gctx := errgroup.WithContext(ctx)
	y0 := 0
	for w := 0; w < workers; w++ {
		n := base
		if w < rem {
			n++
		}
		lo, hi := y0, y0+n
		y0 = hi
		var local *Diagnostics
		if c.Diagnostics {
			local = newDiagnostics(views.Len())
			locals[w] = local
		}
		g.Go(func() error {
			for y := lo; y < hi; y++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				composeRow(lens, views, out, y, local)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("recompute: %w", err)
	}

	var diag *Diagnostics
	if c.Diagnostics {
		diag = reduceDiagnostics(views.Len(), locals)
	}
	DebugLog("Recompute %dx%d, %d views, %d workers: %s", out.Width, out.Height, views.Len(), workers, time.Since(start))
	return out, diag, nil
}

// composeRow fills row y of out. Only this row is written, so rows can be
// composed concurrently. An out-of-bounds access here is a geometry defect.
func composeRow(s Sampler, views *ViewSet, out *PixelBuffer, y int, diag *Diagnostics) {
	for px := 0; px < out.Width; px++ {
		for c := ChR; c <= ChB; c++ {
			smp := s.Sample(px, y, c)
			v, err := views.View(smp.View).Channel(smp.SourceX, smp.SourceY, c)
			if err != nil {
				panic(fmt.Sprintf("lenticalib: sample (%d, %d, %d) -> view %d: %v", px, y, c, smp.View, err))
			}
			if err := out.SetChannel(px, y, c, v); err != nil {
				panic(fmt.Sprintf("lenticalib: write (%d, %d, %d): %v", px, y, c, err))
			}
			if diag != nil {
				diag.record(smp)
			}
		}
	}
}
