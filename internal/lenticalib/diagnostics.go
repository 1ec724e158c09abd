package lenticalib

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Diagnostics counts how often each pixel offset and each view was sampled
// during one recompute. It is observational only.
type Diagnostics struct {
	Offsets    map[int]int // pixel offset -> samples
	ViewCounts []int       // view index -> samples
}

func newDiagnostics(numViews int) *Diagnostics {
	return &Diagnostics{
		Offsets:    make(map[int]int),
		ViewCounts: make([]int, numViews),
	}
}

func (d *Diagnostics) record(s Sample) {
	d.Offsets[s.PixelOffset]++
	d.ViewCounts[s.View]++
}

// merge adds o into d. Both must have the same view count.
func (d *Diagnostics) merge(o *Diagnostics) {
	for k, v := range o.Offsets {
		d.Offsets[k] += v
	}
	for i, v := range o.ViewCounts {
		d.ViewCounts[i] += v
	}
}

// reduceDiagnostics sums the per-worker counters into one.
func reduceDiagnostics(numViews int, locals []*Diagnostics) *Diagnostics {
	out := newDiagnostics(numViews)
	for _, l := range locals {
		if l != nil {
			out.merge(l)
		}
	}
	return out
}

// Samples is the total number of recorded sub-pixel samples.
func (d *Diagnostics) Samples() int {
	n := 0
	for _, v := range d.ViewCounts {
		n += v
	}
	return n
}

// SortedOffsets returns the recorded offsets in ascending order.
func (d *Diagnostics) SortedOffsets() []int {
	keys := make([]int, 0, len(d.Offsets))
	for k := range d.Offsets {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Summary condenses Diagnostics into a few numbers.
type Summary struct {
	Samples      int
	OffsetMean   float64
	OffsetStdDev float64
	OffsetMin    int
	OffsetMax    int
	ViewShare    []float64 // fraction of samples per view
	// Balance is the entropy of ViewShare over log(N): 1 when all views are used
	// evenly, 0 when one view takes every sample.
	Balance float64
}

func (d *Diagnostics) Summary() Summary {
	s := Summary{Samples: d.Samples(), ViewShare: make([]float64, len(d.ViewCounts))}
	if s.Samples == 0 {
		return s
	}
	keys := d.SortedOffsets()
	xs := make([]float64, len(keys))
	ws := make([]float64, len(keys))
	for i, k := range keys {
		xs[i] = float64(k)
		ws[i] = float64(d.Offsets[k])
	}
	if len(keys) > 0 {
		s.OffsetMin, s.OffsetMax = keys[0], keys[len(keys)-1]
		s.OffsetMean, s.OffsetStdDev = stat.MeanStdDev(xs, ws)
		if len(keys) == 1 {
			s.OffsetStdDev = 0
		}
	}
	for i, v := range d.ViewCounts {
		s.ViewShare[i] = float64(v)
	}
	floats.Scale(1/floats.Sum(s.ViewShare), s.ViewShare)
	if n := len(s.ViewShare); n > 1 {
		s.Balance = stat.Entropy(s.ViewShare) / logN(n)
	} else {
		s.Balance = 1
	}
	return s
}
