package lenticalib

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SavePlots renders the offset and view histograms of d as PNG bar charts
// into dir, named <prefix>_offsets.png and <prefix>_views.png.
func (d *Diagnostics) SavePlots(dir, prefix string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plot dir: %w", err)
	}

	keys := d.SortedOffsets()
	offsets := make(plotter.Values, len(keys))
	offsetLabels := make([]string, len(keys))
	for i, k := range keys {
		offsets[i] = float64(d.Offsets[k])
		offsetLabels[i] = strconv.Itoa(k)
	}
	views := make(plotter.Values, len(d.ViewCounts))
	viewLabels := make([]string, len(d.ViewCounts))
	for i, v := range d.ViewCounts {
		views[i] = float64(v)
		viewLabels[i] = strconv.Itoa(i)
	}

	s := d.Summary()
	offsetPath := filepath.Join(dir, prefix+"_offsets.png")
	title := fmt.Sprintf("Pixel offsets (mean %.3f, sd %.3f)", s.OffsetMean, s.OffsetStdDev)
	if err := saveBarChart(offsetPath, title, "Pixel offset", offsets, offsetLabels, color.RGBA{R: 40, G: 90, B: 200, A: 255}); err != nil {
		return nil, err
	}
	viewPath := filepath.Join(dir, prefix+"_views.png")
	title = fmt.Sprintf("Samples per view (balance %.3f)", s.Balance)
	if err := saveBarChart(viewPath, title, "View", views, viewLabels, color.RGBA{R: 200, G: 90, B: 40, A: 255}); err != nil {
		return nil, err
	}
	return []string{offsetPath, viewPath}, nil
}

func saveBarChart(path, title, xLabel string, values plotter.Values, labels []string, c color.Color) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Samples"

	if len(values) > 0 {
		bars, err := plotter.NewBarChart(values, vg.Points(12))
		if err != nil {
			return err
		}
		bars.Color = c
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.NominalX(labels...)
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}
