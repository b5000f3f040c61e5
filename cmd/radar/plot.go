package main

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// plotTargets saves an x/y scatter of every frame's targets, one series per
// frame, to path. The image format follows the file extension.
func plotTargets(results []frameResult, path string) error {
	if len(results) == 0 {
		return fmt.Errorf("no frames to plot")
	}

	p := plot.New()
	p.Title.Text = "Detected targets"
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.Add(plotter.NewGrid())

	for i, r := range results {
		if len(r.Targets.Targets) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(r.Targets.Targets))
		for j, t := range r.Targets.Targets {
			pts[j] = plotter.XY{X: t.Position.X, Y: t.Position.Y}
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("frame %d: %w", r.Seq, err)
		}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Shape = plotutil.Shape(i)
		scatter.GlyphStyle.Radius = vg.Points(2)
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("frame %d", r.Seq), scatter)
	}
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
