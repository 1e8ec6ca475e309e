package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/anthro.report/internal/anthro"
)

// SaveLoopPlot writes a reconstructed cross-section loop to a PNG file for
// offline inspection. The polygon is closed by repeating the first vertex.
func SaveLoopPlot(loop anthro.Loop, title, path string) error {
	if len(loop) == 0 {
		return fmt.Errorf("cannot plot empty loop")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	pts := make(plotter.XYs, 0, len(loop)+1)
	for _, v := range loop {
		pts = append(pts, plotter.XY{X: v.X, Y: v.Y})
	}
	pts = append(pts, plotter.XY{X: loop[0].X, Y: loop[0].Y})

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build loop line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	scatter, err := plotter.NewScatter(pts[:len(pts)-1])
	if err != nil {
		return fmt.Errorf("failed to build loop scatter: %w", err)
	}
	p.Add(scatter)

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}
