package render

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spektr-org/carmarket/engine"
)

const (
	violinHalfWidth = 0.4  // x units; brands sit one unit apart
	jitterWidth     = 0.3  // spread of the point cloud around the centre line
	violinAlpha     = 0x80 // fill opacity
)

// drawViolin draws, for each series, a mirrored density outline, an inner
// box plot and every observation as a jittered point.
func drawViolin(p *plot.Plot, cfg *engine.ChartConfig, seed uint64) error {
	names := make([]string, 0, len(cfg.Series))
	for i, s := range cfg.Series {
		names = append(names, s.Name)
		if len(s.Values) == 0 {
			continue
		}
		x := float64(i)

		outline, err := violinOutline(x, s.Values)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
		outline.Color = hexColor(s.Color, violinAlpha)
		outline.LineStyle.Color = hexColor(s.Color, 255)
		outline.LineStyle.Width = vg.Points(1)

		box, err := plotter.NewBoxPlot(vg.Points(8), x, plotter.Values(s.Values))
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
		box.FillColor = tint(s.Color, 0.6)
		box.BoxStyle.Color = hexColor(s.Color, 255)
		box.MedianStyle.Color = hexColor(s.Color, 255)
		box.WhiskerStyle.Color = hexColor(s.Color, 255)
		box.GlyphStyle.Radius = 0

		points, err := plotter.NewScatter(jitter(x, s.Values, rand.New(rand.NewPCG(seed, uint64(i)))))
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
		points.Color = hexColor(s.Color, 0xb0)
		points.Radius = vg.Points(1.2)
		points.Shape = draw.CircleGlyph{}

		p.Add(outline, points, box)
	}

	p.NominalX(names...)
	if cfg.TickAngle != 0 {
		p.X.Tick.Label.Rotation = -degreesToRadians(cfg.TickAngle)
		p.X.Tick.Label.XAlign = draw.XLeft
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return nil
}

// violinOutline builds the closed density polygon centred on x. The widest
// point of every violin is violinHalfWidth.
func violinOutline(x float64, values []float64) (*plotter.Polygon, error) {
	ys, ds := density(values)

	var peak float64
	for _, d := range ds {
		if d > peak {
			peak = d
		}
	}
	scale := 0.0
	if peak > 0 {
		scale = violinHalfWidth / peak
	}

	ring := make(plotter.XYs, 0, 2*len(ys))
	for i := range ys {
		ring = append(ring, plotter.XY{X: x + ds[i]*scale, Y: ys[i]})
	}
	for i := len(ys) - 1; i >= 0; i-- {
		ring = append(ring, plotter.XY{X: x - ds[i]*scale, Y: ys[i]})
	}
	return plotter.NewPolygon(ring)
}

// jitter spreads values horizontally around x so overlapping prices stay
// visible.
func jitter(x float64, values []float64, rng *rand.Rand) plotter.XYs {
	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: x + (rng.Float64()-0.5)*jitterWidth, Y: v}
	}
	return xys
}
