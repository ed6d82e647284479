package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spektr-org/carmarket/engine"
)

// drawBar draws one bar per series, each in its series colour, in series
// order along a nominal x axis.
func drawBar(p *plot.Plot, cfg *engine.ChartConfig, size Size) error {
	width := barWidth(size, len(cfg.Series))
	names := make([]string, 0, len(cfg.Series))

	for i, s := range cfg.Series {
		names = append(names, s.Name)
		if len(s.Data) == 0 {
			continue
		}

		bar, err := plotter.NewBarChart(plotter.Values{s.Data[0].Value}, width)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
		bar.XMin = float64(i)
		bar.Color = hexColor(s.Color, 255)
		bar.LineStyle.Width = 0
		p.Add(bar)
	}

	p.NominalX(names...)
	p.Y.Min = 0
	if cfg.TickAngle != 0 {
		p.X.Tick.Label.Rotation = -degreesToRadians(cfg.TickAngle)
		p.X.Tick.Label.XAlign = draw.XLeft
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return nil
}

// barWidth leaves roughly a bar's width of space between neighbours.
func barWidth(size Size, n int) vg.Length {
	if n < 1 {
		n = 1
	}
	w := size.Width / vg.Length(2*n+2)
	if w > vg.Points(60) {
		w = vg.Points(60)
	}
	return w
}
