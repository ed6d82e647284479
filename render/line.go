package render

import (
	"fmt"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/spektr-org/carmarket/engine"
)

// drawLine plots each series against numeric x values parsed from the point
// labels (years, mileage bins).
func drawLine(p *plot.Plot, cfg *engine.ChartConfig) error {
	for _, s := range cfg.Series {
		xys := make(plotter.XYs, 0, len(s.Data))
		for _, pt := range s.Data {
			x, err := strconv.ParseFloat(pt.Label, 64)
			if err != nil {
				return fmt.Errorf("series %q: x label %q is not numeric", s.Name, pt.Label)
			}
			xys = append(xys, plotter.XY{X: x, Y: pt.Value})
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
		line.Color = hexColor(s.Color, 255)
		line.Width = vg.Points(2)
		points.Color = line.Color
		points.Radius = vg.Points(2)

		p.Add(line, points)
		if cfg.ShowLegend {
			p.Legend.Add(s.Name, line)
		}
	}

	if isThousands(cfg.Series) {
		p.X.Tick.Marker = wholeTicks(commaLabel)
	} else {
		p.X.Tick.Marker = wholeTicks(plainLabel)
	}
	return nil
}

// isThousands reports whether x values are large enough to want separators.
func isThousands(series []engine.ChartSeries) bool {
	for _, s := range series {
		for _, pt := range s.Data {
			if v, err := strconv.ParseFloat(pt.Label, 64); err == nil && v >= 10000 {
				return true
			}
		}
	}
	return false
}
