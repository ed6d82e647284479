// Package render draws engine chart configs as SVG figures with gonum/plot
// and lays them out as static HTML pages.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/spektr-org/carmarket/engine"
)

// ============================================================================
// FIGURES — ChartConfig → SVG
// ============================================================================
// One figure per ChartConfig. The chart type picks the drawer:
//   line: numeric x (year, mileage bin), one series
//   violin: one KDE outline + box + points per series (brand)
//   bar: one bar per series (brand)
// ============================================================================

// ErrUnsupportedChart is returned for chart types without a drawer.
var ErrUnsupportedChart = errors.New("unsupported chart type")

// Size is the drawing size of a figure. Pages scale the SVG with CSS.
type Size struct {
	Width, Height vg.Length
}

// DefaultSize fits one chart per page.
var DefaultSize = Size{Width: 9 * vg.Inch, Height: 5.5 * vg.Inch}

// Options controls how a figure is drawn.
type Options struct {
	Size Size
	// HideTitle leaves the title out of the SVG; the dashboard prints it as
	// the subplot heading instead.
	HideTitle bool
	// Seed fixes the jitter of violin points.
	Seed uint64
}

// LegendEntry is one coloured key of a figure legend.
type LegendEntry struct {
	Name  string
	Color string
}

// Chart is a drawn figure.
type Chart struct {
	ID     string
	Title  string
	SVG    []byte
	Legend []LegendEntry
	// LegendTitle heads the legend on a single-chart page.
	LegendTitle string
}

// Draw renders a chart config.
func Draw(cfg *engine.ChartConfig, opts Options) (*Chart, error) {
	if cfg == nil || len(cfg.Series) == 0 {
		return nil, fmt.Errorf("draw: %w", engine.ErrNoData)
	}
	if opts.Size.Width <= 0 || opts.Size.Height <= 0 {
		opts.Size = DefaultSize
	}

	p := newPlot(cfg, opts)

	var err error
	switch cfg.ChartType {
	case engine.KindLine:
		err = drawLine(p, cfg)
	case engine.KindViolin:
		err = drawViolin(p, cfg, opts.Seed)
	case engine.KindBar:
		err = drawBar(p, cfg, opts.Size)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedChart, cfg.ChartType)
	}
	if err != nil {
		return nil, fmt.Errorf("draw %s: %w", cfg.ID, err)
	}

	svg, err := writeSVG(p, opts.Size)
	if err != nil {
		return nil, fmt.Errorf("draw %s: %w", cfg.ID, err)
	}

	fig := &Chart{ID: cfg.ID, Title: cfg.Title, SVG: svg}
	if cfg.ShowLegend {
		fig.LegendTitle = cfg.XAxis
		for _, s := range cfg.Series {
			fig.Legend = append(fig.Legend, LegendEntry{Name: s.Name, Color: s.Color})
		}
	}
	return fig, nil
}

func newPlot(cfg *engine.ChartConfig, opts Options) *plot.Plot {
	p := plot.New()
	if !opts.HideTitle {
		p.Title.Text = cfg.Title
		p.Title.TextStyle.Font.Size = vg.Points(16)
		p.Title.Padding = vg.Points(8)
	}
	p.X.Label.Text = cfg.XAxis
	p.Y.Label.Text = cfg.YAxis

	if cfg.ShowGrid {
		grid := plotter.NewGrid()
		grid.Vertical.Color = nil
		grid.Horizontal.Color = color.Gray{Y: 225}
		p.Add(grid)
	}
	if cfg.Unit != "" {
		p.Y.Tick.Marker = wholeTicks(func(v float64) string { return engine.FormatCurrency(v, cfg.Unit) })
	} else {
		p.Y.Tick.Marker = wholeTicks(commaLabel)
	}
	return p
}

// writeSVG draws the plot and returns the bare <svg> element, without the
// XML prologue, ready to inline into HTML.
func writeSVG(p *plot.Plot, size Size) ([]byte, error) {
	c := vgsvg.New(size.Width, size.Height)
	p.Draw(draw.New(c))

	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write svg: %w", err)
	}
	out := buf.Bytes()
	if i := bytes.Index(out, []byte("<svg")); i > 0 {
		out = out[i:]
	}
	return out, nil
}

// ── Colours ──────────────────────────────────────────────────────────────────

var white = colorful.Color{R: 1, G: 1, B: 1}

// hexColor parses "#rrggbb" with the given opacity. Invalid input is black.
func hexColor(hex string, alpha uint8) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{A: alpha}
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

// tint mixes a colour with white; t=0 keeps it, t=1 is white.
func tint(hex string, t float64) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.White
	}
	return c.BlendRgb(white, t).Clamped()
}

func degreesToRadians(deg float64) float64 { return deg * math.Pi / 180 }
