package engine

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from ChartSpec + Groups
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// DefaultBrandColors are the house colours of the brands that have one.
// Every other brand takes the next colour of the default palette.
var DefaultBrandColors = map[string]string{
	"Ford":    "#2e659d",
	"Toyota":  "#eb081e",
	"BMW":     "#1997d8",
	"Porsche": "#e1be85",
	"VW":      "#082456",
}

// BuildChart produces a ChartConfig from a ChartSpec and aggregated groups.
func BuildChart(spec ChartSpec, groups []Group, palette *Palette) *ChartConfig {
	if len(groups) == 0 {
		return nil
	}

	chartType := spec.Kind
	if chartType == "" {
		chartType = KindBar
	}

	config := &ChartConfig{
		ID:         spec.ID,
		ChartType:  chartType,
		Title:      spec.Title,
		XAxis:      spec.XLabel,
		YAxis:      spec.YLabel,
		ShowLegend: spec.ShowLegend,
		ShowGrid:   true,
		TickAngle:  spec.TickAngle,
		Unit:       spec.Currency,
	}

	if config.XAxis == "" {
		config.XAxis = LabelForDimension(spec.GroupBy)
	}
	if config.YAxis == "" {
		config.YAxis = LabelForAggregation(spec.Aggregation)
	}

	if spec.ColorByKey {
		config.Series = buildKeyedSeries(groups, palette)
	} else {
		config.Series = buildSingleSeries(groups, spec.SeriesName)
		config.Series[0].Color = palette.Next()
	}

	config.Colors = make([]string, len(config.Series))
	for i, s := range config.Series {
		config.Colors[i] = s.Color
	}
	return config
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSingleSeries(groups []Group, seriesName string) []ChartSeries {
	if seriesName == "" {
		seriesName = "Value"
	}

	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{
			Label: g.Label,
			Value: RoundTo2(g.Value),
		})
	}

	return []ChartSeries{{
		Name: seriesName,
		Data: points,
	}}
}

// buildKeyedSeries gives every group its own series, so renderers can colour
// and label each one (one violin or bar per brand).
func buildKeyedSeries(groups []Group, palette *Palette) []ChartSeries {
	series := make([]ChartSeries, 0, len(groups))
	for _, g := range groups {
		series = append(series, ChartSeries{
			Name:   g.Label,
			Data:   []ChartPoint{{Label: g.Label, Value: RoundTo2(g.Value)}},
			Color:  palette.For(g.Key),
			Values: g.Values,
		})
	}
	return series
}

// ============================================================================
// PALETTE — stable key → colour assignment
// ============================================================================

// Palette hands out colours: fixed ones for known keys, then the default
// palette in order of first request. The same key always gets the same colour.
type Palette struct {
	fixed    map[string]string
	assigned map[string]string
	next     int
}

// NewPalette creates a palette with fixed colours for some keys. Keys match
// case-insensitively; invalid hex values are ignored.
func NewPalette(fixed map[string]string) *Palette {
	p := &Palette{
		fixed:    make(map[string]string, len(fixed)),
		assigned: make(map[string]string),
	}
	for key, hex := range fixed {
		if c, err := colorful.Hex(hex); err == nil {
			p.fixed[strings.ToLower(key)] = c.Hex()
		}
	}
	return p
}

// For returns the colour for a key.
func (p *Palette) For(key string) string {
	if p == nil {
		return defaultColors[0]
	}
	if c, ok := p.fixed[strings.ToLower(key)]; ok {
		return c
	}
	if c, ok := p.assigned[key]; ok {
		return c
	}
	c := p.Next()
	p.assigned[key] = c
	return c
}

// Next returns the next unused default colour.
func (p *Palette) Next() string {
	if p == nil {
		return defaultColors[0]
	}
	c := defaultColors[p.next%len(defaultColors)]
	p.next++
	return c
}
