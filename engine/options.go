package engine

import (
	"io"
	"log/slog"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	DefaultMeasure string // measure key if ChartSpec.Measure is empty
	Palette        *Palette
	Logger         *slog.Logger
}

// WithDefaultMeasure sets the measure to aggregate when ChartSpec.Measure is empty.
func WithDefaultMeasure(measure string) Option {
	return func(c *config) {
		c.DefaultMeasure = measure
	}
}

// WithPalette sets the palette used to colour series. Share one palette across
// specs to keep a key's colour identical on every chart.
func WithPalette(p *Palette) Option {
	return func(c *config) {
		c.Palette = p
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.Logger = l
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		DefaultMeasure: "price",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Palette == nil {
		cfg.Palette = NewPalette(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg
}
