// Package pipeline runs the whole analysis: load, clean, aggregate, draw and
// export.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/vg"

	"github.com/spektr-org/carmarket/config"
	"github.com/spektr-org/carmarket/dataset"
	"github.com/spektr-org/carmarket/engine"
	"github.com/spektr-org/carmarket/export"
	"github.com/spektr-org/carmarket/render"
	"github.com/spektr-org/carmarket/schema"
)

// WorkbookFile is the name of the optional XLSX export.
const WorkbookFile = "carmarket.xlsx"

// jitterSeed keeps violin points in the same place between runs.
const jitterSeed = 2024

// cellSize is the drawing size of one dashboard subplot.
var cellSize = render.Size{Width: 6 * vg.Inch, Height: 4 * vg.Inch}

// BrandStat summarises one kept manufacturer.
type BrandStat struct {
	Brand       string  `json:"brand"`
	Listings    int     `json:"listings"`
	MedianPrice float64 `json:"medianPrice"`
}

// Report describes a finished run.
type Report struct {
	RunID     string             `json:"runId"`
	Source    string             `json:"source"`
	Malformed int                `json:"malformed"`
	Stats     dataset.CleanStats `json:"stats"`
	Headline  string             `json:"headline"`
	Brands    []BrandStat        `json:"brands"`
	Results   []*engine.Result   `json:"-"`
	Files     []string           `json:"files"`
	Duration  time.Duration      `json:"duration"`
}

// Run executes one analysis with cfg. Rendering fans out under an errgroup
// bound to ctx; the first failure cancels the remaining draws.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	report := &Report{RunID: uuid.NewString()}
	logger = logger.With("run", report.RunID)

	raw, err := load(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	report.Source = raw.Source
	report.Malformed = raw.Malformed

	cleaned, stats := dataset.Clean(raw, cfg.Clean)
	report.Stats = stats
	logger.Info("listings cleaned",
		"read", stats.Read,
		"duplicates", stats.Duplicates,
		"incomplete", stats.Incomplete,
		"out_of_range", stats.OutOfRange,
		"other_brands", stats.OtherBrands,
		"kept", stats.Kept,
	)
	if stats.Kept == 0 {
		return nil, fmt.Errorf("nothing left after cleaning %s: %w", raw.Source, dataset.ErrEmpty)
	}

	view := cleaned.View()
	palette := engine.NewPalette(engine.DefaultBrandColors)
	for _, spec := range Specs(cleaned) {
		result, err := engine.Execute(spec, view,
			engine.WithDefaultMeasure(schema.KeyPrice),
			engine.WithPalette(palette),
			engine.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", spec.ID, err)
		}
		report.Results = append(report.Results, result)
	}
	report.Brands = brandStats(report.Results)

	text := engine.BuildText(view, schema.KeyPrice, currency)
	report.Headline = fmt.Sprintf("%s listings · median price %s", humanize.Comma(int64(text.Count)), text.Value)

	pages, err := draw(ctx, report.Results, logger)
	if err != nil {
		return nil, err
	}
	pages.Meta = render.PageMeta{RunID: report.RunID, Source: raw.Source}
	pages.Dashboard.Title = cfg.Dashboard.Title
	pages.Dashboard.Height = cfg.Dashboard.Height
	pages.Dashboard.Headline = report.Headline

	files, err := export.WriteHTML(cfg.OutDir, pages)
	if err != nil {
		return nil, fmt.Errorf("write html: %w", err)
	}
	report.Files = append(report.Files, files...)

	files, err = writeData(cfg, report.Results)
	if err != nil {
		return nil, err
	}
	report.Files = append(report.Files, files...)

	report.Duration = time.Since(start)
	logger.Info("run complete", "files", len(report.Files), "duration", report.Duration)
	return report, nil
}

func load(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dataset.Raw, error) {
	opts := dataset.LoadOptions{Schema: schema.CarListings(), Logger: logger}
	switch cfg.Loader {
	case config.LoaderDuckDB:
		return dataset.LoadDuckDB(ctx, cfg.Input, opts)
	default:
		return dataset.Load(ctx, cfg.Input, opts)
	}
}

// draw renders every chart twice: titled for its own page and untitled at
// subplot size for the dashboard.
func draw(ctx context.Context, results []*engine.Result, logger *slog.Logger) (export.Pages, error) {
	single := make([]*render.Chart, len(results))
	cells := make([]*render.Chart, len(results))

	g, ctx := errgroup.WithContext(ctx)
	for i, result := range results {
		g.Go(func() error {
			chart, err := drawOne(ctx, result.ChartConfig, render.Options{Seed: jitterSeed})
			single[i] = chart
			return err
		})
		g.Go(func() error {
			chart, err := drawOne(ctx, result.ChartConfig, render.Options{Size: cellSize, HideTitle: true, Seed: jitterSeed})
			cells[i] = chart
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return export.Pages{}, err
	}
	logger.Debug("charts drawn", "charts", len(results))

	pages := export.Pages{
		Charts:    single,
		Dashboard: render.Dashboard{Charts: cells, LegendTitle: brandLegend},
	}
	for _, chart := range single {
		if chart.ID == ChartBrand {
			pages.Dashboard.Legend = chart.Legend
		}
	}
	return pages, nil
}

func drawOne(ctx context.Context, cfg *engine.ChartConfig, opts render.Options) (*render.Chart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	chart, err := render.Draw(cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("draw %s: %w", cfg.ID, err)
	}
	return chart, nil
}

func writeData(cfg *config.Config, results []*engine.Result) ([]string, error) {
	if !cfg.Export.CSV && !cfg.Export.XLSX {
		return nil, nil
	}
	charts := make([]*engine.ChartConfig, len(results))
	for i, r := range results {
		charts[i] = r.ChartConfig
	}

	var files []string
	if cfg.Export.CSV {
		written, err := export.WriteCSVFiles(cfg.OutDir, charts)
		if err != nil {
			return nil, fmt.Errorf("write csv: %w", err)
		}
		files = append(files, written...)
	}
	if cfg.Export.XLSX {
		path := filepath.Join(cfg.OutDir, WorkbookFile)
		if err := export.WriteWorkbook(path, charts); err != nil {
			return nil, fmt.Errorf("write xlsx: %w", err)
		}
		files = append(files, path)
	}
	return files, nil
}

// brandStats reads listing counts and median prices off the brand
// distribution chart, in quantity-chart order.
func brandStats(results []*engine.Result) []BrandStat {
	var dist, quantity *engine.ChartConfig
	for _, r := range results {
		switch r.Spec.ID {
		case ChartBrand:
			dist = r.ChartConfig
		case ChartQuantity:
			quantity = r.ChartConfig
		}
	}
	if dist == nil || quantity == nil {
		return nil
	}

	medians := make(map[string]float64, len(dist.Series))
	for _, s := range dist.Series {
		medians[s.Name] = engine.Median(s.Values)
	}
	stats := make([]BrandStat, 0, len(quantity.Series))
	for _, s := range quantity.Series {
		var n int
		if len(s.Data) > 0 {
			n = int(s.Data[0].Value)
		}
		stats = append(stats, BrandStat{Brand: s.Name, Listings: n, MedianPrice: medians[s.Name]})
	}
	return stats
}
