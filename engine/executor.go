package engine

import (
	"fmt"
)

// ============================================================================
// EXECUTOR — ChartSpec dispatcher
// ============================================================================
// Entry point: Execute(spec, view, opts...)
//
// Pipeline:
//   1. Apply filters from ChartSpec → SubView
//   2. Group and aggregate
//   3. Build chart config and table
//   4. Return Result
//
// Zero data copy: the engine reads consumer data through RecordView.
// ============================================================================

// Execute runs a ChartSpec against a RecordView and returns a render-ready Result.
//
// Options:
//   - WithDefaultMeasure(key): sets the measure when ChartSpec.Measure is empty
//   - WithPalette(p): colour assignment shared across charts
//   - WithLogger(l): debug logging
func Execute(spec ChartSpec, view RecordView, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)
	spec = NormalizeSpec(spec, cfg)

	if view.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", spec.ID, ErrNoData)
	}

	// 1. Apply filters → SubView (zero-copy)
	filtered := ApplyFilters(view, spec.Filters)
	if filtered.Len() == 0 {
		return nil, fmt.Errorf("%s: all %d records filtered out: %w", spec.ID, view.Len(), ErrNoData)
	}

	cfg.Logger.Debug("executing chart spec",
		"chart", spec.ID,
		"records", filtered.Len(),
		"from", view.Len(),
		"group_by", spec.GroupBy,
		"aggregation", spec.Aggregation,
		"measure", spec.Measure,
	)

	// 2. Group and aggregate
	groups := GroupAndAggregate(filtered, spec.GroupBy, spec.Measure, spec.Aggregation, spec.SortBy, spec.Order, spec.Limit)

	// 3. Build
	chart := BuildChart(spec, groups, cfg.Palette)
	if chart == nil {
		return nil, fmt.Errorf("%s: no groups to chart: %w", spec.ID, ErrNoData)
	}

	return &Result{
		Spec:        spec,
		ChartConfig: chart,
		TableData:   BuildTable(spec, groups),
		Records:     filtered.Len(),
	}, nil
}

// ============================================================================
// SPEC NORMALIZATION
// ============================================================================

// NormalizeSpec fills defaults the renderers rely on.
func NormalizeSpec(spec ChartSpec, cfg *config) ChartSpec {
	if spec.Measure == "" {
		spec.Measure = cfg.DefaultMeasure
	}
	if spec.Aggregation == "" {
		spec.Aggregation = AggMedian
	}
	if spec.Kind == "" {
		spec.Kind = KindBar
	}
	// Violins need the raw values of each group.
	if spec.Kind == KindViolin {
		spec.Aggregation = AggDistribution
	}
	if spec.ID == "" {
		spec.ID = spec.Kind + "_" + spec.GroupBy
	}
	return spec
}
