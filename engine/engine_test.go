package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// ENGINE TESTS
// ============================================================================

func rec(brand, year string, price, mileage float64) Record {
	return Record{
		Dimensions: map[string]string{"manufacturer": brand, "year": year},
		Measures:   map[string]float64{"price": price, "mileage": mileage},
	}
}

func sampleView() RecordView {
	return NewSliceView([]Record{
		rec("Ford", "2015", 6000, 80000),
		rec("BMW", "2012", 9000, 120000),
		rec("Ford", "2012", 4000, 90000),
		rec("Toyota", "2018", 12000, 30000),
		rec("Ford", "2018", 10000, 40000),
		rec("BMW", "2018", 20000, 25000),
	})
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{7}, 7},
		{"odd", []float64{3, 1, 2}, 2},
		{"even averages middle pair", []float64{4, 1, 3, 2}, 2.5},
		{"duplicates", []float64{5, 5, 5, 5}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Median(tt.values), 1e-9)
		})
	}
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Median(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestApplyFiltersRanges(t *testing.T) {
	view := sampleView()

	filtered := ApplyFilters(view, Filters{
		Ranges: map[string]Range{
			"price":   Between(5000, 12000),
			"mileage": AtMost(100000),
		},
	})

	require.Equal(t, 3, filtered.Len())
	for i := 0; i < filtered.Len(); i++ {
		p := filtered.Measure(i, "price")
		assert.GreaterOrEqual(t, p, 5000.0)
		assert.LessOrEqual(t, p, 12000.0)
		assert.LessOrEqual(t, filtered.Measure(i, "mileage"), 100000.0)
	}
}

func TestApplyFiltersDimensionsCaseInsensitive(t *testing.T) {
	filtered := ApplyFilters(sampleView(), Filters{
		Dimensions: map[string][]string{"manufacturer": {"ford", "TOYOTA"}},
	})
	assert.Equal(t, 4, filtered.Len())
}

func TestApplyFiltersEmptyReturnsSameView(t *testing.T) {
	view := sampleView()
	assert.Same(t, view, ApplyFilters(view, Filters{}))
}

func TestRangeBoundsInclusive(t *testing.T) {
	r := Between(500, 150000)
	assert.True(t, r.Contains(500))
	assert.True(t, r.Contains(150000))
	assert.False(t, r.Contains(499.99))
	assert.False(t, r.Contains(150000.01))
	assert.True(t, Range{}.Contains(-1))
}

func TestTopKeys(t *testing.T) {
	view := NewSliceView([]Record{
		rec("Audi", "", 0, 0),
		rec("BMW", "", 0, 0),
		rec("BMW", "", 0, 0),
		rec("Ford", "", 0, 0),
		rec("Audi", "", 0, 0),
		rec("Kia", "", 0, 0),
	})

	assert.Equal(t, []string{"Audi", "BMW", "Ford", "Kia"}, TopKeys(view, "manufacturer", 0))
	assert.Equal(t, []string{"Audi", "BMW"}, TopKeys(view, "manufacturer", 2))
}

func TestGroupAndAggregateMedianByYear(t *testing.T) {
	groups := GroupAndAggregate(sampleView(), "year", "price", AggMedian, SortKeyNumeric, nil, 0)

	require.Len(t, groups, 3)
	assert.Equal(t, "2012", groups[0].Key)
	assert.InDelta(t, 6500, groups[0].Value, 1e-9)
	assert.Equal(t, "2015", groups[1].Key)
	assert.InDelta(t, 6000, groups[1].Value, 1e-9)
	assert.Equal(t, "2018", groups[2].Key)
	assert.InDelta(t, 12000, groups[2].Value, 1e-9)
	assert.Equal(t, 3, groups[2].Count)
}

func TestGroupAndAggregateExplicitOrder(t *testing.T) {
	groups := GroupAndAggregate(sampleView(), "manufacturer", "price", AggCount, SortExplicit,
		[]string{"Toyota", "Ford"}, 0)

	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{"Toyota", "Ford", "BMW"}, keys)
	assert.Equal(t, 3.0, groups[1].Value)
}

func TestGroupAndAggregateDistribution(t *testing.T) {
	groups := GroupAndAggregate(sampleView(), "manufacturer", "price", AggDistribution, SortNone, nil, 0)

	require.Len(t, groups, 3)
	assert.Equal(t, "Ford", groups[0].Key)
	assert.Equal(t, []float64{6000, 4000, 10000}, groups[0].Values)
	assert.InDelta(t, 6000, groups[0].Value, 1e-9)
}

func TestGroupAndAggregateAggregations(t *testing.T) {
	tests := []struct {
		aggregation string
		want        map[string]float64
	}{
		{AggSum, map[string]float64{"Ford": 20000, "BMW": 29000, "Toyota": 12000}},
		{AggAvg, map[string]float64{"Ford": 20000.0 / 3, "BMW": 14500, "Toyota": 12000}},
		{AggMin, map[string]float64{"Ford": 4000, "BMW": 9000, "Toyota": 12000}},
		{AggMax, map[string]float64{"Ford": 10000, "BMW": 20000, "Toyota": 12000}},
		{AggMedian, map[string]float64{"Ford": 6000, "BMW": 14500, "Toyota": 12000}},
		{AggCount, map[string]float64{"Ford": 3, "BMW": 2, "Toyota": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.aggregation, func(t *testing.T) {
			groups := GroupAndAggregate(sampleView(), "manufacturer", "price", tt.aggregation, SortNone, nil, 0)
			require.Len(t, groups, len(tt.want))
			for _, g := range groups {
				assert.InDelta(t, tt.want[g.Key], g.Value, 1e-9, g.Key)
			}
		})
	}
}

func TestGroupAndAggregateSortModes(t *testing.T) {
	tests := []struct {
		sortBy string
		limit  int
		want   []string
	}{
		{SortNone, 0, []string{"Ford", "BMW", "Toyota"}},
		{SortValueDesc, 0, []string{"BMW", "Ford", "Toyota"}},
		{SortValueAsc, 0, []string{"Toyota", "Ford", "BMW"}},
		{SortLabelAsc, 0, []string{"BMW", "Ford", "Toyota"}},
		{SortValueDesc, 2, []string{"BMW", "Ford"}},
	}
	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			groups := GroupAndAggregate(sampleView(), "manufacturer", "price", AggSum, tt.sortBy, nil, tt.limit)
			keys := make([]string, len(groups))
			for i, g := range groups {
				keys[i] = g.Key
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestExecuteAverageTopTwo(t *testing.T) {
	result, err := Execute(ChartSpec{
		ID:          "avg_price",
		GroupBy:     "manufacturer",
		Aggregation: AggAvg,
		SortBy:      SortValueDesc,
		Limit:       2,
	}, sampleView())
	require.NoError(t, err)

	cfg := result.ChartConfig
	assert.Equal(t, KindBar, cfg.ChartType)
	require.Len(t, cfg.Series, 1)
	require.Len(t, cfg.Series[0].Data, 2)
	assert.Equal(t, ChartPoint{Label: "BMW", Value: 14500}, cfg.Series[0].Data[0])
	assert.Equal(t, ChartPoint{Label: "Toyota", Value: 12000}, cfg.Series[0].Data[1])
	assert.Len(t, result.TableData.Rows, 2)
}

func TestFiltersHasFilter(t *testing.T) {
	f := Filters{Dimensions: map[string][]string{"manufacturer": {"Ford"}, "year": {}}}
	assert.True(t, f.HasFilter("manufacturer"))
	assert.False(t, f.HasFilter("year"))
	assert.False(t, f.HasFilter("fuel_type"))
	assert.False(t, Filters{}.HasFilter("manufacturer"))

	// An empty value list does not restrict.
	view := sampleView()
	filtered := ApplyFilters(view, Filters{Dimensions: map[string][]string{"year": {}}})
	assert.Equal(t, view.Len(), filtered.Len())

	filtered = ApplyFilters(view, f)
	assert.Equal(t, 3, filtered.Len())
}

func TestSortKeyNumericPutsTextLast(t *testing.T) {
	groups := []Group{{Key: "b"}, {Key: "100"}, {Key: "20"}, {Key: "a"}}
	SortGroups(groups, SortKeyNumeric)
	assert.Equal(t, "20", groups[0].Key)
	assert.Equal(t, "100", groups[1].Key)
	assert.Equal(t, "a", groups[2].Key)
	assert.Equal(t, "b", groups[3].Key)
}

func TestExecuteLineChart(t *testing.T) {
	spec := ChartSpec{
		ID:          "fig_year",
		Kind:        KindLine,
		Title:       "Median Car Price by Year of Manufacture",
		GroupBy:     "year",
		Aggregation: AggMedian,
		SortBy:      SortKeyNumeric,
		XLabel:      "Year of Manufacture",
		YLabel:      "Median Price (£)",
		SeriesName:  "Median Price by Year",
		Currency:    "£",
	}

	result, err := Execute(spec, sampleView())
	require.NoError(t, err)
	require.NotNil(t, result.ChartConfig)

	cfg := result.ChartConfig
	assert.Equal(t, "fig_year", cfg.ID)
	assert.Equal(t, KindLine, cfg.ChartType)
	require.Len(t, cfg.Series, 1)
	assert.Equal(t, "Median Price by Year", cfg.Series[0].Name)
	assert.Len(t, cfg.Series[0].Data, 3)
	assert.False(t, cfg.ShowLegend)

	require.NotNil(t, result.TableData)
	assert.Equal(t, "£6,500", result.TableData.Rows[0][1])
	assert.Equal(t, "6", result.TableData.Summary.Values["count"])
}

func TestExecuteViolinKeepsValuesAndBrandColours(t *testing.T) {
	palette := NewPalette(DefaultBrandColors)
	spec := ChartSpec{
		ID:         "fig_brand",
		Kind:       KindViolin,
		GroupBy:    "manufacturer",
		Measure:    "price",
		ColorByKey: true,
		ShowLegend: true,
	}

	result, err := Execute(spec, sampleView(), WithPalette(palette))
	require.NoError(t, err)

	assert.Equal(t, AggDistribution, result.Spec.Aggregation)
	series := result.ChartConfig.Series
	require.Len(t, series, 3)
	assert.Equal(t, "Ford", series[0].Name)
	assert.Equal(t, "#2e659d", series[0].Color)
	assert.Len(t, series[0].Values, 3)
	assert.Equal(t, "#1997d8", series[1].Color)
}

func TestExecuteNoData(t *testing.T) {
	_, err := Execute(ChartSpec{ID: "empty"}, NewSliceView(nil))
	assert.True(t, errors.Is(err, ErrNoData))

	_, err = Execute(ChartSpec{
		ID:      "filtered",
		Filters: Filters{Ranges: map[string]Range{"price": AtMost(1)}},
	}, sampleView())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestPaletteStableAssignment(t *testing.T) {
	p := NewPalette(map[string]string{"Ford": "#2E659D", "Bad": "not-a-colour"})

	assert.Equal(t, "#2e659d", p.For("ford"))
	first := p.For("Kia")
	assert.Equal(t, first, p.For("Kia"))
	assert.NotEqual(t, first, p.For("Audi"))
	assert.Equal(t, defaultColors[0], first)
	assert.Equal(t, defaultColors[2], p.For("Bad"))
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{9500, "£", "£9,500"},
		{1234567.891, "£", "£1,234,567.89"},
		{1.999, "£", "£2"},
		{-42.5, "GBP", "-GBP 42.50"},
		{999, "", "999"},
		{23214, "£", "£23,214"},
		{1000.1, "£", "£1,000.10"},
		{0.05, "£", "£0.05"},
		{-0.001, "£", "£0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.amount, tt.currency))
	}
}

func TestBuildText(t *testing.T) {
	text := BuildText(sampleView(), "price", "£")
	assert.Equal(t, 6, text.Count)
	assert.Equal(t, "£9,500", text.Value)
	assert.Equal(t, 4000.0, text.Min)
	assert.Equal(t, 20000.0, text.Max)
}

type car struct {
	brand string
	price float64
}

func TestDomainAdapter(t *testing.T) {
	view := NewDomainAdapter[car]().
		Dimension("manufacturer", func(c car) string { return c.brand }).
		Measure("price", func(c car) float64 { return c.price }).
		Bind([]car{{"Ford", 100}, {"BMW", 300}, {"Ford", 200}})

	assert.Equal(t, []string{"manufacturer"}, view.DimensionKeys())
	assert.Equal(t, 3, view.Len())
	assert.Equal(t, "", view.Dimension(5, "manufacturer"))
	assert.Equal(t, 150.0, MedianMeasure(ApplyFilters(view, Filters{
		Dimensions: map[string][]string{"manufacturer": {"Ford"}},
	}), "price"))
}
