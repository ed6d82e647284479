package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/carmarket/engine"
	"github.com/spektr-org/carmarket/render"
)

var (
	yearChart = &engine.ChartConfig{
		ID:        "fig_year",
		ChartType: engine.KindLine,
		Title:     "Median Car Price by Year of Manufacture",
		XAxis:     "Year of Manufacture",
		YAxis:     "Median Price (£)",
		Series: []engine.ChartSeries{{
			Name: "Median Price by Year",
			Data: []engine.ChartPoint{{Label: "2002", Value: 3074}, {Label: "2014", Value: 24072.5}},
		}},
	}
	brandChart = &engine.ChartConfig{
		ID:        "fig_brand",
		ChartType: engine.KindViolin,
		Title:     "Car Prices by Brand (Distribution)",
		XAxis:     "Car Brand",
		YAxis:     "Price (£)",
		Series: []engine.ChartSeries{
			{Name: "Ford", Data: []engine.ChartPoint{{Label: "Ford", Value: 3}}, Values: []float64{3074, 24072, 29204}},
			{Name: "BMW", Data: []engine.ChartPoint{{Label: "BMW", Value: 2}}, Values: []float64{52447, 22356}},
		},
	}
	quantityChart = &engine.ChartConfig{
		ID:        "fig_quantity",
		ChartType: engine.KindBar,
		XAxis:     "Car Brand",
		YAxis:     "Number of Listings",
		Series: []engine.ChartSeries{
			{Name: "Ford", Data: []engine.ChartPoint{{Label: "Ford", Value: 3}}},
			{Name: "BMW", Data: []engine.ChartPoint{{Label: "BMW", Value: 2}}},
		},
	}
)

// ============================================================================
// CHART DATA
// ============================================================================

func TestTableShapes(t *testing.T) {
	header, rows := Table(yearChart)
	assert.Equal(t, []string{"Year of Manufacture", "Median Price (£)"}, header)
	assert.Equal(t, [][]any{{"2002", 3074.0}, {"2014", 24072.5}}, rows)

	header, rows = Table(brandChart)
	assert.Equal(t, []string{"Car Brand", "Price (£)"}, header)
	assert.Len(t, rows, 5)
	assert.Equal(t, []any{"BMW", 22356.0}, rows[4])

	_, rows = Table(quantityChart)
	assert.Equal(t, [][]any{{"Ford", 3.0}, {"BMW", 2.0}}, rows)

	header, rows = Table(nil)
	assert.Nil(t, header)
	assert.Nil(t, rows)
}

func TestTableMultiSeries(t *testing.T) {
	cfg := &engine.ChartConfig{
		Series: []engine.ChartSeries{
			{Name: "Petrol", Data: []engine.ChartPoint{{Label: "2019", Value: 1}, {Label: "2020", Value: 2}}},
			{Name: "Diesel", Data: []engine.ChartPoint{{Label: "2019", Value: 3}}},
		},
	}
	header, rows := Table(cfg)
	assert.Equal(t, []string{"Label", "Petrol", "Diesel"}, header)
	assert.Equal(t, []any{"2020", 2.0, ""}, rows[1])
}

func TestWriteChartCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChartCSV(&buf, yearChart))

	want := "Year of Manufacture,Median Price (£)\n2002,3074\n2014,24072.50\n"
	assert.Equal(t, want, buf.String())

	assert.ErrorIs(t, WriteChartCSV(&buf, nil), engine.ErrNoData)
}

func TestWriteCSVFiles(t *testing.T) {
	dir := t.TempDir()

	paths, err := WriteCSVFiles(dir, []*engine.ChartConfig{yearChart, quantityChart})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "fig_year.csv"),
		filepath.Join(dir, "fig_quantity.csv"),
	}, paths)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "Car Brand,Number of Listings\nFord,3\nBMW,2\n", string(data))
}

// ============================================================================
// HTML
// ============================================================================

func TestWriteHTML(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	var charts []*render.Chart
	for _, id := range []string{"fig_year", "fig_brand", "fig_mileage", "fig_quantity"} {
		charts = append(charts, &render.Chart{ID: id, Title: id, SVG: []byte("<svg></svg>")})
	}

	paths, err := WriteHTML(dir, Pages{
		Dashboard: render.Dashboard{Title: "UK Second-hand Car Market Sale Analysis", Charts: charts},
		Charts:    charts,
		Meta:      render.PageMeta{RunID: "abc"},
	})
	require.NoError(t, err)
	require.Len(t, paths, 5)
	assert.Equal(t, filepath.Join(dir, DashboardFile), paths[0])

	for _, name := range []string{"dashboard.html", "fig_year.html", "fig_brand.html", "fig_mileage.html", "fig_quantity.html"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "<svg", name)
		assert.Contains(t, string(data), `content="abc"`, name)
	}
}

func TestWriteHTMLBadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err := WriteHTML(filepath.Join(file, "sub"), Pages{})
	assert.Error(t, err)
}

// ============================================================================
// XLSX
// ============================================================================

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carmarket.xlsx")
	require.NoError(t, WriteWorkbook(path, []*engine.ChartConfig{yearChart, brandChart, quantityChart}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"fig_year", "fig_brand", "fig_quantity"}, f.GetSheetList())

	rows, err := f.GetRows("fig_year")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Year of Manufacture", "Median Price (£)"}, rows[0])
	assert.Equal(t, "2002", rows[1][0])

	rows, err = f.GetRows("fig_brand")
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}

func TestWriteWorkbookEmpty(t *testing.T) {
	err := WriteWorkbook(filepath.Join(t.TempDir(), "x.xlsx"), nil)
	assert.ErrorIs(t, err, engine.ErrNoData)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "fig_year", sheetName("fig_year"))
	assert.Len(t, sheetName("a_really_long_chart_identifier_over_limit"), maxSheetName)
}
