package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/carmarket/engine"
	"github.com/spektr-org/carmarket/internal/testutil"
	"github.com/spektr-org/carmarket/schema"
)

func loadFixture(t *testing.T) *Raw {
	t.Helper()
	raw, err := LoadReader(context.Background(), strings.NewReader(testutil.CarsCSV),
		LoadOptions{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	return raw
}

// ============================================================================
// LOADING
// ============================================================================

func TestLoadReader(t *testing.T) {
	raw := loadFixture(t)

	require.Len(t, raw.Listings, 16)
	assert.Equal(t, 0, raw.Malformed)

	first := raw.Listings[0]
	assert.Equal(t, "Ford", first.Manufacturer)
	assert.Equal(t, "Fiesta", first.Model)
	assert.Equal(t, "Petrol", first.FuelType)
	assert.InDelta(t, 1.0, first.EngineSize, 1e-9)
	assert.Equal(t, 2002, first.Year)
	assert.InDelta(t, 127300.0, first.Mileage, 1e-9)
	assert.InDelta(t, 3074.0, first.Price, 1e-9)
	assert.True(t, first.Complete())

	assert.Equal(t, []string{schema.KeyPrice}, raw.Listings[11].Missing)
	assert.Equal(t, []string{schema.KeyYear}, raw.Listings[12].Missing)
}

func TestLoadReaderAcceptsPoundAmountsAndBOM(t *testing.T) {
	data := "\ufeffManufacturer,Year of manufacture,Mileage,Price\nFord,2015,\"12,000\",\"£9,500\"\n"

	raw, err := LoadReader(context.Background(), strings.NewReader(data), LoadOptions{})
	require.NoError(t, err)
	require.Len(t, raw.Listings, 1)
	assert.InDelta(t, 12000.0, raw.Listings[0].Mileage, 1e-9)
	assert.InDelta(t, 9500.0, raw.Listings[0].Price, 1e-9)
}

func TestLoadReaderFractionalYearIsMissing(t *testing.T) {
	data := "Manufacturer,Year of manufacture,Mileage,Price\nFord,2015.5,1000,9000\n"

	raw, err := LoadReader(context.Background(), strings.NewReader(data), LoadOptions{})
	require.NoError(t, err)
	assert.False(t, raw.Listings[0].Complete())
}

func TestLoadReaderMissingColumns(t *testing.T) {
	data := "Manufacturer,Model,Price\nFord,Fiesta,3000\n"

	_, err := LoadReader(context.Background(), strings.NewReader(data), LoadOptions{})
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "Mileage")
	assert.Contains(t, err.Error(), "Year of manufacture")
}

func TestLoadReaderEmpty(t *testing.T) {
	tests := map[string]string{
		"no bytes":    "",
		"header only": "Manufacturer,Year of manufacture,Mileage,Price\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadReader(context.Background(), strings.NewReader(data), LoadOptions{})
			assert.ErrorIs(t, err, ErrEmpty)
		})
	}
}

func TestLoadReaderSkipsMalformedRows(t *testing.T) {
	data := "Manufacturer,Year of manufacture,Mileage,Price\n" +
		"Ford,2015,1000,9000\n" +
		"BM\"W,2016,2000,19000\n" +
		"VW,2017,3000,12000\n"

	raw, err := LoadReader(context.Background(), strings.NewReader(data), LoadOptions{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	assert.Equal(t, 1, raw.Malformed)
	require.Len(t, raw.Listings, 2)
	assert.Equal(t, "VW", raw.Listings[1].Manufacturer)
}

func TestLoadReaderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadReader(ctx, strings.NewReader(testutil.CarsCSV), LoadOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSetsSource(t *testing.T) {
	path := testutil.WriteFile(t, "cars.csv", testutil.CarsCSV)

	raw, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, path, raw.Source)
	assert.Len(t, raw.Listings, 16)
}

// ============================================================================
// CLEANING
// ============================================================================

func TestCleanDefaultBounds(t *testing.T) {
	cleaned, stats := Clean(loadFixture(t), DefaultBounds())

	assert.Equal(t, CleanStats{
		Read:        16,
		Duplicates:  1,
		Incomplete:  2,
		OutOfRange:  3,
		OtherBrands: 0,
		Kept:        10,
	}, stats)
	assert.Equal(t, []string{"Ford", "Toyota", "VW", "BMW", "Porsche"}, cleaned.Brands)

	for _, l := range cleaned.Listings {
		assert.True(t, l.Complete())
		assert.GreaterOrEqual(t, l.Price, 500.0)
		assert.LessOrEqual(t, l.Price, 150000.0)
		assert.LessOrEqual(t, l.Mileage, 300000.0)
	}
}

func TestCleanTopBrands(t *testing.T) {
	bounds := DefaultBounds()
	bounds.TopBrands = 3

	cleaned, stats := Clean(loadFixture(t), bounds)

	assert.Equal(t, []string{"Ford", "Toyota", "VW"}, cleaned.Brands)
	assert.Equal(t, 3, stats.OtherBrands)
	assert.Equal(t, 7, stats.Kept)
	for _, l := range cleaned.Listings {
		assert.Contains(t, cleaned.Brands, l.Manufacturer)
	}
}

func TestCleanBoundsAreInclusive(t *testing.T) {
	data := "Manufacturer,Year of manufacture,Mileage,Price\n" +
		"Ford,2010,300000,500\n" +
		"Ford,2011,0,150000\n" +
		"Ford,2012,300001,9000\n"

	raw, err := LoadReader(context.Background(), strings.NewReader(data), LoadOptions{})
	require.NoError(t, err)

	_, stats := Clean(raw, DefaultBounds())
	assert.Equal(t, 2, stats.Kept)
	assert.Equal(t, 1, stats.OutOfRange)
}

func TestCleanDoesNotModifyRaw(t *testing.T) {
	raw := loadFixture(t)
	before := raw.Listings[1]

	Clean(raw, DefaultBounds())

	assert.Len(t, raw.Listings, 16)
	assert.Equal(t, before, raw.Listings[1])
}

func TestCleanDuplicatesCompareParsedNumbers(t *testing.T) {
	data := "Manufacturer,Model,Engine size,Year of manufacture,Mileage,Price\n" +
		"Ford,Fiesta,1.0,2002,127300,1000\n" +
		"Ford,Fiesta,1,2002.0,127300,1000.0\n" +
		"Ford, Fiesta ,1.00,2002,127300,\"£1,000\"\n" +
		"Ford,Focus,1.0,2002,127300,1000\n" +
		"VW,,1.4,2010,NaN,2000\n" +
		"VW,NA,1.4,2010,,2000\n"

	raw, err := LoadReader(context.Background(), strings.NewReader(data), LoadOptions{})
	require.NoError(t, err)

	cleaned, stats := Clean(raw, DefaultBounds())
	assert.Equal(t, 3, stats.Duplicates)
	assert.Equal(t, 1, stats.Incomplete)
	assert.Equal(t, 2, stats.Kept)
	assert.Equal(t, "Fiesta", cleaned.Listings[0].Model)
	assert.Equal(t, "Focus", cleaned.Listings[1].Model)
}

// ============================================================================
// ENGINE BINDING
// ============================================================================

func TestMileageBin(t *testing.T) {
	assert.InDelta(t, 120000.0, MileageBin(127300, 10000), 1e-9)
	assert.InDelta(t, 0.0, MileageBin(9999, 10000), 1e-9)
	assert.InDelta(t, 10000.0, MileageBin(10000, 10000), 1e-9)
	assert.InDelta(t, 55.5, MileageBin(55.5, 0), 1e-9)
}

func TestCleanedView(t *testing.T) {
	cleaned, _ := Clean(loadFixture(t), DefaultBounds())
	view := cleaned.View()

	require.Equal(t, 10, view.Len())
	assert.Equal(t, "Ford", view.Dimension(0, schema.KeyManufacturer))
	assert.Equal(t, "2002", view.Dimension(0, schema.KeyYear))
	assert.Equal(t, "120000", view.Dimension(0, KeyMileageBin))
	assert.InDelta(t, 3074.0, view.Measure(0, schema.KeyPrice), 1e-9)
	assert.InDelta(t, 1.0, view.Measure(0, schema.KeyRecordCount), 1e-9)

	ford := engine.ApplyFilters(view, engine.Filters{
		Dimensions: map[string][]string{schema.KeyManufacturer: {"ford"}},
	})
	// 3074, 24072, 29204
	assert.InDelta(t, 24072.0, engine.MedianMeasure(ford, schema.KeyPrice), 1e-9)
}

// ============================================================================
// DUCKDB
// ============================================================================

func TestLoadDuckDBMatchesCSVLoader(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping duckdb test in short mode")
	}
	path := testutil.WriteFile(t, "cars.csv", testutil.CarsCSV)

	raw, err := LoadDuckDB(context.Background(), path, LoadOptions{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	assert.Equal(t, path, raw.Source)

	native := loadFixture(t)
	require.Len(t, raw.Listings, len(native.Listings))

	_, duckStats := Clean(raw, DefaultBounds())
	_, nativeStats := Clean(native, DefaultBounds())
	assert.Equal(t, nativeStats, duckStats)
}

func TestLoadDuckDBMissingColumns(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping duckdb test in short mode")
	}
	path := testutil.WriteFile(t, "cars.csv", "Manufacturer,Price\nFord,3000\n")

	_, err := LoadDuckDB(context.Background(), path, LoadOptions{})
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestEscapeLiteral(t *testing.T) {
	assert.Equal(t, "/tmp/o''brien/cars.csv", escapeLiteral("/tmp/o'brien/cars.csv"))
}
