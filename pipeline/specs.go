package pipeline

import (
	"github.com/spektr-org/carmarket/dataset"
	"github.com/spektr-org/carmarket/engine"
	"github.com/spektr-org/carmarket/schema"
)

// Chart IDs double as file and sheet names.
const (
	ChartYear     = "fig_year"
	ChartMileage  = "fig_mileage"
	ChartBrand    = "fig_brand"
	ChartQuantity = "fig_quantity"
)

const (
	currency    = "£"
	brandLegend = "Brand"
)

// Specs returns the four chart specs of a run, in dashboard order: year and
// mileage on the top row, brand distribution and quantity below.
func Specs(c *dataset.Cleaned) []engine.ChartSpec {
	return []engine.ChartSpec{
		{
			ID:          ChartYear,
			Kind:        engine.KindLine,
			Title:       "Median Car Price by Year of Manufacture",
			GroupBy:     schema.KeyYear,
			Measure:     schema.KeyPrice,
			Aggregation: engine.AggMedian,
			SortBy:      engine.SortKeyNumeric,
			XLabel:      "Year of Manufacture",
			YLabel:      "Median Price (£)",
			SeriesName:  "Median Price by Year",
			Currency:    currency,
		},
		{
			ID:          ChartMileage,
			Kind:        engine.KindLine,
			Title:       "Median Car Price by Mileage (10k bins)",
			GroupBy:     dataset.KeyMileageBin,
			Measure:     schema.KeyPrice,
			Aggregation: engine.AggMedian,
			SortBy:      engine.SortKeyNumeric,
			XLabel:      "Mileage (miles, grouped in 10k)",
			YLabel:      "Median Price (£)",
			SeriesName:  "Median Price by Mileage",
			Currency:    currency,
		},
		{
			// Brands in the order they first appear in the cleaned data.
			ID:         ChartBrand,
			Kind:       engine.KindViolin,
			Title:      "Car Prices by Brand (Distribution)",
			GroupBy:    schema.KeyManufacturer,
			Measure:    schema.KeyPrice,
			SortBy:     engine.SortNone,
			XLabel:     "Car Brand",
			YLabel:     "Price (£)",
			ColorByKey: true,
			ShowLegend: true,
			TickAngle:  45,
			Currency:   currency,
		},
		{
			ID:          ChartQuantity,
			Kind:        engine.KindBar,
			Title:       "Quantity Available per Brand",
			GroupBy:     schema.KeyManufacturer,
			Aggregation: engine.AggCount,
			SortBy:      engine.SortExplicit,
			Order:       c.Brands,
			XLabel:      "Car Brand",
			YLabel:      "Number of Listings",
			ColorByKey:  true,
			ShowLegend:  true,
		},
	}
}
