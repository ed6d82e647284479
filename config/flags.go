package config

import (
	"github.com/spf13/pflag"

	"github.com/spektr-org/carmarket/dataset"
)

// RegisterFlags adds the run flags to fs. Flag defaults are for help output
// only; Load applies a flag only when it was set.
func RegisterFlags(fs *pflag.FlagSet) {
	b := dataset.DefaultBounds()

	fs.String("config", "", "config file (default: ./"+DefaultFile+")")
	fs.StringP("input", "i", DefaultInput, "listings CSV to analyse")
	fs.StringP("out-dir", "o", DefaultOutDir, "directory for the HTML files")
	fs.String("loader", LoaderCSV, "CSV reader (csv|duckdb)")
	fs.Int("top-brands", b.TopBrands, "keep this many most-listed manufacturers (0 = all)")
	fs.Float64("min-price", b.MinPrice, "lowest price kept, inclusive")
	fs.Float64("max-price", b.MaxPrice, "highest price kept, inclusive")
	fs.Float64("max-mileage", b.MaxMileage, "highest mileage kept, inclusive")
	fs.Float64("mileage-bin", b.MileageBin, "mileage bin width in miles")
	fs.Bool("xlsx", false, "also write carmarket.xlsx with the chart data")
	fs.Bool("csv", false, "also write <chart>.csv with the chart data")
	fs.BoolP("verbose", "v", false, "debug logging")
	fs.String("log-format", DefaultLogFormat, "log format (text|json)")
}
