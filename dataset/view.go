package dataset

import (
	"math"
	"strconv"

	"github.com/spektr-org/carmarket/engine"
	"github.com/spektr-org/carmarket/schema"
)

// KeyMileageBin is the dimension holding the lower edge of a listing's
// mileage bucket.
const KeyMileageBin = "mileage_bin"

// MileageBin returns floor(mileage/width)*width.
func MileageBin(mileage, width float64) float64 {
	if width <= 0 {
		return mileage
	}
	return math.Floor(mileage/width) * width
}

func listingAdapter(binWidth float64) *engine.DomainAdapter[Listing] {
	return engine.NewDomainAdapter[Listing]().
		Dimension(schema.KeyManufacturer, func(l Listing) string { return l.Manufacturer }).
		Dimension(schema.KeyModel, func(l Listing) string { return l.Model }).
		Dimension(schema.KeyFuelType, func(l Listing) string { return l.FuelType }).
		Dimension(schema.KeyYear, func(l Listing) string { return strconv.Itoa(l.Year) }).
		Dimension(KeyMileageBin, func(l Listing) string {
			return strconv.FormatFloat(MileageBin(l.Mileage, binWidth), 'f', -1, 64)
		}).
		Measure(schema.KeyPrice, func(l Listing) float64 { return l.Price }).
		Measure(schema.KeyMileage, func(l Listing) float64 { return l.Mileage }).
		Measure(schema.KeyYear, func(l Listing) float64 { return float64(l.Year) }).
		Measure(schema.KeyEngineSize, func(l Listing) float64 { return l.EngineSize }).
		Measure(schema.KeyRecordCount, func(Listing) float64 { return 1 })
}

// View binds the cleaned listings to the engine. Zero-copy.
func (c *Cleaned) View() engine.RecordView {
	return listingAdapter(c.Bounds.MileageBin).Bind(c.Listings)
}
