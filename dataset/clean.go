package dataset

import (
	"github.com/spektr-org/carmarket/engine"
	"github.com/spektr-org/carmarket/schema"
)

// ============================================================================
// CLEANING — Dedupe → drop incomplete → bounds → top-N manufacturers
// ============================================================================

// Bounds configures Clean. TopBrands <= 0 keeps every manufacturer.
type Bounds struct {
	MinPrice   float64 `koanf:"min_price"`
	MaxPrice   float64 `koanf:"max_price"`
	MaxMileage float64 `koanf:"max_mileage"`
	TopBrands  int     `koanf:"top_brands"`
	MileageBin float64 `koanf:"mileage_bin"`
}

// DefaultBounds returns the cleaning rules of the car market report.
func DefaultBounds() Bounds {
	return Bounds{
		MinPrice:   500,
		MaxPrice:   150000,
		MaxMileage: 300000,
		TopBrands:  10,
		MileageBin: 10000,
	}
}

// CleanStats counts the rows removed at each cleaning step.
type CleanStats struct {
	Read        int `json:"read"`
	Duplicates  int `json:"duplicates"`
	Incomplete  int `json:"incomplete"`
	OutOfRange  int `json:"outOfRange"`
	OtherBrands int `json:"otherBrands"`
	Kept        int `json:"kept"`
}

// Cleaned holds the listings that survived cleaning.
type Cleaned struct {
	Listings []Listing
	// Brands lists the kept manufacturers, most listings first.
	Brands []string
	Bounds Bounds
}

// Clean applies the cleaning steps in order. Raw is not modified.
func Clean(raw *Raw, bounds Bounds) (*Cleaned, CleanStats) {
	stats := CleanStats{Read: len(raw.Listings)}

	// 1. Exact duplicates, first occurrence kept
	seen := make(map[string]struct{}, len(raw.Listings))
	unique := make([]Listing, 0, len(raw.Listings))
	for _, l := range raw.Listings {
		if _, dup := seen[l.fingerprint]; dup {
			stats.Duplicates++
			continue
		}
		seen[l.fingerprint] = struct{}{}
		unique = append(unique, l)
	}

	// 2. Required fields
	complete := unique[:0:0]
	for _, l := range unique {
		if !l.Complete() {
			stats.Incomplete++
			continue
		}
		complete = append(complete, l)
	}

	// 3. Price and mileage bounds
	price := engine.Between(bounds.MinPrice, bounds.MaxPrice)
	mileage := engine.AtMost(bounds.MaxMileage)
	inRange := complete[:0:0]
	for _, l := range complete {
		if !price.Contains(l.Price) || !mileage.Contains(l.Mileage) {
			stats.OutOfRange++
			continue
		}
		inRange = append(inRange, l)
	}

	// 4. Most frequent manufacturers
	brands := engine.TopKeys(listingAdapter(bounds.MileageBin).Bind(inRange), schema.KeyManufacturer, bounds.TopBrands)
	keep := make(map[string]bool, len(brands))
	for _, b := range brands {
		keep[b] = true
	}
	kept := inRange[:0:0]
	for _, l := range inRange {
		if !keep[l.Manufacturer] {
			stats.OtherBrands++
			continue
		}
		kept = append(kept, l)
	}

	stats.Kept = len(kept)
	return &Cleaned{Listings: kept, Brands: brands, Bounds: bounds}, stats
}
