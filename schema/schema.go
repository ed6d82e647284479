package schema

import (
	"strings"
	"unicode"
)

// ============================================================================
// SCHEMA — Describes the shape of a dataset for loaders and the engine
// ============================================================================
// CarListings() is the built-in description of a used-car listings export.
// DiscoverFromCSV() builds the same structure heuristically from any CSV, for
// the inspect command.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty"`
	RowsSampled    int    `json:"rowsSampled,omitempty"`

	// Columns skipped during auto-discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key             string   `json:"key"`
	Column          string   `json:"column"` // CSV header as written in the file
	DisplayName     string   `json:"displayName"`
	Description     string   `json:"description,omitempty"`
	SampleValues    []string `json:"sampleValues,omitempty"`
	Required        bool     `json:"required,omitempty"`
	Parent          string   `json:"parent,omitempty"` // Parent dimension key for hierarchies
	IsTemporal      bool     `json:"isTemporal,omitempty"`
	CardinalityHint string   `json:"cardinalityHint,omitempty"` // "low", "medium", "high"
	MissingCount    int      `json:"missingCount,omitempty"`
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key                string `json:"key"`
	Column             string `json:"column"`
	DisplayName        string `json:"displayName"`
	Description        string `json:"description,omitempty"`
	Unit               string `json:"unit,omitempty"` // "currency", "miles", "year", "litres"
	Required           bool   `json:"required,omitempty"`
	IsSynthetic        bool   `json:"isSynthetic,omitempty"` // Auto-generated (e.g., record_count)
	DefaultAggregation string `json:"defaultAggregation,omitempty"`
	MissingCount       int    `json:"missingCount,omitempty"`
}

// SkippedColumn records why a column was excluded during auto-discovery.
type SkippedColumn struct {
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// Keys of the car listings dataset.
const (
	KeyManufacturer = "manufacturer"
	KeyModel        = "model"
	KeyEngineSize   = "engine_size"
	KeyFuelType     = "fuel_type"
	KeyYear         = "year_of_manufacture"
	KeyMileage      = "mileage"
	KeyPrice        = "price"
	KeyRecordCount  = "record_count"
)

// CarListings describes a used-car sales export. Manufacturer, Year of
// manufacture, Mileage and Price are required; the rest are read when present.
func CarListings() Config {
	return Config{
		Name:        "Used car listings",
		Version:     "1.0",
		Description: "Second-hand car sale listings: one row per car offered",
		Dimensions: []DimensionMeta{
			{Key: KeyManufacturer, Column: "Manufacturer", DisplayName: "Car Brand", Required: true},
			{Key: KeyModel, Column: "Model", DisplayName: "Model", Parent: KeyManufacturer},
			{Key: KeyFuelType, Column: "Fuel type", DisplayName: "Fuel Type"},
		},
		Measures: []MeasureMeta{
			{Key: KeyPrice, Column: "Price", DisplayName: "Price (£)", Unit: "currency", Required: true, DefaultAggregation: "median"},
			{Key: KeyMileage, Column: "Mileage", DisplayName: "Mileage", Unit: "miles", Required: true, DefaultAggregation: "median"},
			{Key: KeyYear, Column: "Year of manufacture", DisplayName: "Year of Manufacture", Unit: "year", Required: true, DefaultAggregation: "median"},
			{Key: KeyEngineSize, Column: "Engine size", DisplayName: "Engine Size", Unit: "litres", DefaultAggregation: "avg"},
			{Key: KeyRecordCount, DisplayName: "Number of Listings", IsSynthetic: true, DefaultAggregation: "count"},
		},
	}
}

// GetDefaultMeasure returns the first measure's key, or "price" as fallback.
func (c Config) GetDefaultMeasure() string {
	if len(c.Measures) > 0 {
		return c.Measures[0].Key
	}
	return KeyPrice
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// ============================================================================
// MISSING VALUES
// ============================================================================

// naTokens are the cell values read as missing, in addition to the empty
// string. Matching is exact-case, so "NULL" is missing but "Null" is not.
var naTokens = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true,
	"N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// IsMissing reports whether a raw cell value counts as missing.
func IsMissing(raw string) bool {
	s := strings.TrimSpace(raw)
	return s == "" || naTokens[s]
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// ToSnakeCase converts "Column Name" or "columnName" → "column_name".
func ToSnakeCase(s string) string {
	s = strings.TrimSpace(s)

	// Handle camelCase: insert underscore before uppercase letters
	var result strings.Builder
	var prev rune
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			result.WriteRune('_')
		}
		result.WriteRune(r)
		prev = r
	}

	s = strings.ToLower(result.String())
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

// toDisplayName cleans a header for human display.
// "engine_size" → "Engine Size", "Fuel type" → "Fuel type"
func toDisplayName(s string) string {
	// If already has spaces/mixed case, just trim
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}
