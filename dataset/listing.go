// Package dataset loads used-car listings from CSV, cleans them and binds the
// result to the analytics engine.
package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/spektr-org/carmarket/schema"
)

var (
	// ErrMissingColumns is returned when the header row lacks a required column.
	ErrMissingColumns = errors.New("missing required columns")
	// ErrEmpty is returned when a file has no usable rows.
	ErrEmpty = errors.New("no listings")
)

// Listing is one car offered for sale.
type Listing struct {
	Manufacturer string  `json:"manufacturer"`
	Model        string  `json:"model,omitempty"`
	EngineSize   float64 `json:"engineSize,omitempty"`
	FuelType     string  `json:"fuelType,omitempty"`
	Year         int     `json:"year"`
	Mileage      float64 `json:"mileage"`
	Price        float64 `json:"price"`

	// Missing lists the required fields that were empty or unparseable.
	Missing []string `json:"missing,omitempty"`

	fingerprint string
}

// Complete reports whether every required field was present.
func (l Listing) Complete() bool { return len(l.Missing) == 0 }

// Raw is a freshly loaded file, before cleaning.
type Raw struct {
	Source    string
	Headers   []string
	Listings  []Listing
	Malformed int // rows the CSV reader rejected
}

// rowParser turns raw CSV records into Listings using resolved column positions.
type rowParser struct {
	index schema.ColumnIndex
}

func (p rowParser) parse(row []string) Listing {
	trimmed := make([]string, len(row))
	for i, v := range row {
		trimmed[i] = strings.TrimSpace(v)
	}

	var l Listing
	numbers := make(map[string]float64, 4)

	l.Manufacturer = p.text(trimmed, schema.KeyManufacturer, &l)
	l.Model = p.optionalText(trimmed, schema.KeyModel)
	l.FuelType = p.optionalText(trimmed, schema.KeyFuelType)
	if v, ok := p.optionalNumber(trimmed, schema.KeyEngineSize); ok {
		l.EngineSize = v
		numbers[schema.KeyEngineSize] = v
	}

	if v, ok := p.number(trimmed, schema.KeyYear, &l); ok {
		numbers[schema.KeyYear] = v
		if v == math.Trunc(v) {
			l.Year = int(v)
		} else {
			l.Missing = append(l.Missing, schema.KeyYear)
		}
	}
	if v, ok := p.number(trimmed, schema.KeyMileage, &l); ok {
		l.Mileage = v
		numbers[schema.KeyMileage] = v
	}
	if v, ok := p.number(trimmed, schema.KeyPrice, &l); ok {
		l.Price = v
		numbers[schema.KeyPrice] = v
	}

	l.fingerprint = p.fingerprint(trimmed, numbers)
	return l
}

// fingerprint identifies a row for duplicate detection. Numeric columns
// compare by parsed value, so "1000" and "1000.0" match; missing cells match
// each other.
func (p rowParser) fingerprint(row []string, numbers map[string]float64) string {
	parts := make([]string, len(row))
	for i, v := range row {
		if schema.IsMissing(v) {
			parts[i] = "\x00"
			continue
		}
		parts[i] = v
	}
	for key, v := range numbers {
		if pos, ok := p.index[key]; ok && pos < len(parts) {
			parts[pos] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	return strings.Join(parts, "\x1f")
}

func (p rowParser) cell(row []string, key string) (string, bool) {
	pos, ok := p.index[key]
	if !ok || pos >= len(row) || schema.IsMissing(row[pos]) {
		return "", false
	}
	return row[pos], true
}

func (p rowParser) text(row []string, key string, l *Listing) string {
	v, ok := p.cell(row, key)
	if !ok {
		l.Missing = append(l.Missing, key)
	}
	return v
}

func (p rowParser) optionalText(row []string, key string) string {
	v, _ := p.cell(row, key)
	return v
}

func (p rowParser) number(row []string, key string, l *Listing) (float64, bool) {
	v, ok := p.optionalNumber(row, key)
	if !ok {
		l.Missing = append(l.Missing, key)
	}
	return v, ok
}

func (p rowParser) optionalNumber(row []string, key string) (float64, bool) {
	v, ok := p.cell(row, key)
	if !ok {
		return 0, false
	}
	f, err := parseNumber(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseNumber accepts plain numbers plus "£12,500"-style amounts.
func parseNumber(s string) (float64, error) {
	s = strings.TrimPrefix(s, "£")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}
