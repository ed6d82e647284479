package schema

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic Column Classification
// ============================================================================
// Inspects raw CSV and generates a schema.Config automatically.
//
// Classification pipeline per column:
//   1. Sample values → detect type (numeric, date, bool, string)
//   2. Type + cardinality → classify role (dimension, measure, skip)
//   3. Generate synthetic measures (record_count)
//   4. Detect hierarchies (model → manufacturer)
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize int    // Max rows to inspect (0 = all, capped). Default: 1000
	Name       string // Dataset name override
	Now        func() time.Time
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		SampleSize: 1000,
		Now:        time.Now,
	}
}

// ErrNoRows is returned when a CSV has a header but no data rows.
var ErrNoRows = errors.New("CSV has no data rows")

// DiscoverFromCSV generates a schema.Config by inspecting CSV data.
func DiscoverFromCSV(r io.Reader, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
		if opt.Now == nil {
			opt.Now = time.Now
		}
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// 1. Read headers
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	headers[0] = strings.TrimPrefix(headers[0], "\ufeff")

	// 2. Read sample rows
	var rows [][]string
	limit := opt.SampleSize
	if limit <= 0 {
		limit = 100000 // safety cap
	}

	for len(rows) < limit {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}

	totalRows := len(rows)
	if totalRows == 0 {
		return nil, ErrNoRows
	}

	// 3. Analyze each column
	columns := make([]columnAnalysis, len(headers))
	for i, header := range headers {
		columns[i] = analyzeColumn(header, i, rows, totalRows)
	}

	config := &Config{
		Name:           opt.Name,
		Version:        "1.0",
		DiscoveredFrom: "CSV",
		DiscoveredAt:   opt.Now().Format(time.RFC3339),
		RowsSampled:    totalRows,
	}
	if config.Name == "" {
		config.Name = "Auto-discovered Dataset"
	}

	for _, col := range columns {
		switch col.role {
		case roleDimension:
			config.Dimensions = append(config.Dimensions, col.toDimension())
		case roleMeasure:
			config.Measures = append(config.Measures, col.toMeasure())
		case roleSkipped:
			config.SkippedColumns = append(config.SkippedColumns, SkippedColumn{
				Column: col.header,
				Reason: col.skipReason,
			})
		}
	}

	// 4. Add synthetic record_count measure
	config.Measures = append(config.Measures, MeasureMeta{
		Key:                KeyRecordCount,
		DisplayName:        "Record Count",
		Description:        "Number of records (auto-generated)",
		IsSynthetic:        true,
		DefaultAggregation: "count",
	})

	// 5. Detect hierarchies
	detectHierarchies(config.Dimensions, rows, columns)

	return config, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnRole int

const (
	roleDimension columnRole = iota
	roleMeasure
	roleSkipped
)

type columnType int

const (
	typeString columnType = iota
	typeNumeric
	typeDate
	typeBool
)

type columnAnalysis struct {
	header     string
	key        string
	index      int
	colType    columnType
	role       columnRole
	skipReason string

	uniqueCount int
	nullCount   int
	sampleVals  []string
	hasDecimals bool
	isTemporal  bool
	cardinality string
}

// analyzeColumn inspects all values in a column and classifies it.
func analyzeColumn(header string, index int, rows [][]string, totalRows int) columnAnalysis {
	col := columnAnalysis{
		header: header,
		key:    ToSnakeCase(header),
		index:  index,
	}

	values := make([]string, 0, len(rows))
	uniqueSet := make(map[string]bool)

	for _, row := range rows {
		if index >= len(row) || IsMissing(row[index]) {
			col.nullCount++
			continue
		}
		val := strings.TrimSpace(row[index])
		values = append(values, val)
		uniqueSet[val] = true
	}

	col.uniqueCount = len(uniqueSet)

	if len(values) == 0 {
		col.role = roleSkipped
		col.skipReason = "All values are empty/null"
		return col
	}

	col.sampleVals = collectSamples(uniqueSet, 10)
	col.colType = detectType(values)

	if col.colType == typeNumeric {
		for _, v := range values {
			if strings.Contains(v, ".") {
				col.hasDecimals = true
				break
			}
		}
	}
	if col.colType == typeDate {
		col.isTemporal = true
	}

	col.classifyRole(totalRows)

	switch {
	case col.uniqueCount <= 10:
		col.cardinality = "low"
	case col.uniqueCount <= 100:
		col.cardinality = "medium"
	default:
		col.cardinality = "high"
	}

	return col
}

// classifyRole determines dimension vs measure vs skip.
func (col *columnAnalysis) classifyRole(totalRows int) {
	switch col.colType {

	case typeNumeric:
		if col.uniqueCount == totalRows && totalRows > 10 && looksLikeID(col.key) {
			col.role = roleSkipped
			col.skipReason = "Unique per row, likely an ID column"
			return
		}
		if col.hasDecimals {
			col.role = roleMeasure
			return
		}
		// Few unique integers at a low ratio → coded dimension (e.g., doors 3/5)
		uniqueRatio := float64(col.uniqueCount) / float64(totalRows)
		if col.uniqueCount < 20 && uniqueRatio < 0.3 {
			col.role = roleDimension
			return
		}
		col.role = roleMeasure

	case typeDate, typeBool:
		col.role = roleDimension

	case typeString:
		if col.uniqueCount == totalRows && totalRows > 10 {
			col.role = roleSkipped
			col.skipReason = "Unique per row, likely an identifier"
			return
		}
		if col.uniqueCount > totalRows/2 && col.uniqueCount > 50 {
			col.role = roleSkipped
			col.skipReason = fmt.Sprintf("High cardinality (%d unique values), not useful for grouping", col.uniqueCount)
			return
		}
		col.role = roleDimension
	}
}

// looksLikeID reports whether a column key names an identifier. Prices and
// mileages are unique per row too, so uniqueness alone is not enough.
func looksLikeID(key string) bool {
	return key == "id" || strings.HasSuffix(key, "_id") || strings.HasSuffix(key, "_key") ||
		strings.HasSuffix(key, "_no") || strings.HasSuffix(key, "_number")
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

// detectType inspects values to determine column type.
// Requires 80%+ of non-null values to match for numeric/date/bool.
func detectType(values []string) columnType {
	numCount, dateCount, boolCount := 0, 0, 0
	for _, v := range values {
		if isNumeric(v) {
			numCount++
		}
		if isDate(v) {
			dateCount++
		}
		if isBool(v) {
			boolCount++
		}
	}

	threshold := int(float64(len(values)) * 0.8)

	switch {
	case boolCount >= threshold:
		return typeBool
	case dateCount >= threshold:
		return typeDate
	case numCount >= threshold:
		return typeNumeric
	default:
		return typeString
	}
}

func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "") // handle "1,234.56"
	s = strings.TrimPrefix(s, "£")
	s = strings.TrimPrefix(s, "-")
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// Plain years ("2016") are left numeric on purpose: they are measured, binned
// and sorted as numbers.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"Jan-2006",
}

func isDate(s string) bool {
	for _, layout := range dateFormats {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "false" || s == "yes" || s == "no"
}

// ============================================================================
// HIERARCHY DETECTION
// ============================================================================

// detectHierarchies finds parent/child relationships between dimensions.
// If every value of dimension B maps to exactly one value of dimension A,
// and A has fewer unique values, then A is parent of B.
// When multiple valid parents exist, picks the closest (highest cardinality).
func detectHierarchies(dimensions []DimensionMeta, rows [][]string, columns []columnAnalysis) {
	dimIndices := make(map[string]int)
	dimUniques := make(map[string]int)
	for _, col := range columns {
		if col.role == roleDimension {
			dimIndices[col.key] = col.index
			dimUniques[col.key] = col.uniqueCount
		}
	}

	for i := range dimensions {
		childKey := dimensions[i].Key
		childIdx, ok := dimIndices[childKey]
		if !ok {
			continue
		}

		bestParent := ""
		bestParentUniques := 0

		for j := range dimensions {
			parentKey := dimensions[j].Key
			parentIdx, ok := dimIndices[parentKey]
			if i == j || !ok || dimUniques[parentKey] >= dimUniques[childKey] {
				continue
			}

			if mapsToSingleParent(rows, childIdx, parentIdx) && dimUniques[parentKey] > bestParentUniques {
				bestParent = parentKey
				bestParentUniques = dimUniques[parentKey]
			}
		}

		if bestParent != "" {
			dimensions[i].Parent = bestParent
		}
	}
}

func mapsToSingleParent(rows [][]string, childIdx, parentIdx int) bool {
	childToParent := make(map[string]string)
	for _, row := range rows {
		if childIdx >= len(row) || parentIdx >= len(row) {
			continue
		}
		child := strings.TrimSpace(row[childIdx])
		parent := strings.TrimSpace(row[parentIdx])
		if child == "" || parent == "" {
			continue
		}
		if existing, ok := childToParent[child]; ok {
			if existing != parent {
				return false
			}
		} else {
			childToParent[child] = parent
		}
	}
	return len(childToParent) > 1
}

// ============================================================================
// CONVERSION HELPERS
// ============================================================================

func (col *columnAnalysis) toDimension() DimensionMeta {
	return DimensionMeta{
		Key:             col.key,
		Column:          col.header,
		DisplayName:     toDisplayName(col.header),
		SampleValues:    col.sampleVals,
		IsTemporal:      col.isTemporal,
		CardinalityHint: col.cardinality,
		MissingCount:    col.nullCount,
	}
}

func (col *columnAnalysis) toMeasure() MeasureMeta {
	return MeasureMeta{
		Key:                col.key,
		Column:             col.header,
		DisplayName:        toDisplayName(col.header),
		DefaultAggregation: "median",
		MissingCount:       col.nullCount,
	}
}

// collectSamples picks up to maxSamples representative values.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}

	// Sort for deterministic output
	sort.Strings(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
