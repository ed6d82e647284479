package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView, zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view).
// ============================================================================

// GroupAndAggregate is the main entry point for the aggregation pipeline.
// Pipeline: group → aggregate → sort → limit.
func GroupAndAggregate(
	view RecordView,
	groupBy string,
	measure string,
	aggregation string,
	sortBy string,
	order []string,
	limit int,
) []Group {
	if view.Len() == 0 {
		return nil
	}

	// 1. Group
	var groups []Group
	if groupBy == "" {
		groups = []Group{{
			Key:   "all",
			Label: "Total",
			View:  view,
		}}
	} else {
		groups = groupBySingle(view, groupBy)
	}

	// 2. Aggregate
	for i := range groups {
		aggregateGroup(&groups[i], measure, aggregation)
	}

	// 3. Sort
	if sortBy == SortExplicit {
		groups = orderGroups(groups, order)
	} else {
		SortGroups(groups, sortBy)
	}

	// 4. Limit
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// orderGroups arranges groups by an explicit key order. Groups whose key is
// not listed follow in their existing order.
func orderGroups(groups []Group, order []string) []Group {
	rank := make(map[string]int, len(order))
	for i, key := range order {
		if _, dup := rank[key]; !dup {
			rank[key] = i
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		ri, iok := rank[groups[i].Key]
		rj, jok := rank[groups[j].Key]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		default:
			return false
		}
	})
	return groups
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, measure string, aggregation string) {
	group.Count = group.View.Len()
	if group.Count == 0 {
		return
	}

	switch aggregation {
	case AggMedian:
		group.Value = MedianMeasure(group.View, measure)
	case AggCount:
		group.Value = float64(group.Count)
	case AggSum:
		group.Value = SumMeasure(group.View, measure)
	case AggAvg:
		group.Value = AvgMeasure(group.View, measure)
	case AggMax:
		group.Value = MaxMeasure(group.View, measure)
	case AggMin:
		group.Value = MinMeasure(group.View, measure)
	case AggDistribution:
		group.Values = MeasureValues(group.View, measure)
		group.Value = Median(group.Values)
	default:
		group.Value = SumMeasure(group.View, measure)
	}
}

// MeasureValues copies a named measure out of a view, in view order.
func MeasureValues(view RecordView, measure string) []float64 {
	values := make([]float64, view.Len())
	for i := range values {
		values[i] = view.Measure(i, measure)
	}
	return values
}

// MedianMeasure returns the median of a named measure across a view.
func MedianMeasure(view RecordView, measure string) float64 {
	return Median(MeasureValues(view, measure))
}

// Median returns the middle value of values; for an even count it is the mean
// of the two middle values. The input slice is not modified. Empty input → 0.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.Measure(i, measure)
	}
	return total
}

// AvgMeasure computes average of a named measure.
func AvgMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	return SumMeasure(view, measure) / float64(n)
}

// MaxMeasure returns the largest value of a named measure.
func MaxMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	m := math.Inf(-1)
	for i := 0; i < n; i++ {
		if v := view.Measure(i, measure); v > m {
			m = v
		}
	}
	return m
}

// MinMeasure returns the smallest value of a named measure.
func MinMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	m := math.Inf(1)
	for i := 0; i < n; i++ {
		if v := view.Measure(i, measure); v < m {
			m = v
		}
	}
	return m
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts aggregate groups by the specified sort mode.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case SortValueDesc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	case SortValueAsc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case SortKeyNumeric:
		sort.SliceStable(groups, func(i, j int) bool { return numericKeyLess(groups[i].Key, groups[j].Key) })
	case SortLabelAsc:
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) < strings.ToLower(groups[j].Key) })
	default:
		// preserve grouping order
	}
}

// numericKeyLess orders numeric keys by value; non-numeric keys sort after
// numeric ones, alphabetically.
func numericKeyLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return fa < fb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatCurrency formats an amount with currency prefix and comma separators.
// Symbol currencies ("£") attach directly; codes ("GBP") are space separated.
// Whole amounts drop the decimals.
func FormatCurrency(amount float64, currency string) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	result := strings.TrimSuffix(humanize.FormatFloat("#,###.##", RoundTo2(amount)), ".00")

	switch {
	case currency == "":
	case utf8.RuneCountInString(currency) == 1:
		result = currency + result
	default:
		result = currency + " " + result
	}
	if negative && RoundTo2(amount) > 0 {
		result = "-" + result
	}
	return result
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LabelForDimension returns a capitalized label for a dimension key.
// "year_of_manufacture" → "Year of manufacture".
func LabelForDimension(dimension string) string {
	if len(dimension) == 0 {
		return ""
	}
	label := strings.ReplaceAll(dimension, "_", " ")
	return strings.ToUpper(label[:1]) + label[1:]
}

// LabelForAggregation returns a human-readable label for an aggregation type.
func LabelForAggregation(aggregation string) string {
	switch aggregation {
	case AggMedian, AggDistribution:
		return "Median"
	case AggSum:
		return "Amount"
	case AggCount:
		return "Count"
	case AggAvg:
		return "Average"
	case AggMax:
		return "Maximum"
	case AggMin:
		return "Minimum"
	default:
		return "Value"
	}
}
