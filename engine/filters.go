package engine

import (
	"sort"
	"strings"
)

// ============================================================================
// FILTERS — Dimension and Range Filtering via RecordView
// ============================================================================
// Single-pass filter: checks ALL constraints per record in one loop.
// Returns a SubView (index list into parent), zero data copy.
// ============================================================================

// ApplyFilters returns a view of records matching all filters.
// Dimensions are AND-combined; values within a dimension are OR-combined.
// Ranges are AND-combined with everything else.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	// Pre-build lowercase lookup sets for each dimension filter
	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if filters.HasFilter(dim) {
			sets[dim] = toLowerSet(allowed)
		}
	}

	if len(sets) == 0 && len(filters.Ranges) == 0 {
		return view
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if matches(view, i, sets, filters.Ranges) {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

func matches(view RecordView, i int, sets map[string]map[string]bool, ranges map[string]Range) bool {
	for dim, set := range sets {
		if !set[strings.ToLower(view.Dimension(i, dim))] {
			return false
		}
	}
	for measure, r := range ranges {
		if !r.Contains(view.Measure(i, measure)) {
			return false
		}
	}
	return true
}

// TopKeys returns the n most frequent values of a dimension, most frequent
// first. Ties keep first-appearance order. n <= 0 returns every value.
func TopKeys(view RecordView, dimension string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if n > 0 && len(order) > n {
		order = order[:n]
	}
	return order
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
