package schema

// ============================================================================
// HEADER VALIDATION — Map CSV headers onto schema keys
// ============================================================================
// Headers match on their snake_case form, so "Year of manufacture",
// "year_of_manufacture" and "YearOfManufacture" all resolve to the same key.
// ============================================================================

// ColumnIndex maps schema keys to CSV column positions.
type ColumnIndex map[string]int

// Has reports whether the key was found in the header row.
func (ci ColumnIndex) Has(key string) bool {
	_, ok := ci[key]
	return ok
}

// Resolve matches a header row against the schema. It returns the index of
// every known column found and the display names of required columns that are
// absent. Unknown headers are ignored. When a header repeats, the first wins.
func (c Config) Resolve(headers []string) (ColumnIndex, []string) {
	byKey := make(map[string]int, len(headers))
	for i, h := range headers {
		key := ToSnakeCase(h)
		if _, dup := byKey[key]; !dup {
			byKey[key] = i
		}
	}

	index := make(ColumnIndex)
	var missing []string

	check := func(key, column string, required bool) {
		pos, ok := byKey[key]
		if !ok && column != "" {
			pos, ok = byKey[ToSnakeCase(column)]
		}
		if ok {
			index[key] = pos
			return
		}
		if required {
			missing = append(missing, column)
		}
	}

	for _, d := range c.Dimensions {
		check(d.Key, d.Column, d.Required)
	}
	for _, m := range c.Measures {
		if m.IsSynthetic {
			continue
		}
		check(m.Key, m.Column, m.Required)
	}

	return index, missing
}

// ValidateHeaders returns the display names of required columns missing from
// headers, or nil when the header row is usable.
func (c Config) ValidateHeaders(headers []string) []string {
	_, missing := c.Resolve(headers)
	return missing
}
