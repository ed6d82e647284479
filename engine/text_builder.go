package engine

// ============================================================================
// TEXT BUILDER — Headline statistics for one measure
// ============================================================================

// BuildText summarises a measure across a view: median, range and count.
func BuildText(view RecordView, measure string, unit string) *TextData {
	if view.Len() == 0 {
		return &TextData{
			Value: FormatCurrency(0, unit),
			Unit:  unit,
		}
	}

	median := MedianMeasure(view, measure)
	return &TextData{
		Value:    FormatCurrency(median, unit),
		RawValue: median,
		Unit:     unit,
		Count:    view.Len(),
		Min:      MinMeasure(view, measure),
		Max:      MaxMeasure(view, measure),
	}
}
