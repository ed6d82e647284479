package schema

import (
	"reflect"
	"testing"
)

// ============================================================================
// HEADER VALIDATION TESTS
// ============================================================================

func TestResolveCarHeaders(t *testing.T) {
	headers := []string{"Manufacturer", "Model", "Engine size", "Fuel type", "Year of manufacture", "Mileage", "Price"}

	index, missing := CarListings().Resolve(headers)
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none", missing)
	}

	want := map[string]int{
		KeyManufacturer: 0,
		KeyModel:        1,
		KeyEngineSize:   2,
		KeyFuelType:     3,
		KeyYear:         4,
		KeyMileage:      5,
		KeyPrice:        6,
	}
	for key, pos := range want {
		if got, ok := index[key]; !ok || got != pos {
			t.Errorf("index[%s] = %d (found=%v), want %d", key, got, ok, pos)
		}
	}
}

func TestResolveIsCaseAndSpacingInsensitive(t *testing.T) {
	headers := []string{" price ", "MILEAGE", "year_of_manufacture", "manufacturer"}

	index, missing := CarListings().Resolve(headers)
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none", missing)
	}
	if index[KeyPrice] != 0 || index[KeyYear] != 2 {
		t.Errorf("unexpected index: %v", index)
	}
	if index.Has(KeyModel) {
		t.Error("model should be absent")
	}
}

func TestResolveReportsMissingRequired(t *testing.T) {
	_, missing := CarListings().Resolve([]string{"Manufacturer", "Model", "Price"})

	want := []string{"Mileage", "Year of manufacture"}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("missing = %v, want %v", missing, want)
	}
}

func TestResolveFirstDuplicateWins(t *testing.T) {
	index, _ := CarListings().Resolve([]string{"Price", "Manufacturer", "price"})
	if index[KeyPrice] != 0 {
		t.Errorf("index[price] = %d, want 0", index[KeyPrice])
	}
}

func TestIsMissing(t *testing.T) {
	for _, v := range []string{"", "  ", "NA", "n/a", "N/A", "NaN", "nan", "-nan", "null", "NULL", "None", "#N/A", "<NA>"} {
		if !IsMissing(v) {
			t.Errorf("IsMissing(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"0", "Ford", "Nanette", "-1", "-", "NONE", "Null", "na"} {
		if IsMissing(v) {
			t.Errorf("IsMissing(%q) = true, want false", v)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Year of manufacture": "year_of_manufacture",
		"Engine size":         "engine_size",
		"fuelType":            "fuel_type",
		"  Price  ":           "price",
		"Mileage - miles":     "mileage_miles",
	}
	for in, want := range tests {
		if got := ToSnakeCase(in); got != want {
			t.Errorf("ToSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
