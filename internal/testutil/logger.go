// Package testutil provides shared helpers for package tests.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Output shows only on failure or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// CarsCSV is a small listings export covering every cleaning rule: a
// duplicate row, missing fields, out-of-range prices and mileages.
const CarsCSV = `Manufacturer,Model,Engine size,Fuel type,Year of manufacture,Mileage,Price
Ford,Fiesta,1.0,Petrol,2002,127300,3074
Porsche,718 Cayman,4.0,Petrol,2016,57850,49704
Ford,Mondeo,1.6,Diesel,2014,39190,24072
Toyota,RAV4,1.8,Hybrid,1988,210814,1705
VW,Polo,1.0,Petrol,2006,127869,4101
Ford,Focus,1.4,Petrol,2018,33603,29204
BMW,M5,4.0,Petrol,2017,22131,52447
Toyota,RAV4,2.4,Hybrid,2020,7812,33208
VW,Golf,1.4,Diesel,2012,55720,12398
BMW,Z4,2.2,Petrol,2012,27212,22356
Ford,Fiesta,1.0,Petrol,2002,127300,3074
Ford,Fiesta,1.2,Petrol,2010,88104,NaN
Toyota,Yaris,1.0,Petrol,,99301,2991
VW,Golf,1.6,Diesel,2001,301000,900
BMW,X5,3.0,Diesel,2019,12000,151000
Ford,Ka,1.2,Petrol,1999,150000,499
`

// WriteFile writes content to name inside a fresh temp dir and returns the path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
