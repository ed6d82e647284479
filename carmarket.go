// Package carmarket analyses UK second-hand car listings.
//
// The run is a straight pipeline:
//
//	dataset   load a listings CSV (encoding/csv or DuckDB) and clean it
//	engine    group, aggregate and sort through a zero-copy RecordView
//	render    draw SVG charts with gonum/plot and lay out HTML pages
//	export    write the dashboard, chart pages and optional CSV/XLSX data
//	pipeline  wire the steps together for one configured run
//
// The carmarket command (cmd/carmarket) is the entry point:
//
//	carmarket run -i car_sales_data.csv -o site
//	carmarket inspect car_sales_data.csv
//
// Everything is computed locally; no external service is called.
package carmarket
