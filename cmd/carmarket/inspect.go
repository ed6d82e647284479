package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/spektr-org/carmarket/schema"
)

func newInspectCommand() *cobra.Command {
	var sample int

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Describe the columns of a CSV file",
		Long: `Sample a CSV file, classify each column as a dimension or a measure, and
check that the columns a listings analysis needs are present.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			opts := schema.DefaultDiscoverOptions()
			opts.SampleSize = sample
			discovered, err := schema.DiscoverFromCSV(f, opts)
			if err != nil {
				return fmt.Errorf("inspect %s: %w", args[0], err)
			}
			printSchema(cmd.OutOrStdout(), discovered)
			return nil
		},
	}
	cmd.Flags().IntVar(&sample, "sample", 1000, "rows to sample (0 = all)")
	return cmd
}

func printSchema(w io.Writer, cfg *schema.Config) {
	styles := newStyles()

	fprintln(w, styles.Title.Render(cfg.Name))
	fprintln(w, styles.Muted.Render(humanize.Comma(int64(cfg.RowsSampled))+" rows sampled"))
	fprintln(w, "")

	if len(cfg.Dimensions) > 0 {
		fprintln(w, styles.Heading.Render("Dimensions"))
		t := newTable(w)
		t.AppendHeader(table.Row{"Column", "Key", "Cardinality", "Missing", "Samples"})
		for _, d := range cfg.Dimensions {
			t.AppendRow(table.Row{d.Column, d.Key, d.CardinalityHint, humanize.Comma(int64(d.MissingCount)), strings.Join(d.SampleValues, ", ")})
		}
		t.Render()
	}

	if len(cfg.Measures) > 0 {
		fprintln(w, styles.Heading.Render("Measures"))
		t := newTable(w)
		t.AppendHeader(table.Row{"Column", "Key", "Unit", "Aggregation", "Missing"})
		for _, m := range cfg.Measures {
			if m.IsSynthetic {
				continue
			}
			t.AppendRow(table.Row{m.Column, m.Key, m.Unit, m.DefaultAggregation, humanize.Comma(int64(m.MissingCount))})
		}
		t.Render()
	}

	if len(cfg.SkippedColumns) > 0 {
		fprintln(w, styles.Heading.Render("Skipped"))
		t := newTable(w)
		t.AppendHeader(table.Row{"Column", "Reason"})
		for _, s := range cfg.SkippedColumns {
			t.AppendRow(table.Row{s.Column, s.Reason})
		}
		t.Render()
	}

	missing := schema.CarListings().ValidateHeaders(columns(cfg))
	if len(missing) == 0 {
		fprintln(w, styles.Success.Render("✓ all listing columns present"))
	} else {
		fprintln(w, styles.Error.Render("✗ missing listing columns: "+strings.Join(missing, ", ")))
	}
}

// columns recovers the header row from a discovered schema.
func columns(cfg *schema.Config) []string {
	var headers []string
	for _, d := range cfg.Dimensions {
		headers = append(headers, d.Column)
	}
	for _, m := range cfg.Measures {
		if !m.IsSynthetic {
			headers = append(headers, m.Column)
		}
	}
	for _, s := range cfg.SkippedColumns {
		headers = append(headers, s.Column)
	}
	return headers
}
