package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/spektr-org/carmarket/engine"
	"github.com/spektr-org/carmarket/pipeline"
)

type uiStyles struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

func newStyles() uiStyles {
	return uiStyles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Heading: lipgloss.NewStyle().Bold(true).MarginTop(1),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func fprintln(w io.Writer, s string) {
	_, _ = fmt.Fprintln(w, s)
}

// printReport summarises a finished run: rows dropped per cleaning step, the
// kept brands and the files written.
func printReport(w io.Writer, r *pipeline.Report) {
	styles := newStyles()

	fprintln(w, styles.Title.Render("Car market analysis"))
	fprintln(w, styles.Muted.Render(fmt.Sprintf("run %s · %s", r.RunID, r.Source)))
	fprintln(w, r.Headline)

	fprintln(w, styles.Heading.Render("Cleaning"))
	t := newTable(w)
	t.AppendHeader(table.Row{"Step", "Rows"})
	t.AppendRows([]table.Row{
		{"Read", humanize.Comma(int64(r.Stats.Read))},
		{"Malformed (skipped)", humanize.Comma(int64(r.Malformed))},
		{"Duplicates", humanize.Comma(int64(r.Stats.Duplicates))},
		{"Missing fields", humanize.Comma(int64(r.Stats.Incomplete))},
		{"Out of range", humanize.Comma(int64(r.Stats.OutOfRange))},
		{"Other brands", humanize.Comma(int64(r.Stats.OtherBrands))},
	})
	t.AppendFooter(table.Row{"Kept", humanize.Comma(int64(r.Stats.Kept))})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight}})
	t.Render()

	fprintln(w, styles.Heading.Render("Brands"))
	t = newTable(w)
	t.AppendHeader(table.Row{"Brand", "Listings", "Median price"})
	for _, b := range r.Brands {
		t.AppendRow(table.Row{b.Brand, humanize.Comma(int64(b.Listings)), engine.FormatCurrency(b.MedianPrice, "£")})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()

	fprintln(w, styles.Heading.Render("Files"))
	for _, f := range r.Files {
		fprintln(w, "  "+f)
	}
	fprintln(w, styles.Success.Render(fmt.Sprintf("✓ done in %s", r.Duration.Round(time.Millisecond))))
}
