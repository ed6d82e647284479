package render

import (
	"io"
	"strconv"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// ============================================================================
// PAGES — Static HTML around the SVG figures
// ============================================================================

// PageMeta tags every generated page.
type PageMeta struct {
	RunID  string
	Source string
}

// Dashboard is the combined 2x2 view.
type Dashboard struct {
	Title    string
	Headline string
	// Charts fill the grid row by row.
	Charts      []*Chart
	Legend      []LegendEntry
	LegendTitle string
	Height      int // px
}

const stylesheet = `
body{font-family:"Open Sans",Helvetica,Arial,sans-serif;margin:0;padding:24px;color:#2a3f5f;background:#fff}
h1{text-align:center;font-size:1.6rem;font-weight:600;margin:0 0 4px}
.headline{text-align:center;color:#506784;margin:0 0 16px}
.chart svg{width:100%;height:auto;display:block}
.page{max-width:1100px;margin:0 auto}
.dashboard{display:flex;gap:16px;align-items:stretch}
.grid{flex:1;display:grid;grid-template-columns:1fr 1fr;grid-template-rows:1fr 1fr;gap:12px}
.cell{display:flex;flex-direction:column;min-height:0}
.cell h2{text-align:center;font-size:1rem;font-weight:600;margin:4px 0}
.cell .chart{flex:1;min-height:0}
.cell .chart svg{height:100%}
.legend{min-width:140px;font-size:.9rem}
.legend-title{font-weight:600;margin-bottom:6px}
.legend ul{list-style:none;margin:0;padding:0}
.legend li{display:flex;align-items:center;gap:6px;margin:3px 0}
.swatch{display:inline-block;width:12px;height:12px;border-radius:2px}
`

// ChartPage is a standalone page for one figure.
func ChartPage(fig *Chart, meta PageMeta) g.Node {
	return document(fig.Title, meta,
		Div(Class("page"),
			Div(Class("dashboard"),
				Div(Class("chart"), ID(fig.ID), g.Raw(string(fig.SVG))),
				g.If(len(fig.Legend) > 0, legend(fig.LegendTitle, fig.Legend)),
			),
		),
	)
}

// DashboardPage lays figures out in a two-column grid under a centred title,
// with one legend shared by every figure.
func DashboardPage(d Dashboard, meta PageMeta) g.Node {
	height := d.Height
	if height <= 0 {
		height = 900
	}

	cells := make([]g.Node, 0, len(d.Charts))
	for _, fig := range d.Charts {
		cells = append(cells, Div(Class("cell"),
			H2(g.Text(fig.Title)),
			Div(Class("chart"), ID(fig.ID), g.Raw(string(fig.SVG))),
		))
	}

	return document(d.Title, meta,
		H1(g.Text(d.Title)),
		g.If(d.Headline != "", P(Class("headline"), g.Text(d.Headline))),
		Div(Class("dashboard"), Style("height:"+strconv.Itoa(height)+"px"),
			Div(Class("grid"), g.Group(cells)),
			g.If(len(d.Legend) > 0, legend(d.LegendTitle, d.Legend)),
		),
	)
}

func document(title string, meta PageMeta, body ...g.Node) g.Node {
	return Doctype(
		HTML(Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				g.If(meta.RunID != "", Meta(Name("carmarket-run"), Content(meta.RunID))),
				g.If(meta.Source != "", Meta(Name("carmarket-source"), Content(meta.Source))),
				TitleEl(g.Text(title)),
				StyleEl(g.Raw(stylesheet)),
			),
			Body(body...),
		),
	)
}

func legend(title string, entries []LegendEntry) g.Node {
	items := make([]g.Node, 0, len(entries))
	for _, e := range entries {
		items = append(items, Li(
			Span(Class("swatch"), Style("background:"+e.Color)),
			g.Text(e.Name),
		))
	}
	return Div(Class("legend"),
		g.If(title != "", Div(Class("legend-title"), g.Text(title))),
		Ul(items...),
	)
}

// Write renders a page to w.
func Write(w io.Writer, page g.Node) error {
	return page.Render(w)
}
