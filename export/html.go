package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spektr-org/carmarket/render"
)

// DashboardFile is the name of the combined page.
const DashboardFile = "dashboard.html"

// Pages is everything needed to write the HTML output.
type Pages struct {
	Dashboard render.Dashboard
	// Charts are written as <id>.html, in order.
	Charts []*render.Chart
	Meta   render.PageMeta
}

// WriteHTML writes the dashboard and one page per chart into dir, creating
// dir if needed. It returns the written paths, dashboard first.
func WriteHTML(dir string, pages Pages) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var paths []string

	dashboard := filepath.Join(dir, DashboardFile)
	err := writeFile(dashboard, func(w io.Writer) error {
		return render.Write(w, render.DashboardPage(pages.Dashboard, pages.Meta))
	})
	if err != nil {
		return nil, err
	}
	paths = append(paths, dashboard)

	for _, chart := range pages.Charts {
		path := filepath.Join(dir, chart.ID+".html")
		err := writeFile(path, func(w io.Writer) error {
			return render.Write(w, render.ChartPage(chart, pages.Meta))
		})
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
