package render

import (
	"math"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot"
)

// wholeTicks keeps plot's default tick positions but labels only whole
// values, formatted by label. Fractional majors become minor ticks, so axes
// of counts and years never show "2012.5".
func wholeTicks(label func(float64) string) plot.Ticker {
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		ticks := plot.DefaultTicks{}.Ticks(min, max)
		for i := range ticks {
			if ticks[i].Label == "" {
				continue
			}
			if ticks[i].Value != math.Trunc(ticks[i].Value) {
				ticks[i].Label = ""
				continue
			}
			ticks[i].Label = label(ticks[i].Value)
		}
		return ticks
	})
}

func commaLabel(v float64) string {
	return humanize.Comma(int64(v))
}

func plainLabel(v float64) string {
	return humanize.Ftoa(v)
}
