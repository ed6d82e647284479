package render

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================================
// KERNEL DENSITY — Gaussian KDE for violin outlines
// ============================================================================

const (
	kdePoints = 80
	// The outline runs this many bandwidths past the extreme values.
	kdeSpan = 2
)

// silverman returns Silverman's rule-of-thumb bandwidth for sorted values:
// 1.059 · min(σ, IQR/1.349) · n^(-1/5).
func silverman(sorted []float64) float64 {
	n := float64(len(sorted))
	if n < 2 {
		return 0
	}
	spread := stat.StdDev(sorted, nil)
	q1 := stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	if iqr := (q3 - q1) / 1.349; iqr > 0 && iqr < spread {
		spread = iqr
	}
	return 1.059 * spread * math.Pow(n, -0.2)
}

// density estimates the distribution of values on an evenly spaced grid.
// It returns the grid and the density at each point. A constant sample gets
// a narrow bump around its value.
func density(values []float64) (ys, ds []float64) {
	if len(values) == 0 {
		return nil, nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	bw := silverman(sorted)
	if bw <= 0 || math.IsNaN(bw) {
		bw = math.Max(math.Abs(sorted[0])*0.01, 1)
	}

	lo := sorted[0] - kdeSpan*bw
	hi := sorted[len(sorted)-1] + kdeSpan*bw
	step := (hi - lo) / float64(kdePoints-1)

	kernel := distuv.UnitNormal
	n := float64(len(sorted))

	ys = make([]float64, kdePoints)
	ds = make([]float64, kdePoints)
	for i := range ys {
		y := lo + float64(i)*step
		var sum float64
		for _, v := range sorted {
			sum += kernel.Prob((y - v) / bw)
		}
		ys[i] = y
		ds[i] = sum / (n * bw)
	}
	return ys, ds
}
