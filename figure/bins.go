package figure

import (
	"math"
	"sort"

	"github.com/uyouii/posterior-diagnostics/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// binCount picks the number of histogram bins with the Freedman-Diaconis
// rule, falling back to Sturges' rule when the IQR is zero.
func binCount(values []float64) int {
	n := len(values)
	if n < 2 {
		return 1
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	span := floats.Max(sorted) - floats.Min(sorted)
	if span == 0 {
		return 1
	}

	iqr := stat.Quantile(0.75, stat.Empirical, sorted, nil) - stat.Quantile(0.25, stat.Empirical, sorted, nil)
	bins := 0
	if iqr > 0 {
		width := 2 * iqr * math.Pow(float64(n), -1.0/3)
		bins = int(math.Ceil(span / width))
	} else {
		bins = int(math.Ceil(math.Log2(float64(n)))) + 1
	}
	return utils.IntMin(utils.IntMax(bins, 1), MaxBins)
}
