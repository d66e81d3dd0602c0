// Package estimate computes point estimates, credible intervals and
// convergence summaries from posterior draws.
package estimate

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/common"
	"github.com/uyouii/posterior-diagnostics/kde"
	"github.com/uyouii/posterior-diagnostics/model"
)

// ModeEstimate returns the sample at which a Gaussian KDE of xs peaks. The
// density is only evaluated at the samples, so the result is always one of
// them. When several samples share the maximum density the first one in
// input order wins.
func ModeEstimate(xs []float64, cfg kde.Config) (float64, error) {
	k, err := kde.NewUnivariate(xs, nil, cfg)
	if err != nil {
		return math.NaN(), errors.Wrap(err, "mode estimate")
	}
	return xs[argMax(k.Evaluate(xs))], nil
}

// HighDensityInterval returns the narrowest interval over the sorted
// samples holding round((1-alpha)*n) of them.
func HighDensityInterval(xs []float64, alpha float64) (model.Interval, error) {
	if err := common.ValidateAlpha(alpha); err != nil {
		return model.Interval{}, err
	}
	if len(xs) == 0 {
		return model.Interval{}, errors.Wrap(common.ErrorDegenerateInput, "high density interval of no samples")
	}

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	n := len(sorted)
	count := int(math.Round((1 - alpha) * float64(n)))
	count = min(max(count, 1), n)
	span := count - 1

	best := 0
	for i := 1; i+span < n; i++ {
		if sorted[i+span]-sorted[i] < sorted[best+span]-sorted[best] {
			best = i
		}
	}
	return model.Interval{Lower: sorted[best], Upper: sorted[best+span]}, nil
}

// ProbDensityEstimate fits a joint KDE over all columns of the table and
// returns the density at every draw.
func ProbDensityEstimate(table *model.Table, cfg kde.Config) ([]float64, error) {
	if table.IsEmpty() {
		return nil, errors.Wrap(common.ErrorDegenerateInput, "joint density of an empty table")
	}
	k, err := kde.NewMultivariate(table.Matrix(), cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "joint density of %v", table.Names())
	}
	return k.EvaluateSamples(), nil
}

// MaxPostEstimate returns the draw with the highest joint density, the
// maximum a posteriori estimate. Ties go to the first draw in table order.
func MaxPostEstimate(table *model.Table, cfg kde.Config) (*model.PointEstimate, error) {
	dens, err := ProbDensityEstimate(table, cfg)
	if err != nil {
		return nil, err
	}
	i := argMax(dens)
	return &model.PointEstimate{
		Name:   MAPName,
		Index:  i,
		Names:  table.Names(),
		Values: table.Row(i),
	}, nil
}

// argMax returns the index of the first maximum.
func argMax(x []float64) int {
	best := 0
	for i := 1; i < len(x); i++ {
		if x[i] > x[best] {
			best = i
		}
	}
	return best
}
