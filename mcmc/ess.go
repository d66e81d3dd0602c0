package mcmc

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/common"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type ESSMethod string

const (
	// ESSBulk is the ESS of rank-normalized split chains, for the center
	// of the distribution.
	ESSBulk ESSMethod = "bulk"
	// ESSTail is the minimum ESS of the 5% and 95% quantile indicators.
	ESSTail ESSMethod = "tail"
	// ESSMean is the ESS of the raw split chains, for the mean.
	ESSMean ESSMethod = "mean"
)

func ParseESSMethod(s string) (ESSMethod, error) {
	switch m := ESSMethod(s); m {
	case ESSBulk, ESSTail, ESSMean:
		return m, nil
	}
	return "", errors.Wrapf(common.ErrorInvalidParameter, "unknown ess method %q", s)
}

// ESS estimates the effective sample size. It is NaN when a chain has fewer
// than MinDraws draws or holds non finite values.
func ESS(chains [][]float64, method ESSMethod) (float64, error) {
	switch method {
	case ESSBulk, ESSTail, ESSMean:
	default:
		return math.NaN(), errors.Wrapf(common.ErrorInvalidParameter, "unknown ess method %q", method)
	}
	if !valid(chains, MinDraws, 1) {
		return math.NaN(), nil
	}

	switch method {
	case ESSBulk:
		return ess(ZScale(SplitChains(chains))), nil
	case ESSMean:
		return ess(SplitChains(chains)), nil
	}

	sorted := flatten(chains)
	sort.Float64s(sorted)
	lower := ess(SplitChains(Indicator(chains, quantile(sorted, TailLowerQuantile))))
	upper := ess(SplitChains(Indicator(chains, quantile(sorted, TailUpperQuantile))))
	return math.Min(lower, upper), nil
}

// Autocov returns the biased autocovariance of x at lags 0..len(x)-1,
// computed with a zero padded FFT.
func Autocov(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}
	mean := stat.Mean(x, nil)
	size := 2 * n
	padded := make([]float64, size)
	for i, v := range x {
		padded[i] = v - mean
	}

	fft := fourier.NewFFT(size)
	coeff := fft.Coefficients(nil, padded)
	for i, c := range coeff {
		coeff[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}
	seq := fft.Sequence(nil, coeff)

	// Sequence is unnormalized, scale by the transform length too.
	res := make([]float64, n)
	for i := range res {
		res[i] = seq[i] / float64(size) / float64(n)
	}
	return res
}

// ess is Geyer's initial monotone sequence estimator over equal length
// chains.
func ess(chains [][]float64) float64 {
	m := len(chains)
	if m == 0 {
		return math.NaN()
	}
	n := len(chains[0])
	if n < 2 {
		return math.NaN()
	}

	flat := flatten(chains)
	if floats.Max(flat)-floats.Min(flat) < constantResolution {
		return float64(len(flat))
	}

	acov := make([][]float64, m)
	for i, c := range chains {
		acov[i] = Autocov(c)
	}
	lagMean := func(t int) float64 {
		sum := 0.0
		for i := range acov {
			sum += acov[i][t]
		}
		return sum / float64(m)
	}

	nf := float64(n)
	meanVar := lagMean(0) * nf / (nf - 1)
	varPlus := meanVar * (nf - 1) / nf
	if m > 1 {
		varPlus += stat.Variance(chainMeans(chains), nil)
	}

	rho := make([]float64, n)
	rhoEven := 1.0
	rho[0] = rhoEven
	rhoOdd := 1 - (meanVar-lagMean(1))/varPlus
	rho[1] = rhoOdd

	// Positive sequence: sum pairs until the pair sum turns negative.
	t := 1
	for t < n-3 && rhoEven+rhoOdd > 0 {
		rhoEven = 1 - (meanVar-lagMean(t+1))/varPlus
		rhoOdd = 1 - (meanVar-lagMean(t+2))/varPlus
		if rhoEven+rhoOdd >= 0 {
			rho[t+1] = rhoEven
			rho[t+2] = rhoOdd
		}
		t += 2
	}

	maxT := t - 2
	if rhoEven > 0 {
		rho[maxT+1] = rhoEven
	}

	// Monotone sequence: pair sums must not increase.
	t = 1
	for t <= maxT-2 {
		if rho[t+1]+rho[t+2] > rho[t-1]+rho[t] {
			rho[t+1] = (rho[t-1] + rho[t]) / 2
			rho[t+2] = rho[t+1]
		}
		t += 2
	}

	total := float64(m * n)
	tau := -1 + 2*floats.Sum(rho[:maxT+1]) + floats.Sum(rho[maxT+1:min(maxT+2, n)])
	tau = math.Max(tau, 1/math.Log10(total))
	res := total / tau
	if math.IsNaN(res) {
		return math.NaN()
	}
	return res
}
