// Package mcmc implements convergence diagnostics over MCMC draws:
// effective sample size and potential scale reduction (R-hat), following
// Vehtari et al. (2021), "Rank-normalization, folding, and localization:
// an improved R-hat for assessing convergence of MCMC".
//
// Draws are passed as chains, one slice per chain, all of equal length.
package mcmc

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/common"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Chains splits concatenated draws into n consecutive chains of equal
// length.
func Chains(draws []float64, n int) ([][]float64, error) {
	if n < 1 {
		return nil, errors.Wrapf(common.ErrorInvalidParameter, "chain count must be positive, got %d", n)
	}
	if len(draws)%n != 0 {
		return nil, errors.Wrapf(common.ErrorInvalidParameter,
			"%d draws cannot be split into %d chains of equal length", len(draws), n)
	}
	size := len(draws) / n
	res := make([][]float64, n)
	for i := range res {
		res[i] = append([]float64(nil), draws[i*size:(i+1)*size]...)
	}
	return res, nil
}

// SplitChains cuts every chain in two halves, dropping the middle draw of
// odd length chains. First halves come first.
func SplitChains(chains [][]float64) [][]float64 {
	if len(chains) == 0 {
		return nil
	}
	n := len(chains[0])
	half := n / 2
	res := make([][]float64, 0, 2*len(chains))
	for _, c := range chains {
		res = append(res, c[:half])
	}
	for _, c := range chains {
		res = append(res, c[n-half:])
	}
	return res
}

// ZScale rank-normalizes the draws: average ranks over all chains are
// mapped through the normal quantile function at (r - 3/8) / (N + 1/4).
func ZScale(chains [][]float64) [][]float64 {
	flat := flatten(chains)
	ranks := averageRanks(flat)
	size := float64(len(flat))

	res := make([][]float64, len(chains))
	k := 0
	for i, c := range chains {
		res[i] = make([]float64, len(c))
		for j := range c {
			res[i][j] = distuv.UnitNormal.Quantile((ranks[k] - 0.375) / (size + 0.25))
			k++
		}
	}
	return res
}

// Fold maps every draw to its absolute deviation from the median of all
// draws.
func Fold(chains [][]float64) [][]float64 {
	flat := flatten(chains)
	sort.Float64s(flat)
	median := quantile(flat, 0.5)

	res := make([][]float64, len(chains))
	for i, c := range chains {
		res[i] = make([]float64, len(c))
		for j, v := range c {
			res[i][j] = math.Abs(v - median)
		}
	}
	return res
}

// Indicator maps every draw to 1 when it is <= threshold and 0 otherwise.
func Indicator(chains [][]float64, threshold float64) [][]float64 {
	res := make([][]float64, len(chains))
	for i, c := range chains {
		res[i] = make([]float64, len(c))
		for j, v := range c {
			if v <= threshold {
				res[i][j] = 1
			}
		}
	}
	return res
}

// averageRanks returns 1-based ranks, ties sharing the mean of their
// positions.
func averageRanks(x []float64) []float64 {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return x[idx[i]] < x[idx[j]] })

	ranks := make([]float64, len(x))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && x[idx[j+1]] == x[idx[i]] {
			j++
		}
		rank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = rank
		}
		i = j + 1
	}
	return ranks
}

// quantile is the linearly interpolated quantile of sorted data, the
// (n-1)p+1 definition.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func flatten(chains [][]float64) []float64 {
	res := []float64{}
	for _, c := range chains {
		res = append(res, c...)
	}
	return res
}

func valid(chains [][]float64, minDraws, minChains int) bool {
	if len(chains) < minChains {
		return false
	}
	for _, c := range chains {
		if len(c) < minDraws || len(c) != len(chains[0]) {
			return false
		}
		for _, v := range c {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

func chainMeans(chains [][]float64) []float64 {
	res := make([]float64, len(chains))
	for i, c := range chains {
		res[i] = stat.Mean(c, nil)
	}
	return res
}
