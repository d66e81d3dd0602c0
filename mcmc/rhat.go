package mcmc

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/common"
	"gonum.org/v1/gonum/stat"
)

type RhatMethod string

const (
	// RhatRank is the maximum of the rank-normalized split R-hat and the
	// rank-normalized split R-hat of the folded draws.
	RhatRank RhatMethod = "rank"
	// RhatSplit is the classic R-hat over split chains.
	RhatSplit RhatMethod = "split"
	// RhatIdentity is the classic R-hat over the chains as given. It needs
	// at least two chains.
	RhatIdentity RhatMethod = "identity"
)

func ParseRhatMethod(s string) (RhatMethod, error) {
	switch m := RhatMethod(s); m {
	case RhatRank, RhatSplit, RhatIdentity:
		return m, nil
	case "":
		return RhatRank, nil
	}
	return "", errors.Wrapf(common.ErrorInvalidParameter, "unknown rhat method %q", s)
}

// Rhat computes the potential scale reduction factor. It is NaN when a
// chain has fewer than MinDraws draws or holds non finite values.
func Rhat(chains [][]float64, method RhatMethod) (float64, error) {
	switch method {
	case RhatRank, RhatSplit:
		if !valid(chains, MinDraws, 1) {
			return math.NaN(), nil
		}
	case RhatIdentity:
		if !valid(chains, MinDraws, 2) {
			return math.NaN(), nil
		}
	default:
		return math.NaN(), errors.Wrapf(common.ErrorInvalidParameter, "unknown rhat method %q", method)
	}

	switch method {
	case RhatSplit:
		return rhat(SplitChains(chains)), nil
	case RhatIdentity:
		return rhat(chains), nil
	}

	split := SplitChains(chains)
	bulk := rhat(ZScale(split))
	tail := rhat(ZScale(Fold(split)))
	return math.Max(bulk, tail), nil
}

func rhat(chains [][]float64) float64 {
	if len(chains) < 2 {
		return math.NaN()
	}
	n := float64(len(chains[0]))

	within := 0.0
	for _, c := range chains {
		within += stat.Variance(c, nil)
	}
	within /= float64(len(chains))
	between := n * stat.Variance(chainMeans(chains), nil)

	return math.Sqrt((between/within + n - 1) / n)
}
