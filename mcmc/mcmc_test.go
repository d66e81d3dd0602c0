package mcmc

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/posterior-diagnostics/common"
)

func iidChains(m, n int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	chains := make([][]float64, m)
	for i := range chains {
		chains[i] = make([]float64, n)
		for j := range chains[i] {
			chains[i][j] = rng.NormFloat64()
		}
	}
	return chains
}

func ar1Chains(m, n int, phi float64, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	chains := make([][]float64, m)
	for i := range chains {
		chains[i] = make([]float64, n)
		x := rng.NormFloat64()
		for j := range chains[i] {
			x = phi*x + rng.NormFloat64()
			chains[i][j] = x
		}
	}
	return chains
}

func TestChains(t *testing.T) {
	chains, err := Chains([]float64{1, 2, 3, 4, 5, 6}, 2)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, chains)

	_, err = Chains([]float64{1, 2, 3}, 2)
	require.True(t, errors.Is(err, common.ErrorInvalidParameter))
	_, err = Chains([]float64{1, 2, 3}, 0)
	require.True(t, errors.Is(err, common.ErrorInvalidParameter))
}

func TestSplitChains(t *testing.T) {
	split := SplitChains([][]float64{{1, 2, 3, 4, 5}, {6, 7, 8, 9, 10}})
	require.Equal(t, [][]float64{{1, 2}, {6, 7}, {4, 5}, {9, 10}}, split)
	require.Nil(t, SplitChains(nil))
}

func TestAverageRanks(t *testing.T) {
	require.Equal(t, []float64{3.5, 1, 3.5, 2}, averageRanks([]float64{3, 1, 3, 2}))
	require.Equal(t, []float64{2, 2, 2}, averageRanks([]float64{7, 7, 7}))
}

func TestZScale(t *testing.T) {
	z := ZScale([][]float64{{10, 40}, {30, 20}})
	// Ranks 1..4 map to symmetric normal quantiles.
	require.InDelta(t, -z[0][0], z[0][1], 1e-12)
	require.InDelta(t, -z[1][1], z[1][0], 1e-12)
	require.Less(t, z[0][0], z[1][1])
	require.Less(t, z[1][1], z[1][0])
	require.Less(t, z[1][0], z[0][1])
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	require.Equal(t, 3.0, quantile(sorted, 0.5))
	require.Equal(t, 1.0, quantile(sorted, 0))
	require.Equal(t, 5.0, quantile(sorted, 1))
	require.InDelta(t, 1.2, quantile(sorted, 0.05), 1e-12)
	require.True(t, math.IsNaN(quantile(nil, 0.5)))
}

func TestAutocov(t *testing.T) {
	x := ar1Chains(1, 200, 0.5, 7)[0]
	got := Autocov(x)
	require.Len(t, got, len(x))

	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	for _, lag := range []int{0, 1, 2, 10, 199} {
		want := 0.0
		for i := 0; i+lag < len(x); i++ {
			want += (x[i] - mean) * (x[i+lag] - mean)
		}
		want /= float64(len(x))
		require.InDelta(t, want, got[lag], 1e-9, "lag %d", lag)
	}
	require.Nil(t, Autocov(nil))
}

func TestESSIndependentDraws(t *testing.T) {
	chains := iidChains(4, 1000, 1)
	total := 4000.0

	for _, method := range []ESSMethod{ESSBulk, ESSTail, ESSMean} {
		got, err := ESS(chains, method)
		require.NoError(t, err)
		require.Greater(t, got, 0.5*total, "method %s", method)
		require.Less(t, got, 1.5*total, "method %s", method)
	}
}

func TestESSCorrelatedDraws(t *testing.T) {
	chains := ar1Chains(4, 1000, 0.9, 2)
	got, err := ESS(chains, ESSBulk)
	require.NoError(t, err)
	// Theoretical value is N(1-phi)/(1+phi), about 210.
	require.Greater(t, got, 40.0)
	require.Less(t, got, 800.0)
}

func TestESSEdgeCases(t *testing.T) {
	got, err := ESS([][]float64{{1, 2, 3}}, ESSBulk)
	require.NoError(t, err)
	require.True(t, math.IsNaN(got))

	got, err = ESS([][]float64{{2, 2, 2, 2, 2, 2}}, ESSMean)
	require.NoError(t, err)
	require.Equal(t, 6.0, got)

	got, err = ESS([][]float64{{1, 2, math.NaN(), 4}}, ESSBulk)
	require.NoError(t, err)
	require.True(t, math.IsNaN(got))

	_, err = ESS(iidChains(1, 10, 1), "bogus")
	require.True(t, errors.Is(err, common.ErrorInvalidParameter))
}

func TestRhatConverged(t *testing.T) {
	chains := iidChains(4, 1000, 3)
	for _, method := range []RhatMethod{RhatRank, RhatSplit, RhatIdentity} {
		got, err := Rhat(chains, method)
		require.NoError(t, err)
		require.InDelta(t, 1.0, got, 0.02, "method %s", method)
	}
}

func TestRhatNotConverged(t *testing.T) {
	chains := iidChains(2, 500, 4)
	for j := range chains[1] {
		chains[1][j] += 5
	}
	for _, method := range []RhatMethod{RhatRank, RhatSplit, RhatIdentity} {
		got, err := Rhat(chains, method)
		require.NoError(t, err)
		require.Greater(t, got, 1.5, "method %s", method)
	}

	// A single chain drifting between halves is caught by splitting.
	single := iidChains(1, 1000, 5)
	for j := 500; j < 1000; j++ {
		single[0][j] += 5
	}
	got, err := Rhat(single, RhatRank)
	require.NoError(t, err)
	require.Greater(t, got, 1.5)

	got, err = Rhat(single, RhatIdentity)
	require.NoError(t, err)
	require.True(t, math.IsNaN(got))
}

func TestRhatEdgeCases(t *testing.T) {
	got, err := Rhat([][]float64{{1, 2, 3}}, RhatRank)
	require.NoError(t, err)
	require.True(t, math.IsNaN(got))

	_, err = Rhat(iidChains(2, 10, 1), "bogus")
	require.True(t, errors.Is(err, common.ErrorInvalidParameter))

	m, err := ParseRhatMethod("")
	require.NoError(t, err)
	require.Equal(t, RhatRank, m)
	_, err = ParseRhatMethod("x")
	require.True(t, errors.Is(err, common.ErrorInvalidParameter))
	_, err = ParseESSMethod("tail")
	require.NoError(t, err)
}
