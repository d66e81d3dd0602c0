package estimate

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/posterior-diagnostics/common"
	"github.com/uyouii/posterior-diagnostics/kde"
	"github.com/uyouii/posterior-diagnostics/model"
	"github.com/uyouii/posterior-diagnostics/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func posteriorTable(t *testing.T, n int, seed int64) *model.Table {
	rng := rand.New(rand.NewSource(seed))
	mu := make([]float64, n)
	sigma := make([]float64, n)
	for i := 0; i < n; i++ {
		mu[i] = 2 + 0.5*rng.NormFloat64()
		sigma[i] = math.Exp(0.2 * rng.NormFloat64())
	}
	table, err := model.NewTable([]string{"mu", "sigma"}, [][]float64{mu, sigma})
	require.NoError(t, err)
	return table
}

func TestModeEstimateOutlier(t *testing.T) {
	xs := []float64{1, 1, 1, 2, 3, 100}
	mode, err := ModeEstimate(xs, kde.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 1.0, mode)

	hdi, err := HighDensityInterval(xs, 0.1)
	require.NoError(t, err)
	require.Equal(t, model.Interval{Lower: 1, Upper: 3}, hdi)
	require.False(t, hdi.Contains(100))
}

func TestModeEstimateIsSample(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	xs := make([]float64, 500)
	for i := range xs {
		xs[i] = 3 + rng.NormFloat64()
	}
	for _, method := range []kde.BandwidthMethod{kde.NormalReference, kde.Scott, kde.Silverman} {
		mode, err := ModeEstimate(xs, kde.Config{Bandwidth: method})
		require.NoError(t, err)
		require.Contains(t, xs, mode)
		require.InDelta(t, 3.0, mode, 0.5)
	}
}

func TestModeEstimateTies(t *testing.T) {
	// Symmetric sample: -1 and 1 get the same density, the first wins.
	mode, err := ModeEstimate([]float64{1, -1}, kde.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 1.0, mode)
}

func TestModeEstimateDegenerate(t *testing.T) {
	_, err := ModeEstimate([]float64{4, 4, 4}, kde.DefaultConfig())
	require.True(t, errors.Is(err, common.ErrorDegenerateInput))
	_, err = ModeEstimate(nil, kde.DefaultConfig())
	require.True(t, errors.Is(err, common.ErrorDegenerateInput))
}

func TestHighDensityIntervalNarrowsWithAlpha(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	xs := make([]float64, 2000)
	for i := range xs {
		xs[i] = rng.NormFloat64()
	}

	prev := math.Inf(1)
	for _, alpha := range []float64{0.01, 0.05, 0.1, 0.2, 0.5, 0.9} {
		hdi, err := HighDensityInterval(xs, alpha)
		require.NoError(t, err)
		require.LessOrEqual(t, hdi.Lower, hdi.Upper)
		require.LessOrEqual(t, hdi.Width(), prev, "alpha %v", alpha)
		prev = hdi.Width()
	}

	hdi, err := HighDensityInterval(xs, 0.05)
	require.NoError(t, err)
	require.InDelta(t, -1.96, hdi.Lower, 0.25)
	require.InDelta(t, 1.96, hdi.Upper, 0.25)
}

func TestHighDensityIntervalEdgeCases(t *testing.T) {
	for _, alpha := range []float64{0, 1, -0.5, 2} {
		_, err := HighDensityInterval([]float64{1, 2, 3}, alpha)
		require.True(t, errors.Is(err, common.ErrorInvalidParameter))
	}

	_, err := HighDensityInterval(nil, 0.05)
	require.True(t, errors.Is(err, common.ErrorDegenerateInput))

	hdi, err := HighDensityInterval([]float64{7}, 0.05)
	require.NoError(t, err)
	require.Equal(t, model.Interval{Lower: 7, Upper: 7}, hdi)

	// Input order is left untouched.
	xs := []float64{3, 1, 2}
	_, err = HighDensityInterval(xs, 0.5)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 1, 2}, xs)
}

func TestMaxPostEstimate(t *testing.T) {
	table := posteriorTable(t, 400, 13)

	dens, err := ProbDensityEstimate(table, kde.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, dens, table.NumRows())

	est, err := MaxPostEstimate(table, kde.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, MAPName, est.Name)
	require.Equal(t, []string{"mu", "sigma"}, est.Names)
	require.Equal(t, table.Row(est.Index), est.Values)
	for _, d := range dens {
		require.LessOrEqual(t, d, dens[est.Index])
	}

	mu, ok := est.Get("mu")
	require.True(t, ok)
	require.InDelta(t, 2.0, mu, 0.5)
}

func TestMaxPostEstimateTies(t *testing.T) {
	// Rows 0 and 2 are identical and share the highest density.
	table, err := model.NewTableFromRows([]string{"a", "b"}, [][]float64{
		{0, 0}, {5, 1}, {0, 0}, {-5, -1}, {0.5, 0.2}, {-0.5, -0.2},
	})
	require.NoError(t, err)

	est, err := MaxPostEstimate(table, kde.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 0, est.Index)
}

func TestMaxPostEstimateDegenerate(t *testing.T) {
	empty, err := model.NewTable([]string{"a"}, [][]float64{{}})
	require.NoError(t, err)
	_, err = MaxPostEstimate(empty, kde.DefaultConfig())
	require.True(t, errors.Is(err, common.ErrorDegenerateInput))

	constant, err := model.NewTable([]string{"a", "b"}, [][]float64{{1, 2, 3}, {4, 4, 4}})
	require.NoError(t, err)
	_, err = MaxPostEstimate(constant, kde.DefaultConfig())
	require.True(t, errors.Is(err, common.ErrorDegenerateInput))
}

func TestSummaryTable(t *testing.T) {
	table := posteriorTable(t, 1000, 14)
	core, logs := observer.New(zap.InfoLevel)
	ctx := utils.WithLogger(context.Background(), zap.New(core))

	raw := DefaultSummaryConfig()
	raw.RoundTo = nil
	summary, err := SummaryTable(ctx, table, raw)
	require.NoError(t, err)
	require.Len(t, summary.Rows, 2)
	require.Equal(t, 1, logs.FilterMessage("SummaryTable success").Len())

	for i, row := range summary.Rows {
		name := table.Names()[i]
		require.Equal(t, name, row.Parameter)
		require.Len(t, row.Values(), 6)

		col := table.ColumnAt(i)
		require.Contains(t, col, row.Mode)
		require.Contains(t, col, row.HDILower)
		require.Contains(t, col, row.HDIUpper)
		require.LessOrEqual(t, row.HDILower, row.Mode)
		require.LessOrEqual(t, row.Mode, row.HDIUpper)
		require.Greater(t, row.BulkESS, 500.0)
		require.Greater(t, row.TailESS, 500.0)
		require.InDelta(t, 1.0, row.Rhat, 0.05)
	}

	rounded, err := SummaryTable(ctx, table, DefaultSummaryConfig())
	require.NoError(t, err)
	for i, row := range rounded.Rows {
		require.Equal(t, utils.FormatFloat(summary.Rows[i].Mode, 2), row.Mode)
		require.Equal(t, utils.FormatFloat(summary.Rows[i].Rhat, 2), row.Rhat)
		require.Equal(t, utils.FormatFloat(summary.Rows[i].BulkESS, 2), row.BulkESS)
	}
	require.Equal(t, "HDI_2.5%", rounded.Header()[1])
}

func TestSummaryTableChains(t *testing.T) {
	table := posteriorTable(t, 800, 15)
	cfg := DefaultSummaryConfig()
	cfg.Chains = 4
	summary, err := SummaryTable(context.Background(), table, cfg)
	require.NoError(t, err)
	require.Len(t, summary.Rows, 2)

	cfg.Chains = 3
	_, err = SummaryTable(context.Background(), table, cfg)
	require.True(t, errors.Is(err, common.ErrorInvalidParameter))
}

func TestSummaryTableInvalid(t *testing.T) {
	table := posteriorTable(t, 100, 16)
	ctx := context.Background()

	cfg := DefaultSummaryConfig()
	cfg.Alpha = 1.5
	_, err := SummaryTable(ctx, table, cfg)
	require.True(t, errors.Is(err, common.ErrorInvalidParameter))

	cfg = DefaultSummaryConfig()
	cfg.RoundTo = Decimals(-1)
	_, err = SummaryTable(ctx, table, cfg)
	require.True(t, errors.Is(err, common.ErrorInvalidParameter))

	cfg = DefaultSummaryConfig()
	cfg.Rhat = "bogus"
	_, err = SummaryTable(ctx, table, cfg)
	require.True(t, errors.Is(err, common.ErrorInvalidParameter))

	constant, err := model.NewTable([]string{"a"}, [][]float64{{1, 1, 1, 1}})
	require.NoError(t, err)
	_, err = SummaryTable(ctx, constant, DefaultSummaryConfig())
	require.True(t, errors.Is(err, common.ErrorDegenerateInput))

	empty, err := model.NewTable(nil, nil)
	require.NoError(t, err)
	_, err = SummaryTable(ctx, empty, DefaultSummaryConfig())
	require.True(t, errors.Is(err, common.ErrorDegenerateInput))
}
