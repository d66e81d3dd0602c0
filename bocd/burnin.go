package bocd

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/common"
	"github.com/uyouii/posterior-diagnostics/model"
	"github.com/uyouii/posterior-diagnostics/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// normalStatistics returns the mean and variance of the second half of
// the trace, taken as the stationary regime.
func normalStatistics(draws []float64) (mean0, varx float64) {
	tail := draws[len(draws)/2:]
	return stat.MeanVariance(tail, nil)
}

// DetectBurnIn finds the warm-up segment of a single chain: the index of
// the last change point in the first half of the trace, 0 when there is
// none.
func DetectBurnIn(ctx context.Context, draws []float64, cfg Config) (*model.BurnIn, error) {
	logger := utils.GetLogger(ctx)

	if len(draws) < MinBurnInDraws {
		return nil, errors.Wrapf(common.ErrorDegenerateInput,
			"burn-in detection needs at least %d draws, got %d", MinBurnInDraws, len(draws))
	}
	for i, x := range draws {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errors.Wrapf(common.ErrorInvalidValue, "draw %d is not finite: %v", i, x)
		}
	}

	mean0, varx := normalStatistics(draws)
	if varx == 0 {
		logger.Info("constant stationary regime, no burn-in", zap.Float64("mean0", mean0))
		return &model.BurnIn{}, nil
	}

	checker, err := NewOnlineChecker(varx, mean0, cfg)
	if err != nil {
		return nil, err
	}
	for _, x := range draws {
		checker.Append(ctx, x)
	}

	res := &model.BurnIn{ChangePoints: checker.ChangePoints()}
	half := len(draws) / 2
	for _, changePoint := range res.ChangePoints {
		if changePoint.Index < half {
			res.Draws = changePoint.Index
		}
	}

	logger.Info("DetectBurnIn success", zap.Int("draws", len(draws)), zap.Float64("mean0", mean0),
		zap.Float64("varx", varx), zap.Int("change_points", len(res.ChangePoints)), zap.Int("burn_in", res.Draws))
	return res, nil
}
