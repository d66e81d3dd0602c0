package kde

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/model"
	"github.com/uyouii/posterior-diagnostics/utils"
	"go.uber.org/zap"
)

// Curve is a density estimate evaluated on its grid.
type Curve struct {
	Bandwidth float64
	Points    []model.Density
	// Peak is the grid point of highest density.
	Peak model.Density
}

func (c *Curve) Values() []float64 {
	res := make([]float64, len(c.Points))
	for i, p := range c.Points {
		res[i] = p.Value
	}
	return res
}

// DensityCurve fits the estimate of values and evaluates it on the grid
// defined by cfg.
func DensityCurve(ctx context.Context, values, weights []float64, cfg Config) (res *Curve, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("DensityCurve recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()), zap.Int("values", len(values)))
			res, err = nil, errors.Newf("density curve: %v", r)
		}
	}()

	k, err := NewUnivariate(values, weights, cfg)
	if err != nil {
		logger.Error("NewUnivariate failed", zap.Error(err))
		return nil, err
	}

	points := k.Kdensity()
	res = &Curve{Bandwidth: k.Bandwidth(), Points: points}
	for i, p := range points {
		if i == 0 || p.Value > res.Peak.Value {
			res.Peak = p
		}
	}

	logger.Debug("DensityCurve success", zap.Float64("bandwidth", res.Bandwidth),
		zap.Int("grid", len(points)), zap.Float64("peak", res.Peak.X))
	return res, nil
}
