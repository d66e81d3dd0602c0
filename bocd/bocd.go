// Package bocd runs Bayesian online change point detection over a trace of
// posterior draws, modelling each run as Gaussian with a known variance.
package bocd

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/common"
	"github.com/uyouii/posterior-diagnostics/model"
	"github.com/uyouii/posterior-diagnostics/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

type Config struct {
	// Hazard is the prior probability of a change point at every draw.
	Hazard float64
	// Threshold is the run length probability that confirms a change point.
	Threshold float64
	// ObserveWindow is the largest run length checked for a new change
	// point, in draws.
	ObserveWindow int
}

func DefaultConfig() Config {
	return Config{
		Hazard:        DefaultHazard,
		Threshold:     DefaultThreshold,
		ObserveWindow: DefaultObserveWindow,
	}
}

func (c Config) Validate() error {
	if !(c.Hazard > 0 && c.Hazard < 1) {
		return errors.Wrapf(common.ErrorInvalidParameter, "hazard must be in (0, 1), got %v", c.Hazard)
	}
	if !(c.Threshold > 0 && c.Threshold <= 1) {
		return errors.Wrapf(common.ErrorInvalidParameter, "threshold must be in (0, 1], got %v", c.Threshold)
	}
	if c.ObserveWindow < 1 {
		return errors.Wrapf(common.ErrorInvalidParameter, "observe window must be positive, got %d", c.ObserveWindow)
	}
	return nil
}

// OnlineChecker keeps, for every run length hypothesis, the posterior of
// the run mean, and the run length distribution after the last draw.
type OnlineChecker struct {
	cfg   Config
	varX  float64 // known variance
	mean0 float64 // prior mean of a new run

	draws           []float64
	means           []float64
	invVariances    []float64 // 1 / Variance of the run mean
	lastLogRunProbs []float64

	pMeans []float64 // prediction mean
	pVars  []float64 // prediction var

	changePoints []*model.ChangePoint
}

func NewOnlineChecker(varx, mean0 float64, cfg Config) (*OnlineChecker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !(varx > 0) || math.IsInf(varx, 0) || math.IsNaN(mean0) || math.IsInf(mean0, 0) {
		return nil, errors.Wrapf(common.ErrorInvalidParameter,
			"known variance must be positive and finite, got variance %v mean %v", varx, mean0)
	}

	return &OnlineChecker{
		cfg:   cfg,
		varX:  varx,
		mean0: mean0,

		draws:           []float64{},
		means:           []float64{mean0},
		invVariances:    []float64{1 / varx},
		lastLogRunProbs: []float64{0},

		pMeans: []float64{},
		pVars:  []float64{},

		changePoints: []*model.ChangePoint{},
	}, nil
}

// Append feeds one draw and reports a change point confirmed by it.
func (b *OnlineChecker) Append(ctx context.Context, x float64) (*model.ChangePoint, bool) {
	changePoint, found := b.appendPoint(x)
	if found {
		utils.GetLogger(ctx).Debug("find new change point", zap.Int("index", changePoint.Index),
			zap.Stringer("type", changePoint.ChangePointType), zap.Float64("value", changePoint.Value))
	}
	return changePoint, found
}

func (b *OnlineChecker) appendPoint(x float64) (*model.ChangePoint, bool) {
	b.draws = append(b.draws, x)
	t := len(b.draws)

	runProbs := ListExp(b.lastLogRunProbs)
	variances := b.predictiveVariances()
	b.pMeans = append(b.pMeans, floats.Dot(runProbs, b.means))
	b.pVars = append(b.pVars, floats.Dot(runProbs, variances))

	// log density of x under every run length hypothesis
	logPreProbs := make([]float64, t)
	for i := range logPreProbs {
		normalDist := distuv.Normal{Mu: b.means[i], Sigma: math.Sqrt(variances[i])}
		logPreProbs[i] = normalDist.LogProb(x)
	}

	logh, log1mh := math.Log(b.cfg.Hazard), math.Log1p(-b.cfg.Hazard)
	joint := make([]float64, t)
	floats.AddTo(joint, logPreProbs, b.lastLogRunProbs)

	// run length 0 collects the change point mass, run length i+1 grows
	// from run length i.
	logRunProbs := make([]float64, t+1)
	logRunProbs[0] = floats.LogSumExp(joint) + logh
	for i := range joint {
		logRunProbs[i+1] = joint[i] + log1mh
	}
	b.lastLogRunProbs = NormalizeData(logRunProbs)

	b.updateGaussianParams(x)

	return b.checkChangePoints(t)
}

func (b *OnlineChecker) checkChangePoints(t int) (*model.ChangePoint, bool) {
	runProbs := ListExp(b.lastLogRunProbs)

	// run length 0 always carries exactly the hazard
	for j := 1; j < len(runProbs) && j <= b.cfg.ObserveWindow; j++ {
		if runProbs[j] < b.cfg.Threshold {
			continue
		}
		loc := t - j
		if loc == 0 {
			break
		}
		if last, ok := b.LastChangePoint(); ok && last.Index == loc {
			break
		}

		changePoint := &model.ChangePoint{Index: loc, Value: b.draws[loc]}
		before := b.draws[utils.IntMax(0, loc-b.cfg.ObserveWindow):loc]
		if stat.Mean(b.draws[loc:t], nil) > stat.Mean(before, nil) {
			changePoint.ChangePointType = model.IncreaseChangePoint
		} else {
			changePoint.ChangePointType = model.DecreaseChangePoint
		}
		b.changePoints = append(b.changePoints, changePoint)
		return changePoint, true
	}
	return nil, false
}

// updateGaussianParams is the conjugate update of every run mean with x,
// prepending the prior for a run starting at the next draw.
func (b *OnlineChecker) updateGaussianParams(x float64) {
	newInvVariances := make([]float64, len(b.invVariances)+1)
	newMeans := make([]float64, len(b.means)+1)
	newInvVariances[0], newMeans[0] = 1/b.varX, b.mean0
	for i := range b.invVariances {
		newInvVariances[i+1] = b.invVariances[i] + 1/b.varX
		newMeans[i+1] = (b.means[i]*b.invVariances[i] + x/b.varX) / newInvVariances[i+1]
	}
	b.invVariances, b.means = newInvVariances, newMeans
}

func (b *OnlineChecker) predictiveVariances() []float64 {
	res := make([]float64, len(b.invVariances))
	for i := range b.invVariances {
		res[i] = 1/b.invVariances[i] + b.varX
	}
	return res
}

// RunLengthProbs is the run length distribution after the last draw;
// entry j is the probability that the last j draws form the current run.
func (b *OnlineChecker) RunLengthProbs() []float64 {
	return ListExp(b.lastLogRunProbs)
}

func (b *OnlineChecker) PredictionMeans() []float64 {
	return b.pMeans
}

func (b *OnlineChecker) PredictionVariances() []float64 {
	return b.pVars
}

func (b *OnlineChecker) Draws() []float64 {
	return b.draws
}

func (b *OnlineChecker) Size() int {
	return len(b.draws)
}

func (b *OnlineChecker) ChangePoints() []*model.ChangePoint {
	return b.changePoints
}

func (b *OnlineChecker) LastChangePoint() (*model.ChangePoint, bool) {
	if len(b.changePoints) > 0 {
		return b.changePoints[len(b.changePoints)-1], true
	}
	return nil, false
}
