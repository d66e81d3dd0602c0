package kde

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/common"
	"github.com/uyouii/posterior-diagnostics/model"
	"gonum.org/v1/gonum/floats"
)

// Config is passed explicitly to every density estimate. Zero fields take
// the defaults of DefaultConfig.
type Config struct {
	Bandwidth BandwidthMethod

	// An adjustment factor for the bw. Bandwidth becomes bw * adjust.
	Adjust float64

	// If GridSize is 0, max(len(x), 100) is used.
	GridSize int

	// Defines the length of the grid past the lowest and highest values
	// of x so that the kernel goes to zero. The end points are
	// ``min(x) - cut * bw`` and ``max(x) + cut * bw``.
	Cut float64
}

func DefaultConfig() Config {
	return Config{
		Bandwidth: NormalReference,
		Adjust:    1,
		Cut:       DefaultCut,
	}
}

func (c Config) withDefaults() Config {
	if c.Bandwidth == "" {
		c.Bandwidth = NormalReference
	}
	if c.Adjust == 0 {
		c.Adjust = 1
	}
	if c.Cut == 0 {
		c.Cut = DefaultCut
	}
	return c
}

func (c Config) Validate() error {
	if _, err := ParseBandwidthMethod(string(c.Bandwidth)); err != nil {
		return err
	}
	if c.Adjust < 0 || c.Cut < 0 || c.GridSize < 0 {
		return errors.Wrapf(common.ErrorInvalidParameter,
			"adjust, cut and grid size must not be negative: %+v", c)
	}
	return nil
}

// Univariate is a Gaussian kernel density estimate of a 1-D sample.
type Univariate struct {
	Weights []float64

	// endogenous variable, in input order
	Endog []float64

	cfg     Config
	density []model.Density
	bw      float64
	kernel  *GaussianKernel
}

// NewUnivariate fits the estimate. Weights may be nil for uniform weights.
// The bandwidth is computed eagerly, so a degenerate sample fails here.
func NewUnivariate(endog []float64, weights []float64, cfg Config) (*Univariate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	if err := checkDistinct(endog); err != nil {
		return nil, err
	}
	if len(weights) != 0 && len(weights) != len(endog) {
		return nil, errors.Wrapf(common.ErrorInvalidValue,
			"%d weights for %d samples", len(weights), len(endog))
	}

	kernel := NewGaussianKernel()
	bandWidth, err := NewBandWidth(cfg.Bandwidth, kernel)
	if err != nil {
		return nil, err
	}
	bw := bandWidth.BandWidth(endog) * cfg.Adjust
	if !(bw > 0) {
		return nil, errors.Wrapf(common.ErrorDegenerateInput, "bandwidth %v is not positive", bw)
	}
	kernel.SetH(bw)

	kde := &Univariate{
		Endog:  append([]float64(nil), endog...),
		cfg:    cfg,
		bw:     bw,
		kernel: kernel,
	}
	if len(weights) != 0 {
		kde.Weights = append([]float64(nil), weights...)
		kernel.SetWeights(kde.Weights)
	}
	return kde, nil
}

func (kde *Univariate) Bandwidth() float64 {
	return kde.bw
}

func (kde *Univariate) Density(x float64) float64 {
	return kde.kernel.Density(kde.Endog, x)
}

// Evaluate returns the density at each point.
func (kde *Univariate) Evaluate(points []float64) []float64 {
	res := make([]float64, len(points))
	for i, x := range points {
		res[i] = kde.Density(x)
	}
	return res
}

// Kdensity evaluates the density on an evenly spaced grid covering the
// sample plus cut bandwidths on each side.
func (kde *Univariate) Kdensity() []model.Density {
	if kde.density != nil {
		return kde.density
	}

	bw := kde.bw
	gridSize := kde.cfg.GridSize
	if gridSize == 0 {
		gridSize = max(len(kde.Endog), DefaultMinGridSize)
	}

	sorted := append([]float64(nil), kde.Endog...)
	sort.Float64s(sorted)
	weights := kde.Weights
	if weights == nil {
		weights = InitOnes(len(sorted))
	} else {
		weights = sortedWeights(kde.Endog, weights)
	}

	a := floats.Min(sorted) - kde.cfg.Cut*bw
	b := floats.Max(sorted) + kde.cfg.Cut*bw
	grid := linspace(a, b, gridSize)

	matrix := make([][]float64, len(grid))
	for i := 0; i < len(grid); i++ {
		matrix[i] = make([]float64, len(sorted))
		for j := 0; j < len(sorted); j++ {
			matrix[i][j] = (sorted[j] - grid[i]) / bw
		}
	}

	matrix = kde.kernel.EvaluateMatrix(matrix)

	q := floats.Sum(weights)

	res := make([]model.Density, 0, len(grid))
	for i := 0; i < len(grid); i++ {
		res = append(res, model.Density{
			X:     grid[i],
			Value: floats.Dot(matrix[i], weights) / (q * bw),
		})
	}

	kde.density = res
	return res
}

// sortedWeights reorders weights to follow x sorted ascending.
func sortedWeights(x, weights []float64) []float64 {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return x[idx[i]] < x[idx[j]] })
	res := make([]float64, len(idx))
	for i, k := range idx {
		res[i] = weights[k]
	}
	return res
}
