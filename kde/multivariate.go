package kde

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/common"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Multivariate is a Gaussian kernel density estimate over d-dimensional
// samples with a full bandwidth matrix H.
//
// Evaluation whitens the samples with the Cholesky factor of H once, so
// each density is a log-sum-exp of squared distances in whitened space.
type Multivariate struct {
	n, d int

	// whitened samples, n x d
	whitened *mat.Dense
	// inverse of the lower Cholesky factor of H
	linv mat.TriDense
	// log of the kernel normalisation 1 / (n * sqrt(det(2 pi H)))
	logNorm float64
}

// NewMultivariate fits the estimate to data, one sample per row.
func NewMultivariate(data mat.Matrix, cfg Config) (*Multivariate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	n, d := data.Dims()
	if n == 0 || d == 0 {
		return nil, errors.Wrapf(common.ErrorDegenerateInput, "cannot estimate density of a %dx%d sample", n, d)
	}
	if n < 2 {
		return nil, errors.Wrap(common.ErrorDegenerateInput, "density estimation needs at least 2 samples")
	}

	h, err := bandwidthMatrix(data, cfg)
	if err != nil {
		return nil, err
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(h); !ok {
		return nil, errors.Wrap(common.ErrorDegenerateInput,
			"bandwidth matrix is not positive definite, the columns are constant or collinear")
	}

	m := &Multivariate{n: n, d: d}

	var l mat.TriDense
	chol.LTo(&l)
	if err := m.linv.InverseTri(&l); err != nil {
		return nil, errors.Wrapf(common.ErrorDegenerateInput, "invert cholesky factor: %v", err)
	}

	m.whitened = mat.NewDense(n, d, nil)
	m.whitened.Mul(data, m.linv.T())

	m.logNorm = -math.Log(float64(n)) - 0.5*(float64(d)*math.Log(2*math.Pi)+chol.LogDet())
	return m, nil
}

// bandwidthMatrix returns H: the sample covariance scaled by the squared
// bandwidth factor, or a diagonal of per-column normal reference
// bandwidths.
func bandwidthMatrix(data mat.Matrix, cfg Config) (*mat.SymDense, error) {
	n, d := data.Dims()
	factor := bandwidthFactor(cfg.Bandwidth, n, d) * cfg.Adjust

	switch cfg.Bandwidth {
	case Scott, Silverman:
		var cov mat.SymDense
		stat.CovarianceMatrix(&cov, data, nil)
		cov.ScaleSym(factor*factor, &cov)
		return &cov, nil
	case NormalReference:
		kernel := NewGaussianKernel()
		c := kernel.NormalReferenceConstant()
		h := mat.NewSymDense(d, nil)
		for j := 0; j < d; j++ {
			col := mat.Col(nil, j, data)
			bw := c * selectSigma(col) * factor
			h.SetSym(j, j, bw*bw)
		}
		return h, nil
	}
	return nil, errors.Wrapf(common.ErrorInvalidParameter, "unknown bandwidth method %q", cfg.Bandwidth)
}

func (m *Multivariate) Dims() int {
	return m.d
}

// LogDensity returns the log of the estimated density at x.
func (m *Multivariate) LogDensity(x []float64) float64 {
	if len(x) != m.d {
		panic("kde: dimension mismatch")
	}
	w := mat.NewVecDense(m.d, nil)
	w.MulVec(&m.linv, mat.NewVecDense(m.d, append([]float64(nil), x...)))
	return m.logDensityWhitened(w.RawVector().Data, make([]float64, m.n))
}

func (m *Multivariate) Density(x []float64) float64 {
	return math.Exp(m.LogDensity(x))
}

// Evaluate returns the density at every row of points.
func (m *Multivariate) Evaluate(points mat.Matrix) []float64 {
	r, c := points.Dims()
	if c != m.d {
		panic("kde: dimension mismatch")
	}
	var w mat.Dense
	w.Mul(points, m.linv.T())

	buf := make([]float64, m.n)
	res := make([]float64, r)
	for i := 0; i < r; i++ {
		res[i] = math.Exp(m.logDensityWhitened(w.RawRowView(i), buf))
	}
	return res
}

// EvaluateSamples returns the density at every fitted sample.
func (m *Multivariate) EvaluateSamples() []float64 {
	buf := make([]float64, m.n)
	res := make([]float64, m.n)
	for i := 0; i < m.n; i++ {
		res[i] = math.Exp(m.logDensityWhitened(m.whitened.RawRowView(i), buf))
	}
	return res
}

func (m *Multivariate) logDensityWhitened(w []float64, buf []float64) float64 {
	for i := 0; i < m.n; i++ {
		row := m.whitened.RawRowView(i)
		var dist float64
		for k, v := range row {
			diff := v - w[k]
			dist += diff * diff
		}
		buf[i] = -0.5 * dist
	}
	return floats.LogSumExp(buf) + m.logNorm
}
