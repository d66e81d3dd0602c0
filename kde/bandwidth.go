package kde

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/common"
	"gonum.org/v1/gonum/stat"
)

// BandwidthMethod names the rule used to pick the kernel bandwidth.
type BandwidthMethod string

const (
	// NormalReference is the normal reference rule with a robust scale:
	// 1.059 * min(std, IQR/1.349) * n^(-1/5). It keeps outliers from
	// flattening the estimate.
	NormalReference BandwidthMethod = "normal_reference"
	// Scott is Scott's factor n^(-1/(d+4)) applied to the sample covariance.
	Scott BandwidthMethod = "scott"
	// Silverman is Silverman's factor (n(d+2)/4)^(-1/(d+4)) applied to the
	// sample covariance.
	Silverman BandwidthMethod = "silverman"
)

func ParseBandwidthMethod(s string) (BandwidthMethod, error) {
	switch m := BandwidthMethod(s); m {
	case NormalReference, Scott, Silverman:
		return m, nil
	case "":
		return NormalReference, nil
	}
	return "", errors.Wrapf(common.ErrorInvalidParameter, "unknown bandwidth method %q", s)
}

type BandWidth interface {
	BandWidth([]float64) float64
}

func NewBandWidth(method BandwidthMethod, kernel Kernel) (BandWidth, error) {
	switch method {
	case NormalReference, "":
		return NewNormalReferenceBandWidth(kernel), nil
	case Scott, Silverman:
		return &factorBandWidth{method: method}, nil
	}
	return nil, errors.Wrapf(common.ErrorInvalidParameter, "unknown bandwidth method %q", method)
}

type NormalReferenceBandWidth struct {
	kernel Kernel
}

func NewNormalReferenceBandWidth(kernel Kernel) *NormalReferenceBandWidth {
	if kernel == nil {
		kernel = NewGaussianKernel()
	}
	return &NormalReferenceBandWidth{
		kernel: kernel,
	}
}

func (bw *NormalReferenceBandWidth) BandWidth(x []float64) float64 {
	C := bw.kernel.NormalReferenceConstant()
	A := selectSigma(x)
	n := len(x)
	return C * A * math.Pow(float64(n), -0.2)
}

type factorBandWidth struct {
	method BandwidthMethod
}

func (bw *factorBandWidth) BandWidth(x []float64) float64 {
	return stat.StdDev(x, nil) * bandwidthFactor(bw.method, len(x), 1)
}

// bandwidthFactor is the multiplier applied to the data scale for n
// samples in d dimensions.
func bandwidthFactor(method BandwidthMethod, n, d int) float64 {
	dims := float64(d)
	switch method {
	case Silverman:
		return math.Pow(float64(n)*(dims+2)/4, -1/(dims+4))
	default:
		return math.Pow(float64(n), -1/(dims+4))
	}
}

// selectSigma is the robust scale estimate min(std, IQR/1.349), falling
// back to std when the IQR collapses.
func selectSigma(x []float64) float64 {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	q75 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	q25 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	iqr := (q75 - q25) / normalIQR

	stdDev := stat.StdDev(sorted, nil)

	if iqr > 0 {
		if stdDev < iqr {
			return stdDev
		}
		return iqr
	}
	return stdDev
}
