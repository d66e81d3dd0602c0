package kde

import (
	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/common"
)

func factorial(n int) float64 {
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}
	return result
}

func linspace(start, stop float64, num int) []float64 {
	if num < 2 {
		return []float64{start}
	}
	step := (stop - start) / float64(num-1)
	grid := make([]float64, num)
	for i := 0; i < num; i++ {
		grid[i] = start + float64(i)*step
	}
	return grid
}

func InitOnes(n int) []float64 {
	res := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, 1)
	}
	return res
}

// CountDistinct reports the number of distinct values in x, stopping
// once limit is reached.
func CountDistinct(x []float64, limit int) int {
	seen := make(map[float64]struct{}, limit)
	for _, v := range x {
		seen[v] = struct{}{}
		if len(seen) >= limit {
			break
		}
	}
	return len(seen)
}

func checkDistinct(x []float64) error {
	if len(x) == 0 {
		return errors.Wrap(common.ErrorDegenerateInput, "no samples")
	}
	if CountDistinct(x, 2) < 2 {
		return errors.Wrapf(common.ErrorDegenerateInput,
			"density estimation needs at least 2 distinct values, got %d samples of %v", len(x), x[0])
	}
	return nil
}
