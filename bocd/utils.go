package bocd

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// NormalizeData shifts log probabilities so that they sum to one.
func NormalizeData(data []float64) []float64 {
	logSum := floats.LogSumExp(data)
	res := make([]float64, len(data))
	for i := range data {
		res[i] = data[i] - logSum
	}
	return res
}

func ListExp(data []float64) []float64 {
	res := make([]float64, len(data))
	for i, v := range data {
		res[i] = math.Exp(v)
	}
	return res
}
