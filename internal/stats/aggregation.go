package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MeanStdDev returns the arithmetic mean and the sample (n-1) standard
// deviation. With fewer than two values the deviation is 0; with none both are 0.
func MeanStdDev(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// UpperBound returns mean + sigmas*std of values
func UpperBound(values []float64, sigmas float64) float64 {
	mean, std := MeanStdDev(values)
	return mean + sigmas*std
}

// Sum returns the sum of all values
func Sum(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values)
}

// SumDistinct sums each distinct value once
func SumDistinct(values []float64) float64 {
	seen := make(map[float64]struct{}, len(values))
	var sum float64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		sum += v
	}
	return sum
}
