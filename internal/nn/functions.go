package nn

import "math"

// PredictionCategories orders the air-quality labels from the lowest output
// band to the highest.
var PredictionCategories = []string{
	"High Pollution Risk",
	"Moderate Pollution Risk",
	"Low Pollution Risk",
	"Optimal Air Quality",
}

// Category maps an output activation onto PredictionCategories by equal-width
// bands over [0,1]. Values outside the range saturate.
func Category(output float64) string {
	n := len(PredictionCategories)
	if math.IsNaN(output) {
		output = 0
	}
	index := int(math.Floor(Sat(output, 1, 0) * float64(n)))
	if index >= n {
		index = n - 1
	}
	return PredictionCategories[index]
}

// Sat clamps value to [min, max].
func Sat(value, max, min float64) float64 {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}
