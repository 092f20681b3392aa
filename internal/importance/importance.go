// Package importance ranks input features by a fixed salience heuristic.
//
// The score is the distance of each normalized input from the midpoint 0.5,
// scaled to [0,1] and renormalized to sum to 1. It is derived from the input
// alone: it does not consult the weights, gradients or perturbations of the
// network, so it says nothing about how the model actually uses a feature.
package importance

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"propviz/internal/model"
)

// Share is one feature's fraction of the total salience.
type Share struct {
	Label string  `json:"label"`
	Share float64 `json:"share"`
}

// Estimate scores each input as |v-0.5|*2, renormalizes the scores to sum to
// 1 and returns them in descending order. Ties keep label order. When every
// input sits exactly on the midpoint the shares are split evenly.
func Estimate(input model.InputVector, labels []string) ([]Share, error) {
	if input.Len() != len(labels) {
		return nil, fmt.Errorf("got %d labels for %d inputs", len(labels), input.Len())
	}
	if input.Len() == 0 {
		return nil, nil
	}

	scores := make([]float64, input.Len())
	for i, v := range input.Values() {
		scores[i] = math.Abs(v-0.5) * 2
	}
	total := floats.Sum(scores)
	if total == 0 {
		for i := range scores {
			scores[i] = 1
		}
		total = float64(len(scores))
	}
	floats.Scale(1/total, scores)

	out := make([]Share, len(scores))
	for i, s := range scores {
		out[i] = Share{Label: labels[i], Share: s}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Share > out[j].Share })
	return out, nil
}
