package nn

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"propviz/internal/model"
)

// NeuronResult is the evaluation of one neuron: the per-source products in
// source order, their sum and the activated value.
type NeuronResult struct {
	Products   []float64
	Sum        float64
	Activation float64
}

// ForwardResult holds per-layer weighted sums and activations.
type ForwardResult struct {
	HiddenSums        []float64
	HiddenActivations []float64
	OutputSums        []float64
	OutputActivations []float64
}

// EvaluateNeuron computes sum_i sources[i]*weights[i][target] and applies fn.
func EvaluateNeuron(sources []float64, weights model.WeightMatrix, target int, fn ActivationFunc) (NeuronResult, error) {
	rows, cols := weights.Dims()
	if len(sources) != rows {
		return NeuronResult{}, &model.ShapeError{
			Op:  "evaluate neuron",
			Msg: fmt.Sprintf("got %d source values for a matrix with %d sources", len(sources), rows),
		}
	}
	if target < 0 || target >= cols {
		return NeuronResult{}, &model.ShapeError{
			Op:  "evaluate neuron",
			Msg: fmt.Sprintf("target %d outside [0,%d)", target, cols),
		}
	}

	products := floats.MulTo(make([]float64, rows), sources, weights.Incoming(target))
	sum := floats.Sum(products)
	return NeuronResult{
		Products:   products,
		Sum:        sum,
		Activation: fn(sum),
	}, nil
}

// Forward runs the reference network with sigmoid activations on both layers.
func Forward(input model.InputVector, weights model.NetworkWeights) (ForwardResult, error) {
	return ForwardWith(input, weights, DefaultActivation)
}

// ForwardWith runs the network with the named activation on both layers.
// It is a pure function of its arguments.
func ForwardWith(input model.InputVector, weights model.NetworkWeights, activation string) (ForwardResult, error) {
	fn, err := GetActivation(activation)
	if err != nil {
		return ForwardResult{}, err
	}
	if err := CheckShapes(input, weights); err != nil {
		return ForwardResult{}, err
	}

	hiddenSums, hiddenActs, err := evaluateLayer(input.Values(), weights.InputToHidden, fn)
	if err != nil {
		return ForwardResult{}, fmt.Errorf("hidden layer: %w", err)
	}
	outputSums, outputActs, err := evaluateLayer(hiddenActs, weights.HiddenToOutput, fn)
	if err != nil {
		return ForwardResult{}, fmt.Errorf("output layer: %w", err)
	}

	return ForwardResult{
		HiddenSums:        hiddenSums,
		HiddenActivations: hiddenActs,
		OutputSums:        outputSums,
		OutputActivations: outputActs,
	}, nil
}

// CheckShapes verifies that input and both weight matrices agree on every
// layer size.
func CheckShapes(input model.InputVector, weights model.NetworkWeights) error {
	if err := weights.Validate(); err != nil {
		return err
	}
	sources, _ := weights.InputToHidden.Dims()
	if input.Len() != sources {
		return &model.ShapeError{
			Op:  "forward",
			Msg: fmt.Sprintf("input has %d values but the network expects %d", input.Len(), sources),
		}
	}
	return nil
}

func evaluateLayer(sources []float64, weights model.WeightMatrix, fn ActivationFunc) ([]float64, []float64, error) {
	_, targets := weights.Dims()
	sums := make([]float64, targets)
	acts := make([]float64, targets)
	for j := 0; j < targets; j++ {
		result, err := EvaluateNeuron(sources, weights, j, fn)
		if err != nil {
			return nil, nil, fmt.Errorf("neuron %d: %w", j, err)
		}
		sums[j] = result.Sum
		acts[j] = result.Activation
	}
	return sums, acts, nil
}
