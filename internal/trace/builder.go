package trace

import (
	"fmt"
	"strconv"

	"propviz/internal/model"
	"propviz/internal/nn"
)

const (
	describeInput  = "Input values entered into the network"
	describeResult = "Final Network Output"
)

// Build traces one forward pass of the reference network (sigmoid on both
// layers).
func Build(input model.InputVector, weights model.NetworkWeights) (model.Trace, error) {
	return BuildWith(input, weights, nn.DefaultActivation)
}

// BuildWith decomposes a forward pass into 1 + H + O + 1 steps: the input
// step, one step per hidden neuron, one step per output neuron, and the result
// step. Every step owns its activation state, which only ever grows from one
// step to the next. The returned trace shares no memory with earlier traces.
func BuildWith(input model.InputVector, weights model.NetworkWeights, activation string) (model.Trace, error) {
	fn, err := nn.GetActivation(activation)
	if err != nil {
		return model.Trace{}, err
	}
	if err := nn.CheckShapes(input, weights); err != nil {
		return model.Trace{}, err
	}

	topo := weights.Topology()
	b := &builder{
		activation: activation,
		steps:      make([]model.TraceStep, 0, topo.TraceLen()),
		state:      model.NewActivationState(),
	}

	values := input.Values()
	b.inputStep(values)

	hiddenActs := make([]float64, topo.Hidden)
	for j := 0; j < topo.Hidden; j++ {
		result, err := nn.EvaluateNeuron(values, weights.InputToHidden, j, fn)
		if err != nil {
			return model.Trace{}, fmt.Errorf("hidden neuron %d: %w", j, err)
		}
		hiddenActs[j] = result.Activation
		b.neuronStep(model.HiddenNode(j), model.InputNode, values, weights.InputToHidden, result)
	}

	outputs := make([]float64, topo.Output)
	for k := 0; k < topo.Output; k++ {
		result, err := nn.EvaluateNeuron(hiddenActs, weights.HiddenToOutput, k, fn)
		if err != nil {
			return model.Trace{}, fmt.Errorf("output neuron %d: %w", k, err)
		}
		outputs[k] = result.Activation
		b.neuronStep(model.OutputNode(k), model.HiddenNode, hiddenActs, weights.HiddenToOutput, result)
	}

	b.resultStep(topo, outputs)

	return model.Trace{
		Topology:   topo,
		Activation: activation,
		Steps:      b.steps,
		Outputs:    outputs,
	}, nil
}

type builder struct {
	activation string
	steps      []model.TraceStep
	state      model.ActivationState
}

func (b *builder) emit(step model.TraceStep) {
	step.Index = len(b.steps)
	step.State = b.state
	b.steps = append(b.steps, step)
	b.state = b.state.Clone()
}

func (b *builder) inputStep(values []float64) {
	details := make([]string, len(values))
	for i, v := range values {
		b.state.ActivateNode(model.InputNode(i), model.NodeState{Value: v, Activation: v})
		details[i] = fmt.Sprintf("Input %d: %s", i+1, strconv.FormatFloat(v, 'f', -1, 64))
	}
	b.emit(model.TraceStep{
		Phase:       model.PhaseInput,
		Description: describeInput,
		Details:     details,
	})
}

func (b *builder) neuronStep(node model.NodeID, source func(int) model.NodeID, sources []float64, weights model.WeightMatrix, result nn.NeuronResult) {
	calc := &model.Calculation{
		NodeType:      node.Layer,
		NodeIndex:     node.Index,
		Contributions: make([]model.Contribution, len(sources)),
		WeightedSum:   result.Sum,
		Activation:    result.Activation,
	}
	details := make([]string, 0, len(sources)+2)
	for i, v := range sources {
		from := source(i)
		calc.Contributions[i] = model.Contribution{
			Source:  from,
			Value:   v,
			Weight:  weights.At(i, node.Index),
			Product: result.Products[i],
		}
		details = append(details, DescribeContribution(calc.Contributions[i]))
		b.state.ActivateEdge(model.Edge(from, node))
	}
	b.state.ActivateNode(node, model.NodeState{Value: result.Sum, Activation: result.Activation})

	phase, description, label := model.PhaseHidden, "Calculate Hidden Neuron %d", "Activation"
	if node.Layer == model.LayerOutput {
		phase, description, label = model.PhaseOutput, "Calculate Output Neuron %d", "Final Output"
	}
	details = append(details,
		fmt.Sprintf("Sum: %.3f", result.Sum),
		fmt.Sprintf("%s (%s): %.3f", label, b.activation, result.Activation),
	)
	b.emit(model.TraceStep{
		Phase:       phase,
		Description: fmt.Sprintf(description, node.Index+1),
		Details:     details,
		Calculation: calc,
	})
}

func (b *builder) resultStep(topo model.Topology, outputs []float64) {
	for i := 0; i < topo.Input; i++ {
		for j := 0; j < topo.Hidden; j++ {
			b.state.ActivateEdge(model.Edge(model.InputNode(i), model.HiddenNode(j)))
		}
	}
	for j := 0; j < topo.Hidden; j++ {
		for k := 0; k < topo.Output; k++ {
			b.state.ActivateEdge(model.Edge(model.HiddenNode(j), model.OutputNode(k)))
		}
	}
	details := make([]string, len(outputs))
	for k, v := range outputs {
		details[k] = fmt.Sprintf("Output %d: %.5f", k+1, v)
	}
	b.emit(model.TraceStep{
		Phase:       model.PhaseResult,
		Description: describeResult,
		Details:     details,
	})
}

// DescribeContribution renders one source's share of a weighted sum, e.g.
// "(Input 1: 0.85) × (Weight: 0.500) = 0.425". Input values are shown as
// entered; hidden activations at three decimals.
func DescribeContribution(c model.Contribution) string {
	value := strconv.FormatFloat(c.Value, 'f', -1, 64)
	label := "Input"
	if c.Source.Layer == model.LayerHidden {
		value = strconv.FormatFloat(c.Value, 'f', 3, 64)
		label = "Hidden"
	}
	return fmt.Sprintf("(%s %d: %s) × (Weight: %.3f) = %.3f", label, c.Source.Index+1, value, c.Weight, c.Product)
}
