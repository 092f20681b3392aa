package model

import "fmt"

// Topology describes the layer sizes of a two-layer feed-forward network.
type Topology struct {
	Input  int `json:"input"`
	Hidden int `json:"hidden"`
	Output int `json:"output"`
}

// ReferenceTopology is the 3-4-1 network used by the environmental demo.
var ReferenceTopology = Topology{Input: 3, Hidden: 4, Output: 1}

func (t Topology) Validate() error {
	switch {
	case t.Input <= 0:
		return shapeErrorf("topology", "input layer size must be positive, got %d", t.Input)
	case t.Hidden <= 0:
		return shapeErrorf("topology", "hidden layer size must be positive, got %d", t.Hidden)
	case t.Output <= 0:
		return shapeErrorf("topology", "output layer size must be positive, got %d", t.Output)
	}
	return nil
}

// TraceLen is the number of steps a trace over this topology contains.
func (t Topology) TraceLen() int {
	return 1 + t.Hidden + t.Output + 1
}

func (t Topology) String() string {
	return fmt.Sprintf("%d-%d-%d", t.Input, t.Hidden, t.Output)
}

type Phase string

const (
	PhaseInput  Phase = "input"
	PhaseHidden Phase = "hidden"
	PhaseOutput Phase = "output"
	PhaseResult Phase = "result"
)

// Contribution is one source's share of a neuron's weighted sum.
type Contribution struct {
	Source  NodeID  `json:"source"`
	Value   float64 `json:"value"`
	Weight  float64 `json:"weight"`
	Product float64 `json:"product"`
}

// Calculation records the evaluation of a single hidden or output neuron.
type Calculation struct {
	NodeType      LayerKind      `json:"node_type"`
	NodeIndex     int            `json:"node_index"`
	Contributions []Contribution `json:"contributions"`
	WeightedSum   float64        `json:"weighted_sum"`
	Activation    float64        `json:"activation"`
}

func (c Calculation) Node() NodeID {
	return NodeID{Layer: c.NodeType, Index: c.NodeIndex}
}

type TraceStep struct {
	Index       int             `json:"index"`
	Phase       Phase           `json:"phase"`
	Description string          `json:"description"`
	Details     []string        `json:"details"`
	State       ActivationState `json:"state"`
	Calculation *Calculation    `json:"calculation,omitempty"`
}

// Trace is the ordered explanation of one forward pass. Outputs holds the
// final output-layer activations.
type Trace struct {
	Topology   Topology    `json:"topology"`
	Activation string      `json:"activation"`
	Steps      []TraceStep `json:"steps"`
	Outputs    []float64   `json:"outputs"`
}

func (t Trace) Len() int {
	return len(t.Steps)
}

// Prediction returns the first output activation, or 0 for an empty trace.
func (t Trace) Prediction() float64 {
	if len(t.Outputs) == 0 {
		return 0
	}
	return t.Outputs[0]
}
