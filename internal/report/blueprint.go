package report

import (
	"encoding/json"
	"io"

	"propviz/internal/app"
	"propviz/internal/importance"
	"propviz/internal/model"
	"propviz/internal/nn"
)

// LayerBlueprint describes one layer of the diagram a renderer draws.
type LayerBlueprint struct {
	Kind   model.LayerKind `json:"kind"`
	Size   int             `json:"size"`
	Labels []string        `json:"labels,omitempty"`
}

// Blueprint is the renderer-facing snapshot of a session: architecture,
// weights and, once input was submitted, the full trace.
type Blueprint struct {
	Revision   string               `json:"revision"`
	Topology   model.Topology       `json:"topology"`
	Activation string               `json:"activation"`
	Layers     []LayerBlueprint     `json:"layers"`
	Weights    model.NetworkWeights `json:"weights"`
	Input      *model.InputVector   `json:"input,omitempty"`
	Prediction *float64             `json:"prediction,omitempty"`
	Category   string               `json:"category,omitempty"`
	Importance []importance.Share   `json:"importance,omitempty"`
	Step       int                  `json:"step"`
	Trace      *model.Trace         `json:"trace,omitempty"`
}

func NewBlueprint(s app.State) Blueprint {
	topo := s.Config.Topology
	labels := make([]string, len(s.Config.Features))
	for i, f := range s.Config.Features {
		labels[i] = f.Label
	}
	bp := Blueprint{
		Revision:   s.Revision,
		Topology:   topo,
		Activation: s.Config.Activation,
		Layers: []LayerBlueprint{
			{Kind: model.LayerInput, Size: topo.Input, Labels: labels},
			{Kind: model.LayerHidden, Size: topo.Hidden},
			{Kind: model.LayerOutput, Size: topo.Output},
		},
		Weights: s.Weights,
		Step:    s.Step,
	}
	if s.HasInput {
		in := s.Input
		tr := s.Trace
		prediction := tr.Prediction()
		bp.Input = &in
		bp.Trace = &tr
		bp.Prediction = &prediction
		bp.Category = nn.Category(prediction)
		bp.Importance = s.Importance
	}
	return bp
}

// WriteBlueprint writes the indented JSON blueprint of s.
func WriteBlueprint(w io.Writer, s app.State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(NewBlueprint(s))
}
