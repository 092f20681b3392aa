package app

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"propviz/internal/importance"
	"propviz/internal/input"
	"propviz/internal/model"
	"propviz/internal/nn"
	"propviz/internal/trace"
	"propviz/internal/weights"
)

// Config fixes the network shape and the static catalogs a session uses.
type Config struct {
	Topology   model.Topology
	Range      weights.Range
	Activation string
	Features   []input.Feature
	Catalog    *input.Catalog
}

func DefaultConfig() Config {
	return Config{
		Topology:   model.ReferenceTopology,
		Range:      weights.DefaultRange,
		Activation: nn.DefaultActivation,
		Features:   input.DefaultFeatures,
		Catalog:    input.DefaultCatalog(),
	}
}

func (c Config) Validate() error {
	if err := c.Topology.Validate(); err != nil {
		return err
	}
	if len(c.Features) != c.Topology.Input {
		return &model.ShapeError{
			Op:  "config",
			Msg: fmt.Sprintf("%d input features for an input layer of %d", len(c.Features), c.Topology.Input),
		}
	}
	if err := input.ValidateFeatures(c.Features); err != nil {
		return err
	}
	if c.Catalog == nil {
		return errors.New("preset catalog is required")
	}
	if _, err := nn.GetActivation(c.Activation); err != nil {
		return err
	}
	return nil
}

// State is an immutable snapshot of a session. Every update function returns
// a new State and leaves its argument untouched; a trace is always rebuilt in
// full before the new State is returned.
type State struct {
	Config     Config
	Revision   string
	Weights    model.NetworkWeights
	Input      model.InputVector
	HasInput   bool
	Trace      model.Trace
	Step       int
	Importance []importance.Share
}

// New creates a session with freshly generated weights and no input.
func New(cfg Config, opts weights.Options) (State, error) {
	if err := cfg.Validate(); err != nil {
		return State{}, err
	}
	if opts.Range == (weights.Range{}) {
		opts.Range = cfg.Range
	}
	w, err := weights.Generate(cfg.Topology, opts)
	if err != nil {
		return State{}, fmt.Errorf("generate weights: %w", err)
	}
	return State{Config: cfg, Revision: uuid.NewString(), Weights: w}, nil
}

// Regenerate replaces the weights and rebuilds the trace for the current input.
func Regenerate(s State, opts weights.Options) (State, error) {
	if opts.Range == (weights.Range{}) {
		opts.Range = s.Config.Range
	}
	w, err := weights.Generate(s.Config.Topology, opts)
	if err != nil {
		return s, fmt.Errorf("generate weights: %w", err)
	}
	return WithWeights(s, w)
}

// WithWeights swaps in w. Its topology must match the session's.
func WithWeights(s State, w model.NetworkWeights) (State, error) {
	if err := w.Validate(); err != nil {
		return s, err
	}
	if got := w.Topology(); got != s.Config.Topology {
		return s, &model.ShapeError{Op: "replace weights", Msg: fmt.Sprintf("got topology %s, want %s", got, s.Config.Topology)}
	}
	next := s
	next.Weights = w
	if !s.HasInput {
		next.Revision = uuid.NewString()
		return next, nil
	}
	return rebuild(next, s.Input, s.Step)
}

// Submit normalizes raw user input. On a validation failure the returned
// State is s itself, so the previous trace and prediction stay visible.
func Submit(s State, raw input.Raw) (State, error) {
	vec, err := input.NormalizeFeatures(raw, s.Config.Features)
	if err != nil {
		return s, err
	}
	return rebuild(s, vec, 0)
}

// SubmitPreset loads a named preset from the session catalog.
func SubmitPreset(s State, name string) (State, error) {
	vec, err := s.Config.Catalog.FromPreset(name)
	if err != nil {
		return s, err
	}
	return rebuild(s, vec, 0)
}

// SubmitVector uses an already normalized input.
func SubmitVector(s State, vec model.InputVector) (State, error) {
	return rebuild(s, vec, 0)
}

func rebuild(s State, vec model.InputVector, step int) (State, error) {
	tr, err := trace.BuildWith(vec, s.Weights, s.Config.Activation)
	if err != nil {
		return s, err
	}
	shares, err := importance.Estimate(vec, input.Labels(s.Config.Features))
	if err != nil {
		return s, err
	}
	next := s
	next.Revision = uuid.NewString()
	next.Input = vec
	next.HasInput = true
	next.Trace = tr
	next.Importance = shares
	next.Step = trace.Clamp(tr, step)
	return next, nil
}

// Reset drops the current input and trace but keeps the weights.
func Reset(s State) State {
	next := s
	next.Revision = uuid.NewString()
	next.Input = model.InputVector{}
	next.HasInput = false
	next.Trace = model.Trace{}
	next.Step = 0
	next.Importance = nil
	return next
}

// Goto moves the step pointer, clamped into the trace.
func Goto(s State, index int) State {
	next := s
	next.Step = trace.Clamp(s.Trace, index)
	return next
}

func Next(s State) State { return Goto(s, s.Step+1) }

func Prev(s State) State { return Goto(s, s.Step-1) }

// CurrentStep reports the step under the pointer; ok is false before any
// input was submitted.
func CurrentStep(s State) (model.TraceStep, bool) {
	if s.Trace.Len() == 0 {
		return model.TraceStep{}, false
	}
	return trace.StepAt(s.Trace, s.Step), true
}

// Prediction reports the final output activation of the current trace.
func Prediction(s State) (float64, bool) {
	if s.Trace.Len() == 0 {
		return 0, false
	}
	return s.Trace.Prediction(), true
}
