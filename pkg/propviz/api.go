package propviz

import (
	"io"
	"log"
	"sync"
	"sync/atomic"

	"propviz/internal/app"
	"propviz/internal/importance"
	"propviz/internal/input"
	"propviz/internal/model"
	"propviz/internal/weights"
)

type Options struct {
	// Config defaults to app.DefaultConfig.
	Config *app.Config
	// Seed makes the initial weights reproducible.
	Seed   *int64
	Logger *log.Logger
}

// Session owns the current weights and trace of one interactive session.
// Updates build a complete new state and publish it with a single pointer
// swap, so readers only ever see finished traces.
type Session struct {
	mu     sync.Mutex
	state  atomic.Pointer[app.State]
	logger *log.Logger
}

func New(opts Options) (*Session, error) {
	cfg := app.DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	st, err := app.New(cfg, weights.Options{Seed: opts.Seed})
	if err != nil {
		return nil, err
	}
	s := &Session{logger: logger}
	s.state.Store(&st)
	logger.Printf("[SESSION] created topology=%s activation=%s revision=%s", cfg.Topology, cfg.Activation, st.Revision)
	return s, nil
}

// State returns the current immutable snapshot.
func (s *Session) State() app.State {
	return *s.state.Load()
}

func (s *Session) Weights() model.NetworkWeights {
	return s.State().Weights
}

func (s *Session) Trace() model.Trace {
	return s.State().Trace
}

func (s *Session) Importance() []importance.Share {
	return s.State().Importance
}

func (s *Session) Prediction() (float64, bool) {
	return app.Prediction(s.State())
}

// CurrentStep returns the step under the session's step pointer.
func (s *Session) CurrentStep() (model.TraceStep, bool) {
	return app.CurrentStep(s.State())
}

func (s *Session) Presets() []input.Preset {
	return s.State().Config.Catalog.List()
}

// Submit normalizes raw input and rebuilds the trace. Validation errors are
// returned as *input.ValidationError and leave the session unchanged.
func (s *Session) Submit(raw input.Raw) error {
	return s.update("submit", func(st app.State) (app.State, error) {
		return app.Submit(st, raw)
	})
}

func (s *Session) SubmitPreset(name string) error {
	return s.update("preset "+name, func(st app.State) (app.State, error) {
		return app.SubmitPreset(st, name)
	})
}

// Regenerate draws new weights; a nil seed uses the clock.
func (s *Session) Regenerate(seed *int64) error {
	return s.update("regenerate", func(st app.State) (app.State, error) {
		return app.Regenerate(st, weights.Options{Seed: seed})
	})
}

// Reset clears the submitted input; the weights are kept.
func (s *Session) Reset() {
	s.apply(app.Reset)
	s.logger.Printf("[SESSION] reset revision=%s", s.State().Revision)
}

func (s *Session) Goto(index int) model.TraceStep {
	s.apply(func(st app.State) app.State { return app.Goto(st, index) })
	step, _ := s.CurrentStep()
	return step
}

func (s *Session) Next() model.TraceStep {
	s.apply(app.Next)
	step, _ := s.CurrentStep()
	return step
}

func (s *Session) Prev() model.TraceStep {
	s.apply(app.Prev)
	step, _ := s.CurrentStep()
	return step
}

func (s *Session) update(op string, fn func(app.State) (app.State, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(*s.state.Load())
	if err != nil {
		s.logger.Printf("[SESSION] %s rejected: %v", op, err)
		return err
	}
	s.state.Store(&next)
	s.logger.Printf("[SESSION] %s revision=%s steps=%d", op, next.Revision, next.Trace.Len())
	return nil
}

func (s *Session) apply(fn func(app.State) app.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(*s.state.Load())
	s.state.Store(&next)
}
