package trace

import "propviz/internal/model"

// Clamp saturates index into [0, t.Len()-1]. It returns 0 for an empty trace.
func Clamp(t model.Trace, index int) int {
	last := t.Len() - 1
	if index > last {
		index = last
	}
	if index < 0 {
		index = 0
	}
	return index
}

// StepAt returns the step at index after clamping. Out-of-range requests
// never fail; an empty trace yields the zero step.
func StepAt(t model.Trace, index int) model.TraceStep {
	if t.Len() == 0 {
		return model.TraceStep{}
	}
	return t.Steps[Clamp(t, index)]
}

// Progress reports the 1-based position of index within t and the share of
// the trace completed at that step.
func Progress(t model.Trace, index int) (position, total int, percent float64) {
	total = t.Len()
	if total == 0 {
		return 0, 0, 0
	}
	position = Clamp(t, index) + 1
	return position, total, float64(position) / float64(total) * 100
}
