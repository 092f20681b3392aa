package input

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrMissingField  = errors.New("missing field")
	ErrOutOfRange    = errors.New("value out of range")
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrInvalidFeature is a configuration fault, not bad user input.
	ErrInvalidFeature = errors.New("invalid feature")
)

type ErrorKind int

const (
	MissingField ErrorKind = iota + 1
	OutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case MissingField:
		return "missing_field"
	case OutOfRange:
		return "out_of_range"
	default:
		return "unknown"
	}
}

// ValidationError reports a raw field that could not be normalized. Value is
// NaN when the field was present but not numeric.
type ValidationError struct {
	Kind  ErrorKind
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("%s is required", e.Field)
	case OutOfRange:
		if math.IsNaN(e.Value) {
			return fmt.Sprintf("%s must be a number between %s and %s", e.Field, formatBound(e.Min), formatBound(e.Max))
		}
		return fmt.Sprintf("%s must be between %s and %s, got %s", e.Field, formatBound(e.Min), formatBound(e.Max), formatBound(e.Value))
	default:
		return fmt.Sprintf("%s is invalid", e.Field)
	}
}

func (e *ValidationError) Is(target error) bool {
	switch e.Kind {
	case MissingField:
		return target == ErrMissingField
	case OutOfRange:
		return target == ErrOutOfRange
	default:
		return false
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
