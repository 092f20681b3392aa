package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var ErrInputOutOfRange = errors.New("normalized input must be a finite value in [0,1]")

// InputVector is an ordered sequence of normalized feature values in [0,1].
type InputVector struct {
	values []float64
}

func NewInputVector(values ...float64) (InputVector, error) {
	if len(values) == 0 {
		return InputVector{}, errors.New("input vector must not be empty")
	}
	for i, v := range values {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return InputVector{}, fmt.Errorf("%w: index %d is %v", ErrInputOutOfRange, i, v)
		}
	}
	return InputVector{values: append([]float64(nil), values...)}, nil
}

func (v InputVector) Len() int {
	return len(v.values)
}

func (v InputVector) At(i int) float64 {
	return v.values[i]
}

// Values returns a copy of the normalized values.
func (v InputVector) Values() []float64 {
	return append([]float64(nil), v.values...)
}

func (v InputVector) Equal(other InputVector) bool {
	if len(v.values) != len(other.values) {
		return false
	}
	for i := range v.values {
		if v.values[i] != other.values[i] {
			return false
		}
	}
	return true
}

func (v InputVector) MarshalJSON() ([]byte, error) {
	if v.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.values)
}
