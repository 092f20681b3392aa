package model

import (
	"errors"
	"fmt"
)

// ErrShape matches every ShapeError via errors.Is.
var ErrShape = errors.New("shape mismatch")

// ShapeError reports inconsistent layer dimensions. It indicates a
// configuration fault, not bad user input.
type ShapeError struct {
	Op  string
	Msg string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrShape, e.Op, e.Msg)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

func shapeErrorf(op, format string, args ...any) error {
	return &ShapeError{Op: op, Msg: fmt.Sprintf(format, args...)}
}
