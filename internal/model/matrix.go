package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var ErrNonFiniteWeight = errors.New("weight must be a finite number")

// WeightMatrix maps (source, target) neuron pairs between two adjacent layers
// to a connection weight. Rows are sources, columns are targets. A
// WeightMatrix owns a private copy of its data and is never mutated.
type WeightMatrix struct {
	dense *mat.Dense
}

// NewWeightMatrix copies rows into a sources x targets matrix.
func NewWeightMatrix(rows [][]float64) (WeightMatrix, error) {
	if len(rows) == 0 {
		return WeightMatrix{}, shapeErrorf("weight matrix", "at least one source row is required")
	}
	cols := len(rows[0])
	if cols == 0 {
		return WeightMatrix{}, shapeErrorf("weight matrix", "at least one target column is required")
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return WeightMatrix{}, shapeErrorf("weight matrix", "row %d has %d columns, want %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return newWeightMatrix(len(rows), cols, data)
}

// NewWeightMatrixFromData builds a matrix from row-major data. data is copied.
func NewWeightMatrixFromData(sources, targets int, data []float64) (WeightMatrix, error) {
	if sources <= 0 || targets <= 0 {
		return WeightMatrix{}, shapeErrorf("weight matrix", "dimensions must be positive, got %dx%d", sources, targets)
	}
	if len(data) != sources*targets {
		return WeightMatrix{}, shapeErrorf("weight matrix", "got %d values for a %dx%d matrix", len(data), sources, targets)
	}
	return newWeightMatrix(sources, targets, append([]float64(nil), data...))
}

func newWeightMatrix(sources, targets int, data []float64) (WeightMatrix, error) {
	for i, w := range data {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return WeightMatrix{}, fmt.Errorf("%w: [%d][%d]=%v", ErrNonFiniteWeight, i/targets, i%targets, w)
		}
	}
	return WeightMatrix{dense: mat.NewDense(sources, targets, data)}, nil
}

// Dims returns the source and target layer sizes. The zero value is 0x0.
func (m WeightMatrix) Dims() (sources, targets int) {
	if m.dense == nil {
		return 0, 0
	}
	return m.dense.Dims()
}

func (m WeightMatrix) IsZero() bool {
	return m.dense == nil
}

func (m WeightMatrix) At(source, target int) float64 {
	return m.dense.At(source, target)
}

// Incoming returns a copy of the weights feeding the given target neuron,
// ordered by source index.
func (m WeightMatrix) Incoming(target int) []float64 {
	sources, _ := m.Dims()
	return mat.Col(make([]float64, sources), target, m.dense)
}

// Rows returns a copy of the matrix as source-major rows.
func (m WeightMatrix) Rows() [][]float64 {
	sources, _ := m.Dims()
	out := make([][]float64, sources)
	for i := range out {
		out[i] = mat.Row(nil, i, m.dense)
	}
	return out
}

// Equal reports whether both matrices have the same shape and values.
func (m WeightMatrix) Equal(other WeightMatrix) bool {
	if m.dense == nil || other.dense == nil {
		return m.dense == nil && other.dense == nil
	}
	return mat.Equal(m.dense, other.dense)
}

func (m WeightMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Rows())
}

func (m *WeightMatrix) UnmarshalJSON(data []byte) error {
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	parsed, err := NewWeightMatrix(rows)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// NetworkWeights holds both weight matrices of the two-layer topology.
type NetworkWeights struct {
	InputToHidden  WeightMatrix `json:"input_to_hidden"`
	HiddenToOutput WeightMatrix `json:"hidden_to_output"`
}

// NewNetworkWeights pairs the two matrices, failing when the hidden layer
// sizes they imply disagree.
func NewNetworkWeights(inputToHidden, hiddenToOutput WeightMatrix) (NetworkWeights, error) {
	w := NetworkWeights{InputToHidden: inputToHidden, HiddenToOutput: hiddenToOutput}
	if err := w.Validate(); err != nil {
		return NetworkWeights{}, err
	}
	return w, nil
}

func (w NetworkWeights) Validate() error {
	if w.InputToHidden.IsZero() || w.HiddenToOutput.IsZero() {
		return shapeErrorf("network weights", "both weight matrices are required")
	}
	_, hidden := w.InputToHidden.Dims()
	sources, _ := w.HiddenToOutput.Dims()
	if hidden != sources {
		return shapeErrorf("network weights", "input-to-hidden has %d targets but hidden-to-output has %d sources", hidden, sources)
	}
	return nil
}

// Topology derives layer sizes from the matrix shapes.
func (w NetworkWeights) Topology() Topology {
	input, hidden := w.InputToHidden.Dims()
	_, output := w.HiddenToOutput.Dims()
	return Topology{Input: input, Hidden: hidden, Output: output}
}

func (w NetworkWeights) Equal(other NetworkWeights) bool {
	return w.InputToHidden.Equal(other.InputToHidden) && w.HiddenToOutput.Equal(other.HiddenToOutput)
}
