package weights

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"propviz/internal/model"
)

// Range bounds the uniform distribution weights are drawn from.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

var (
	DefaultRange = Range{Min: -1, Max: 1}
	NarrowRange  = Range{Min: -0.5, Max: 0.5}
)

func (r Range) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return fmt.Errorf("weight range must be finite: [%v,%v]", r.Min, r.Max)
	}
	if r.Min >= r.Max {
		return fmt.Errorf("weight range min must be below max: [%v,%v]", r.Min, r.Max)
	}
	return nil
}

func (r Range) draw(src Source) float64 {
	return r.Min + src.Float64()*(r.Max-r.Min)
}

// RangeByName resolves "default" and "narrow".
func RangeByName(name string) (Range, error) {
	switch name {
	case "", "default":
		return DefaultRange, nil
	case "narrow":
		return NarrowRange, nil
	default:
		return Range{}, fmt.Errorf("unsupported weight range: %s", name)
	}
}

// Options controls weight generation. Source takes precedence over Seed; with
// neither set the generator is seeded from the clock.
type Options struct {
	Seed   *int64
	Range  Range
	Source Source
}

func Seeded(seed int64) Options {
	return Options{Seed: &seed}
}

// Generate draws every weight of topology uniformly from opts.Range. Weights
// are drawn source-major: input-to-hidden rows first, then hidden-to-output.
func Generate(topology model.Topology, opts Options) (model.NetworkWeights, error) {
	if err := topology.Validate(); err != nil {
		return model.NetworkWeights{}, err
	}
	r := opts.Range
	if r == (Range{}) {
		r = DefaultRange
	}
	if err := r.Validate(); err != nil {
		return model.NetworkWeights{}, err
	}
	src := ensureSource(opts)

	inputToHidden, err := drawMatrix(topology.Input, topology.Hidden, r, src)
	if err != nil {
		return model.NetworkWeights{}, fmt.Errorf("input-to-hidden: %w", err)
	}
	hiddenToOutput, err := drawMatrix(topology.Hidden, topology.Output, r, src)
	if err != nil {
		return model.NetworkWeights{}, fmt.Errorf("hidden-to-output: %w", err)
	}
	return model.NewNetworkWeights(inputToHidden, hiddenToOutput)
}

// Random generates unseeded weights for topology over DefaultRange.
func Random(topology model.Topology) (model.NetworkWeights, error) {
	return Generate(topology, Options{})
}

func drawMatrix(sources, targets int, r Range, src Source) (model.WeightMatrix, error) {
	data := make([]float64, sources*targets)
	for i := range data {
		data[i] = r.draw(src)
	}
	return model.NewWeightMatrixFromData(sources, targets, data)
}

func ensureSource(opts Options) Source {
	if opts.Source != nil {
		return opts.Source
	}
	if opts.Seed != nil {
		return NewLCG(*opts.Seed)
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Round rounds value to the given number of decimals.
func Round(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) / scale
}

// Format renders value with a fixed number of decimals.
func Format(value float64, decimals int) string {
	return strconv.FormatFloat(value, 'f', decimals, 64)
}

// Display renders every weight of m at fixed precision. Internal values are
// left untouched.
func Display(m model.WeightMatrix, decimals int) [][]string {
	rows := m.Rows()
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, w := range row {
			out[i][j] = Format(w, decimals)
		}
	}
	return out
}
