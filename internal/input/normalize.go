package input

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"propviz/internal/model"
)

// Feature describes one raw user-facing scalar and the range it is
// normalized from.
type Feature struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// DefaultFeatures are the three environmental measurements, each entered on a
// 0..100 scale.
var DefaultFeatures = []Feature{
	{Name: "temperature", Label: "Temperature", Min: 0, Max: 100},
	{Name: "humidity", Label: "Humidity", Min: 0, Max: 100},
	{Name: "cloudCover", Label: "Cloud Cover", Min: 0, Max: 100},
}

// Validate rejects features whose range cannot be normalized from.
func (f Feature) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFeature)
	}
	if math.IsNaN(f.Min) || math.IsNaN(f.Max) || math.IsInf(f.Min, 0) || math.IsInf(f.Max, 0) || f.Min >= f.Max {
		return fmt.Errorf("%w: %s range [%v, %v] must be finite with min < max", ErrInvalidFeature, f.Name, f.Min, f.Max)
	}
	return nil
}

// ValidateFeatures checks every feature in order.
func ValidateFeatures(features []Feature) error {
	for _, f := range features {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Labels returns the display labels of features in order.
func Labels(features []Feature) []string {
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = f.Label
	}
	return out
}

// Raw maps feature names to user-entered values. Values may be strings or
// numbers; nil and blank strings count as missing.
type Raw map[string]any

// Normalize validates raw against DefaultFeatures.
func Normalize(raw Raw) (model.InputVector, error) {
	return NormalizeFeatures(raw, DefaultFeatures)
}

// NormalizeFeatures validates raw against features and scales each value
// into [0,1]. Missing fields are reported before range violations.
func NormalizeFeatures(raw Raw, features []Feature) (model.InputVector, error) {
	if err := ValidateFeatures(features); err != nil {
		return model.InputVector{}, err
	}
	for _, f := range features {
		if isMissing(raw[f.Name]) {
			return model.InputVector{}, &ValidationError{Kind: MissingField, Field: f.Name}
		}
	}

	values := make([]float64, len(features))
	for i, f := range features {
		v := parseValue(raw[f.Name])
		if math.IsNaN(v) || math.IsInf(v, 0) || v < f.Min || v > f.Max {
			return model.InputVector{}, &ValidationError{Kind: OutOfRange, Field: f.Name, Value: v, Min: f.Min, Max: f.Max}
		}
		values[i] = (v - f.Min) / (f.Max - f.Min)
	}
	return model.NewInputVector(values...)
}

// NormalizeValues is the numeric form of Normalize: values follow the order
// of DefaultFeatures. Fewer values report the first absent feature as
// missing; surplus values are a shape error.
func NormalizeValues(values ...float64) (model.InputVector, error) {
	if len(values) > len(DefaultFeatures) {
		return model.InputVector{}, &model.ShapeError{
			Op:  "normalize",
			Msg: fmt.Sprintf("got %d values for %d features", len(values), len(DefaultFeatures)),
		}
	}
	raw := make(Raw, len(values))
	for i, v := range values {
		raw[DefaultFeatures[i].Name] = v
	}
	return Normalize(raw)
}

func isMissing(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case json.Number:
		return strings.TrimSpace(v.String()) == ""
	default:
		return false
	}
}

func parseValue(value any) float64 {
	switch v := value.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case float64:
		return v
	case int:
		return float64(v)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	default:
		return math.NaN()
	}
}
