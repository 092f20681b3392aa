package input

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"propviz/internal/model"
)

func TestNormalizeScalesToUnitInterval(t *testing.T) {
	in, err := Normalize(Raw{"temperature": "85", "humidity": "12", "cloudCover": 5})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := []float64{0.85, 0.12, 0.05}
	got := in.Values()
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("unexpected value %d: got=%f want=%f", i, got[i], want[i])
		}
	}
}

func TestNormalizeBounds(t *testing.T) {
	in, err := Normalize(Raw{"temperature": "0", "humidity": "100", "cloudCover": " 50 "})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	got := in.Values()
	if got[0] != 0 || got[1] != 1 || got[2] != 0.5 {
		t.Fatalf("unexpected values: %+v", got)
	}
}

func TestNormalizeOutOfRange(t *testing.T) {
	_, err := Normalize(Raw{"temperature": "150", "humidity": "10", "cloudCover": "5"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got: %v", err)
	}
	if verr.Kind != OutOfRange || verr.Field != "temperature" || verr.Value != 150 {
		t.Fatalf("unexpected validation error: %+v", verr)
	}
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected errors.Is ErrOutOfRange: %v", err)
	}
}

func TestNormalizeMissingField(t *testing.T) {
	_, err := Normalize(Raw{"temperature": "", "humidity": "10", "cloudCover": "5"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got: %v", err)
	}
	if verr.Kind != MissingField || verr.Field != "temperature" {
		t.Fatalf("unexpected validation error: %+v", verr)
	}
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected errors.Is ErrMissingField: %v", err)
	}
}

func TestNormalizeMissingBeforeRange(t *testing.T) {
	_, err := Normalize(Raw{"temperature": "150", "humidity": "10"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != MissingField || verr.Field != "cloudCover" {
		t.Fatalf("expected missing cloudCover, got: %v", err)
	}
}

func TestNormalizeRejectsNonNumeric(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{name: "text", value: "warm"},
		{name: "negative", value: "-1"},
		{name: "nan", value: math.NaN()},
		{name: "inf", value: math.Inf(1)},
		{name: "bool", value: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(Raw{"temperature": "20", "humidity": tc.value, "cloudCover": "5"})
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Kind != OutOfRange || verr.Field != "humidity" {
				t.Fatalf("expected humidity out of range, got: %v", err)
			}
		})
	}
}

func TestNormalizeJSONNumbers(t *testing.T) {
	var raw Raw
	dec := json.NewDecoder(stringsReader(`{"temperature": 40, "humidity": 60, "cloudCover": 20}`))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	in, err := Normalize(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got := in.Values(); got[0] != 0.4 || got[1] != 0.6 || got[2] != 0.2 {
		t.Fatalf("unexpected values: %+v", got)
	}
}

func TestNormalizeValues(t *testing.T) {
	in, err := NormalizeValues(45, 95, 90)
	if err != nil {
		t.Fatalf("normalize values: %v", err)
	}
	if in.Len() != 3 {
		t.Fatalf("unexpected length: %d", in.Len())
	}
	if _, err := NormalizeValues(45, 95); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected missing field, got: %v", err)
	}
	if _, err := NormalizeValues(10, 20, 30, 40); !errors.Is(err, model.ErrShape) {
		t.Fatalf("expected shape error for surplus values, got: %v", err)
	}
}

func TestNormalizeFeaturesRejectsEmptyRange(t *testing.T) {
	for _, f := range []Feature{
		{Name: "temperature", Min: 5, Max: 5},
		{Name: "temperature", Min: 10, Max: 0},
		{Name: "temperature", Min: 0, Max: math.Inf(1)},
		{Name: "", Min: 0, Max: 100},
	} {
		_, err := NormalizeFeatures(Raw{"temperature": "5", "": "5"}, []Feature{f})
		if !errors.Is(err, ErrInvalidFeature) {
			t.Fatalf("feature %+v: expected invalid feature, got: %v", f, err)
		}
	}
}

func TestNormalizeAcceptsAllNumericKinds(t *testing.T) {
	for _, v := range []any{uint(50), uint8(50), uint16(50), uint32(50), uint64(50), int8(50), int16(50), int32(50), int64(50), float32(50), json.Number("50")} {
		in, err := Normalize(Raw{"temperature": v, "humidity": 50, "cloudCover": 50.0})
		if err != nil {
			t.Fatalf("%T: normalize: %v", v, err)
		}
		if got := in.At(0); got != 0.5 {
			t.Fatalf("%T: unexpected value: got=%f want=0.5", v, got)
		}
	}
}

func TestNormalizeFeaturesCustomRange(t *testing.T) {
	features := []Feature{{Name: "temperature", Label: "Temperature (C)", Min: -10, Max: 40}}
	in, err := NormalizeFeatures(Raw{"temperature": "15"}, features)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got := in.At(0); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("unexpected value: got=%f want=0.5", got)
	}
}

func TestValidationErrorMessages(t *testing.T) {
	missing := &ValidationError{Kind: MissingField, Field: "humidity"}
	if missing.Error() != "humidity is required" {
		t.Fatalf("unexpected message: %q", missing.Error())
	}
	out := &ValidationError{Kind: OutOfRange, Field: "temperature", Value: 150, Min: 0, Max: 100}
	if out.Error() != "temperature must be between 0 and 100, got 150" {
		t.Fatalf("unexpected message: %q", out.Error())
	}
}
