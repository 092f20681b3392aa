package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"propviz/internal/input"
	"propviz/pkg/propviz"
)

func runCapture(t *testing.T, args ...string) (string, error) {
	t.Helper()
	clearEnv(t)
	var out bytes.Buffer
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func TestRunRequiresCommand(t *testing.T) {
	_, err := runCapture(t)
	if err == nil || !strings.Contains(err.Error(), "usage:") {
		t.Fatalf("expected usage error, got %v", err)
	}
	_, err = runCapture(t, "train")
	if err == nil || !strings.Contains(err.Error(), "unknown command: train") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestRunPresets(t *testing.T) {
	out, err := runCapture(t, "presets")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	for _, want := range []string{"sunny", "Cloudy Day", "[0.45, 0.95, 0.90]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("presets output missing %q:\n%s", want, out)
		}
	}
}

func TestRunWeightsSeeded(t *testing.T) {
	first, err := runCapture(t, "weights", "-seed", "42")
	if err != nil {
		t.Fatalf("weights: %v", err)
	}
	if !strings.Contains(first, "network 3-4-1 (16 weights)") {
		t.Fatalf("unexpected header:\n%s", first)
	}
	if !strings.Contains(first, "input → hidden") || !strings.Contains(first, "hidden → output") {
		t.Fatalf("missing matrix titles:\n%s", first)
	}
	second, err := runCapture(t, "weights", "-seed", "42")
	if err != nil {
		t.Fatalf("weights: %v", err)
	}
	if first != second {
		t.Fatal("seeded weights should render identically")
	}
}

func TestRunWeightsCustomTopology(t *testing.T) {
	out, err := runCapture(t, "weights", "-seed", "1", "-hidden", "5", "-output", "2")
	if err != nil {
		t.Fatalf("weights: %v", err)
	}
	if !strings.Contains(out, "network 3-5-2 (25 weights)") {
		t.Fatalf("unexpected header:\n%s", out)
	}
}

func TestRunPredictPreset(t *testing.T) {
	out, err := runCapture(t, "predict", "-seed", "42", "-preset", "Sunny Day")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if !strings.HasPrefix(out, "The network predicts a value of ") {
		t.Fatalf("unexpected output %q", out)
	}

	raw, err := runCapture(t, "predict", "-seed", "42", "-temperature", "85", "-humidity", "12", "-cloud-cover", "5")
	if err != nil {
		t.Fatalf("predict raw: %v", err)
	}
	if raw != out {
		t.Fatalf("raw sunny values should match the preset:\n%s\n%s", raw, out)
	}
}

func TestRunPredictValidation(t *testing.T) {
	_, err := runCapture(t, "predict", "-temperature", "50")
	if !errors.Is(err, input.ErrMissingField) {
		t.Fatalf("expected missing field, got %v", err)
	}
	if err.Error() != "humidity is required" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	_, err = runCapture(t, "predict", "-temperature", "150", "-humidity", "10", "-cloud-cover", "10")
	if !errors.Is(err, input.ErrOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if err.Error() != "temperature must be between 0 and 100, got 150" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	_, err = runCapture(t, "predict", "-preset", "snowy")
	if !errors.Is(err, input.ErrUnknownPreset) {
		t.Fatalf("expected unknown preset, got %v", err)
	}
}

func TestRunTrace(t *testing.T) {
	out, err := runCapture(t, "trace", "-seed", "3", "-preset", "rainy")
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	for _, want := range []string{
		"Step 1 of 7",
		"Input values entered into the network",
		"Calculate Hidden Neuron 4",
		"Calculate Output Neuron 1",
		"Step 7 of 7 (100% complete)",
		"Final Network Output",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("trace missing %q:\n%s", want, out)
		}
	}

	single, err := runCapture(t, "trace", "-seed", "3", "-preset", "rainy", "-step", "2")
	if err != nil {
		t.Fatalf("trace step: %v", err)
	}
	if !strings.HasPrefix(single, "Step 2 of 7") || strings.Contains(single, "Step 3 of 7") {
		t.Fatalf("unexpected single step output:\n%s", single)
	}
}

func TestRunImportance(t *testing.T) {
	out, err := runCapture(t, "importance", "-preset", "sunny")
	if err != nil {
		t.Fatalf("importance: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected heading plus three rows, got:\n%s", out)
	}
	// Cloud cover (0.05) is furthest from the midpoint.
	if !strings.Contains(lines[1], "Cloud Cover") {
		t.Fatalf("expected cloud cover first, got %q", lines[1])
	}
}

func TestRunExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blueprint.json")
	out, err := runCapture(t, "export", "-seed", "5", "-preset", "cloudy", "-out", path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "wrote "+path) {
		t.Fatalf("unexpected output %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read blueprint: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode blueprint: %v", err)
	}
	topo, ok := decoded["topology"].(map[string]any)
	if !ok || topo["hidden"] != float64(4) {
		t.Fatalf("unexpected topology %v", decoded["topology"])
	}
	if _, ok := decoded["trace"]; !ok {
		t.Fatal("expected trace in blueprint after input")
	}
}

func TestRunExportWithoutInput(t *testing.T) {
	out, err := runCapture(t, "export", "-seed", "5")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode blueprint: %v", err)
	}
	if _, ok := decoded["trace"]; ok {
		t.Fatal("blueprint without input should omit the trace")
	}
}

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()
	seed := int64(42)
	s, err := propviz.New(propviz.Options{Seed: &seed})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	var out bytes.Buffer
	return &shell{session: s, out: &out}, &out
}

func TestShellWalksTrace(t *testing.T) {
	sh, out := newTestShell(t)

	if _, err := sh.exec("step"); err != nil {
		t.Fatalf("step: %v", err)
	}
	if !strings.Contains(out.String(), "Enter input data to begin") {
		t.Fatalf("expected empty-trace message, got %q", out.String())
	}

	for _, line := range []string{"preset sunny", "next", "next", "prev", "goto 7", "next"} {
		out.Reset()
		if _, err := sh.exec(line); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}
	if !strings.HasPrefix(out.String(), "Step 7 of 7") {
		t.Fatalf("next past the end should stay on the last step, got:\n%s", out.String())
	}
	if got := sh.session.State().Step; got != 6 {
		t.Fatalf("expected step pointer 6, got %d", got)
	}
}

func TestShellSubmitErrorKeepsState(t *testing.T) {
	sh, _ := newTestShell(t)
	if _, err := sh.exec("submit 85 12 5"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	before := sh.session.State().Revision

	if _, err := sh.exec("submit 85 200 5"); !errors.Is(err, input.ErrOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if _, err := sh.exec("submit 85 12"); err == nil {
		t.Fatal("expected arity error")
	}
	if sh.session.State().Revision != before {
		t.Fatal("rejected input should leave the session unchanged")
	}
}

func TestShellRegenerateKeepsStep(t *testing.T) {
	sh, out := newTestShell(t)
	for _, line := range []string{"preset rainy", "goto 3"} {
		if _, err := sh.exec(line); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}
	before := sh.session.Weights()
	out.Reset()
	if _, err := sh.exec("regen 7"); err != nil {
		t.Fatalf("regen: %v", err)
	}
	if sh.session.Weights().Equal(before) {
		t.Fatal("expected new weights")
	}
	if got := sh.session.State().Step; got != 2 {
		t.Fatalf("step pointer should survive regeneration, got %d", got)
	}
	if !strings.Contains(out.String(), "network 3-4-1") {
		t.Fatalf("expected weights after regen, got:\n%s", out.String())
	}
	if _, err := sh.exec("regen x"); err == nil {
		t.Fatal("expected invalid seed error")
	}
}

func TestShellResultsRequireInput(t *testing.T) {
	sh, _ := newTestShell(t)
	if _, err := sh.exec("predict"); err == nil {
		t.Fatal("expected error before input")
	}
	if _, err := sh.exec("importance"); err == nil {
		t.Fatal("expected error before input")
	}
	if _, err := sh.exec("bogus"); err == nil {
		t.Fatal("expected unknown command error")
	}
	quit, err := sh.exec("exit")
	if err != nil || !quit {
		t.Fatalf("exit should quit, got quit=%v err=%v", quit, err)
	}
}

func TestShellReset(t *testing.T) {
	sh, out := newTestShell(t)
	if _, err := sh.exec("preset sunny"); err != nil {
		t.Fatalf("preset: %v", err)
	}
	out.Reset()
	if _, err := sh.exec("reset"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !strings.Contains(out.String(), "Enter input data to begin") {
		t.Fatalf("expected empty-trace message, got %q", out.String())
	}
	if sh.session.State().HasInput {
		t.Fatal("expected input to be cleared")
	}
}
