package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"propviz/internal/importance"
	"propviz/internal/input"
	"propviz/internal/model"
	"propviz/internal/nn"
	"propviz/internal/trace"
	"propviz/internal/weights"
)

// WeightDecimals is the display precision of weights.
const WeightDecimals = 2

// WriteWeights renders both weight matrices with source rows and target
// columns.
func WriteWeights(w io.Writer, nw model.NetworkWeights, style Style) error {
	topo := nw.Topology()
	params := topo.Input*topo.Hidden + topo.Hidden*topo.Output
	if _, err := fmt.Fprintf(w, "%s %s (%s weights)\n", style.Bold("network"), topo, humanize.Comma(int64(params))); err != nil {
		return err
	}
	if err := writeMatrix(w, "input → hidden", nw.InputToHidden, model.InputNode, model.HiddenNode, style); err != nil {
		return err
	}
	return writeMatrix(w, "hidden → output", nw.HiddenToOutput, model.HiddenNode, model.OutputNode, style)
}

func writeMatrix(w io.Writer, title string, m model.WeightMatrix, source, target func(int) model.NodeID, style Style) error {
	if _, err := fmt.Fprintf(w, "%s\n", style.Cyan(title)); err != nil {
		return err
	}
	display := weights.Display(m, WeightDecimals)
	_, targets := m.Dims()
	header := []string{""}
	for j := 0; j < targets; j++ {
		header = append(header, target(j).String())
	}
	rows := [][]string{header}
	for i, row := range display {
		rows = append(rows, append([]string{source(i).String()}, row...))
	}
	return writeTable(w, "  ", rows)
}

// WriteStep renders the step at index (clamped) with its progress header.
func WriteStep(w io.Writer, tr model.Trace, index int, style Style) error {
	if tr.Len() == 0 {
		_, err := fmt.Fprintln(w, "No calculations to display. Enter input data to begin.")
		return err
	}
	step := trace.StepAt(tr, index)
	pos, total, pct := trace.Progress(tr, index)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", style.Dim(fmt.Sprintf("Step %d of %d", pos, total)), style.Dim(fmt.Sprintf("(%.0f%% complete)", pct)))
	fmt.Fprintf(&sb, "%s %s\n", style.Bold(step.Description), style.Dim("["+string(step.Phase)+"]"))
	for _, line := range step.Details {
		fmt.Fprintf(&sb, "  %s\n", line)
	}
	nodes := step.State.ActiveNodes()
	names := make([]string, len(nodes))
	for i, id := range nodes {
		names[i] = id.String()
	}
	fmt.Fprintf(&sb, "  %s %s\n", style.Dim("active nodes:"), strings.Join(names, " "))
	fmt.Fprintf(&sb, "  %s %d\n", style.Dim("active edges:"), len(step.State.ActiveEdges()))
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteTrace renders every step of tr.
func WriteTrace(w io.Writer, tr model.Trace, style Style) error {
	for i := 0; i < tr.Len(); i++ {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := WriteStep(w, tr, i, style); err != nil {
			return err
		}
	}
	return nil
}

// WritePrediction renders the final output and its category.
func WritePrediction(w io.Writer, prediction float64, style Style) error {
	_, err := fmt.Fprintf(w, "The network predicts a value of %s (%s)\n", style.Green(fmt.Sprintf("%.5f", prediction)), nn.Category(prediction))
	return err
}

// WriteImportance renders ranked feature shares as whole percentages.
func WriteImportance(w io.Writer, shares []importance.Share, style Style) error {
	if _, err := fmt.Fprintln(w, style.Bold("Input Feature Importance")+" "+style.Dim("(distance from midpoint, not model-derived)")); err != nil {
		return err
	}
	rows := make([][]string, len(shares))
	for i, s := range shares {
		bar := strings.Repeat("█", int(s.Share*20+0.5))
		rows[i] = []string{s.Label, fmt.Sprintf("%.0f%%", s.Share*100), bar}
	}
	return writeTable(w, "  ", rows)
}

// WritePresets lists the catalog.
func WritePresets(w io.Writer, catalog *input.Catalog) error {
	rows := make([][]string, 0)
	for _, p := range catalog.List() {
		vals := make([]string, len(p.Values))
		for i, v := range p.Values {
			vals[i] = weights.Format(v, 2)
		}
		rows = append(rows, []string{p.Name, p.Title, "[" + strings.Join(vals, ", ") + "]", p.Description})
	}
	return writeTable(w, "", rows)
}
