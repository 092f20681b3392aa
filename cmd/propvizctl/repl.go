package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"propviz/internal/input"
	"propviz/internal/report"
	"propviz/pkg/propviz"
)

const replHelp = `commands:
  submit <temperature> <humidity> <cloud-cover>   enter raw 0-100 values
  preset <name>                                   load a preset
  presets                                         list presets
  next | prev | goto <n> | step                   walk the trace
  trace                                           print every step
  predict | importance | weights                  show results
  regen [seed]                                    draw new weights
  reset                                           clear the input
  export                                          print the session blueprint
  help | exit`

func replCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("submit"),
		readline.PcItem("preset", readline.PcItem("sunny"), readline.PcItem("cloudy"), readline.PcItem("rainy")),
		readline.PcItem("presets"),
		readline.PcItem("next"),
		readline.PcItem("prev"),
		readline.PcItem("goto"),
		readline.PcItem("step"),
		readline.PcItem("trace"),
		readline.PcItem("predict"),
		readline.PcItem("importance"),
		readline.PcItem("weights"),
		readline.PcItem("regen"),
		readline.PcItem("reset"),
		readline.PcItem("export"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

func runREPL(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	sf := bindSessionFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := sf.session(fs)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "propviz> ",
		AutoComplete:    replCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          stdout,
	})
	if err != nil {
		return fmt.Errorf("start repl: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(stdout, "Neural network propagation explorer. Type help for commands.")
	sh := &shell{session: s, out: stdout, style: styleFor(stdout)}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		quit, err := sh.exec(line)
		if err != nil {
			fmt.Fprintf(stdout, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// shell executes one REPL line against a session. It is separate from the
// readline loop so command handling can be driven directly.
type shell struct {
	session *propviz.Session
	out     io.Writer
	style   report.Style
}

func (sh *shell) exec(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "exit", "quit":
		return true, nil
	case "help", "?":
		_, err = fmt.Fprintln(sh.out, replHelp)
	case "submit":
		if len(args) != 3 {
			return false, errors.New("submit takes three values: temperature humidity cloud-cover")
		}
		raw := input.Raw{"temperature": args[0], "humidity": args[1], "cloudCover": args[2]}
		if err = sh.session.Submit(raw); err != nil {
			return false, err
		}
		err = sh.showStep()
	case "preset":
		if len(args) != 1 {
			return false, errors.New("preset takes a name")
		}
		if err = sh.session.SubmitPreset(args[0]); err != nil {
			return false, err
		}
		err = sh.showStep()
	case "presets":
		err = report.WritePresets(sh.out, sh.session.State().Config.Catalog)
	case "next", "n":
		sh.session.Next()
		err = sh.showStep()
	case "prev", "p":
		sh.session.Prev()
		err = sh.showStep()
	case "goto":
		if len(args) != 1 {
			return false, errors.New("goto takes a step number")
		}
		n, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return false, fmt.Errorf("invalid step %q", args[0])
		}
		sh.session.Goto(n - 1)
		err = sh.showStep()
	case "step":
		err = sh.showStep()
	case "trace":
		err = report.WriteTrace(sh.out, sh.session.Trace(), sh.style)
	case "predict":
		prediction, ok := sh.session.Prediction()
		if !ok {
			return false, errors.New("no input submitted")
		}
		err = report.WritePrediction(sh.out, prediction, sh.style)
	case "importance":
		if !sh.session.State().HasInput {
			return false, errors.New("no input submitted")
		}
		err = report.WriteImportance(sh.out, sh.session.Importance(), sh.style)
	case "weights":
		err = report.WriteWeights(sh.out, sh.session.Weights(), sh.style)
	case "regen":
		var seed *int64
		if len(args) > 0 {
			if seed, err = parseSeed(args[0]); err != nil {
				return false, err
			}
		}
		if err = sh.session.Regenerate(seed); err != nil {
			return false, err
		}
		err = report.WriteWeights(sh.out, sh.session.Weights(), sh.style)
	case "reset":
		sh.session.Reset()
		err = sh.showStep()
	case "export":
		err = report.WriteBlueprint(sh.out, sh.session.State())
	default:
		return false, fmt.Errorf("unknown command %q (type help)", cmd)
	}
	return false, err
}

func (sh *shell) showStep() error {
	st := sh.session.State()
	return report.WriteStep(sh.out, st.Trace, st.Step, sh.style)
}
