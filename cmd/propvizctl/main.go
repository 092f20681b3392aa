package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"propviz/internal/input"
	"propviz/internal/report"
	"propviz/pkg/propviz"
)

func main() {
	// A missing .env file is fine; explicit -env-file paths are checked.
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "presets":
		return runPresets(ctx, args[1:], stdout)
	case "weights":
		return runWeights(ctx, args[1:], stdout)
	case "predict":
		return runPredict(ctx, args[1:], stdout)
	case "trace":
		return runTrace(ctx, args[1:], stdout)
	case "importance":
		return runImportance(ctx, args[1:], stdout)
	case "export":
		return runExport(ctx, args[1:], stdout)
	case "repl":
		return runREPL(ctx, args[1:], stdout)
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

// sessionFlags are shared by every command that builds a session.
type sessionFlags struct {
	configPath string
	envFile    string
	seed       int64
	hidden     int
	output     int
	weightRng  string
	activation string
	presets    string
	verbose    bool
}

func bindSessionFlags(fs *flag.FlagSet) *sessionFlags {
	f := &sessionFlags{}
	fs.StringVar(&f.configPath, "config", "", "path to JSON config file")
	fs.StringVar(&f.envFile, "env-file", "", "path to dotenv file")
	fs.Int64Var(&f.seed, "seed", 0, "weight seed (omit for clock-seeded weights)")
	fs.IntVar(&f.hidden, "hidden", 0, "hidden layer width")
	fs.IntVar(&f.output, "output", 0, "output layer width")
	fs.StringVar(&f.weightRng, "range", "", "weight range: default|narrow")
	fs.StringVar(&f.activation, "activation", "", "activation function")
	fs.StringVar(&f.presets, "presets", "", "path to JSON preset catalog")
	fs.BoolVar(&f.verbose, "v", false, "log session events to stderr")
	return f
}

// resolve layers flags explicitly set on fs over config file, environment
// and defaults.
func (f *sessionFlags) resolve(fs *flag.FlagSet) (sessionConfig, error) {
	cfg := defaultSessionConfig()
	lookup, err := envLookup(f.envFile)
	if err != nil {
		return sessionConfig{}, err
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return sessionConfig{}, err
	}
	if f.configPath != "" {
		if err := applyConfigFile(&cfg, f.configPath); err != nil {
			return sessionConfig{}, err
		}
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "seed":
			seed := f.seed
			cfg.Seed = &seed
		case "hidden":
			cfg.Hidden = f.hidden
		case "output":
			cfg.Output = f.output
		case "range":
			cfg.Range = f.weightRng
		case "activation":
			cfg.Activation = f.activation
		case "presets":
			cfg.PresetsPath = f.presets
		case "v":
			cfg.Verbose = f.verbose
		}
	})
	return cfg, nil
}

func (f *sessionFlags) session(fs *flag.FlagSet) (*propviz.Session, error) {
	cfg, err := f.resolve(fs)
	if err != nil {
		return nil, err
	}
	appCfg, err := cfg.appConfig()
	if err != nil {
		return nil, err
	}
	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return propviz.New(propviz.Options{Config: &appCfg, Seed: cfg.Seed, Logger: logger})
}

// inputFlags select either a named preset or raw feature values.
type inputFlags struct {
	preset     string
	temp       string
	humidity   string
	cloudCover string
}

func bindInputFlags(fs *flag.FlagSet) *inputFlags {
	f := &inputFlags{}
	fs.StringVar(&f.preset, "preset", "", "named preset (see presets command)")
	fs.StringVar(&f.temp, "temperature", "", "temperature 0-100")
	fs.StringVar(&f.humidity, "humidity", "", "humidity 0-100")
	fs.StringVar(&f.cloudCover, "cloud-cover", "", "cloud cover 0-100")
	return f
}

func (f *inputFlags) submit(s *propviz.Session) error {
	if f.preset != "" {
		return s.SubmitPreset(f.preset)
	}
	return s.Submit(input.Raw{
		"temperature": f.temp,
		"humidity":    f.humidity,
		"cloudCover":  f.cloudCover,
	})
}

func styleFor(w io.Writer) report.Style {
	if f, ok := w.(*os.File); ok {
		return report.AutoStyle(f)
	}
	return report.Style{}
}

func runPresets(_ context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("presets", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	sf := bindSessionFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := sf.session(fs)
	if err != nil {
		return err
	}
	return report.WritePresets(stdout, s.State().Config.Catalog)
}

func runWeights(_ context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("weights", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	sf := bindSessionFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := sf.session(fs)
	if err != nil {
		return err
	}
	return report.WriteWeights(stdout, s.Weights(), styleFor(stdout))
}

func runPredict(_ context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	sf := bindSessionFlags(fs)
	in := bindInputFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := sf.session(fs)
	if err != nil {
		return err
	}
	if err := in.submit(s); err != nil {
		return err
	}
	prediction, _ := s.Prediction()
	return report.WritePrediction(stdout, prediction, styleFor(stdout))
}

func runTrace(_ context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("trace", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	sf := bindSessionFlags(fs)
	in := bindInputFlags(fs)
	step := fs.Int("step", -1, "single step to show (1-based); all steps when omitted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := sf.session(fs)
	if err != nil {
		return err
	}
	if err := in.submit(s); err != nil {
		return err
	}
	style := styleFor(stdout)
	if *step < 0 {
		return report.WriteTrace(stdout, s.Trace(), style)
	}
	return report.WriteStep(stdout, s.Trace(), *step-1, style)
}

func runImportance(_ context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("importance", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	sf := bindSessionFlags(fs)
	in := bindInputFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := sf.session(fs)
	if err != nil {
		return err
	}
	if err := in.submit(s); err != nil {
		return err
	}
	return report.WriteImportance(stdout, s.Importance(), styleFor(stdout))
}

func runExport(_ context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	sf := bindSessionFlags(fs)
	in := bindInputFlags(fs)
	outPath := fs.String("out", "", "write the blueprint to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := sf.session(fs)
	if err != nil {
		return err
	}
	if in.preset != "" || in.temp != "" || in.humidity != "" || in.cloudCover != "" {
		if err := in.submit(s); err != nil {
			return err
		}
	}
	if *outPath == "" {
		return report.WriteBlueprint(stdout, s.State())
	}
	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	if err := report.WriteBlueprint(f, s.State()); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "wrote %s\n", *outPath)
	return err
}

func parseSeed(arg string) (*int64, error) {
	seed, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seed %q", arg)
	}
	return &seed, nil
}

func usageError(msg string) error {
	return errors.New(msg + "\nusage: propvizctl <presets|weights|predict|trace|importance|export|repl> [flags]")
}
