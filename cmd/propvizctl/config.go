package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"propviz/internal/app"
	"propviz/internal/input"
	"propviz/internal/model"
	"propviz/internal/weights"
)

// sessionConfig is resolved from defaults, then the environment (optionally
// seeded from a .env file), then a JSON config file, then explicit flags.
type sessionConfig struct {
	Seed        *int64
	Hidden      int
	Output      int
	Range       string
	Activation  string
	PresetsPath string
	Verbose     bool
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		Hidden:     model.ReferenceTopology.Hidden,
		Output:     model.ReferenceTopology.Output,
		Range:      "default",
		Activation: "sigmoid",
	}
}

const (
	envSeed       = "PROPVIZ_SEED"
	envHidden     = "PROPVIZ_HIDDEN"
	envOutput     = "PROPVIZ_OUTPUT"
	envRange      = "PROPVIZ_WEIGHT_RANGE"
	envActivation = "PROPVIZ_ACTIVATION"
	envPresets    = "PROPVIZ_PRESETS"
	envVerbose    = "PROPVIZ_VERBOSE"
)

// envLookup reads keys from the dotenv file at path, falling back to the
// process environment.
func envLookup(path string) (func(string) (string, bool), error) {
	file := map[string]string{}
	if path != "" {
		var err error
		file, err = godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("read env file %s: %w", path, err)
		}
	}
	return func(key string) (string, bool) {
		if v, ok := file[key]; ok {
			return v, true
		}
		return os.LookupEnv(key)
	}, nil
}

func applyEnv(cfg *sessionConfig, lookup func(string) (string, bool)) error {
	if v, ok := lookup(envSeed); ok && strings.TrimSpace(v) != "" {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", envSeed, err)
		}
		cfg.Seed = &seed
	}
	for key, dst := range map[string]*int{envHidden: &cfg.Hidden, envOutput: &cfg.Output} {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}
	if v, ok := lookup(envRange); ok && v != "" {
		cfg.Range = v
	}
	if v, ok := lookup(envActivation); ok && v != "" {
		cfg.Activation = v
	}
	if v, ok := lookup(envPresets); ok && v != "" {
		cfg.PresetsPath = v
	}
	if v, ok := lookup(envVerbose); ok && v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envVerbose, err)
		}
		cfg.Verbose = verbose
	}
	return nil
}

func applyConfigFile(cfg *sessionConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	if v, ok := asInt64(raw["seed"]); ok {
		cfg.Seed = &v
	}
	if v, ok := asInt(raw["hidden"]); ok {
		cfg.Hidden = v
	}
	if v, ok := asInt(raw["output"]); ok {
		cfg.Output = v
	}
	if v, ok := asString(raw["weight_range"]); ok {
		cfg.Range = v
	}
	if v, ok := asString(raw["activation"]); ok {
		cfg.Activation = v
	}
	if v, ok := asString(raw["presets_path"]); ok {
		cfg.PresetsPath = v
	}
	if v, ok := asBool(raw["verbose"]); ok {
		cfg.Verbose = v
	}
	return nil
}

func (c sessionConfig) appConfig() (app.Config, error) {
	cfg := app.DefaultConfig()
	cfg.Topology = model.Topology{Input: len(input.DefaultFeatures), Hidden: c.Hidden, Output: c.Output}
	cfg.Activation = c.Activation
	r, err := weights.RangeByName(c.Range)
	if err != nil {
		return app.Config{}, err
	}
	cfg.Range = r
	if c.PresetsPath != "" {
		catalog, err := input.LoadCatalog(c.PresetsPath, len(input.DefaultFeatures))
		if err != nil {
			return app.Config{}, err
		}
		cfg.Catalog = catalog
	}
	return cfg, nil
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}
