package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"propviz/internal/model"
)

// Preset is a named, pre-normalized example input.
type Preset struct {
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Values      []float64 `json:"values"`
}

// Catalog is an immutable, ordered set of presets keyed by canonical name.
type Catalog struct {
	order   []string
	presets map[string]Preset
}

var defaultCatalog = mustCatalog([]Preset{
	{
		Name:        "sunny",
		Title:       "Sunny Day",
		Description: "A hot sunny day with low humidity and minimal cloud cover",
		Values:      []float64{0.85, 0.12, 0.05},
	},
	{
		Name:        "cloudy",
		Title:       "Cloudy Day",
		Description: "A moderately warm day with partial humidity and significant cloud cover",
		Values:      []float64{0.65, 0.35, 0.75},
	},
	{
		Name:        "rainy",
		Title:       "Rainy Day",
		Description: "A cool rainy day with high humidity and heavy cloud cover",
		Values:      []float64{0.45, 0.95, 0.90},
	},
}, len(DefaultFeatures))

// DefaultCatalog returns the built-in sunny/cloudy/rainy presets.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// FromPreset looks name up in the default catalog.
func FromPreset(name string) (model.InputVector, error) {
	return defaultCatalog.FromPreset(name)
}

// NewCatalog validates presets: every name must be unique after
// canonicalization and every preset must carry width values in [0,1].
func NewCatalog(presets []Preset, width int) (*Catalog, error) {
	if len(presets) == 0 {
		return nil, errors.New("preset catalog must not be empty")
	}
	c := &Catalog{presets: make(map[string]Preset, len(presets))}
	for _, p := range presets {
		name := CanonicalName(p.Name)
		if name == "" {
			return nil, errors.New("preset name is required")
		}
		if _, exists := c.presets[name]; exists {
			return nil, fmt.Errorf("duplicate preset: %s", name)
		}
		if len(p.Values) != width {
			return nil, fmt.Errorf("preset %s: got %d values, want %d", name, len(p.Values), width)
		}
		if _, err := model.NewInputVector(p.Values...); err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		p.Name = name
		p.Values = append([]float64(nil), p.Values...)
		c.presets[name] = p
		c.order = append(c.order, name)
	}
	return c, nil
}

func mustCatalog(presets []Preset, width int) *Catalog {
	c, err := NewCatalog(presets, width)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadCatalog reads a JSON array of presets from path.
func LoadCatalog(path string, width int) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var presets []Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("decode preset catalog %s: %w", path, err)
	}
	return NewCatalog(presets, width)
}

func (c *Catalog) Lookup(name string) (Preset, error) {
	p, ok := c.presets[CanonicalName(name)]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	p.Values = append([]float64(nil), p.Values...)
	return p, nil
}

// FromPreset returns the preset's values directly. Catalog values were
// range-checked when the catalog was built.
func (c *Catalog) FromPreset(name string) (model.InputVector, error) {
	p, err := c.Lookup(name)
	if err != nil {
		return model.InputVector{}, err
	}
	return model.NewInputVector(p.Values...)
}

// List returns the presets in catalog order.
func (c *Catalog) List() []Preset {
	out := make([]Preset, 0, len(c.order))
	for _, name := range c.order {
		p := c.presets[name]
		p.Values = append([]float64(nil), p.Values...)
		out = append(out, p)
	}
	return out
}

func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// CanonicalName folds case, spacing and separators, and drops a trailing
// "day", so "Sunny Day", "SUNNY_day" and "sunny" all resolve alike.
func CanonicalName(name string) string {
	normalized := strings.TrimSpace(strings.ToLower(name))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.Trim(normalized, "-")
	if trimmed := strings.TrimSuffix(normalized, "-day"); trimmed != "" {
		normalized = trimmed
	}
	return normalized
}
