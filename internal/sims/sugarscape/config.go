package sugarscape

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Params holds the model constants. The defaults reproduce the classic
// two-peak Sugarscape.
type Params struct {
	MaxCapacity   int `yaml:"max_capacity"`
	GrowthRate    int `yaml:"growth_rate"`
	MaxVision     int `yaml:"max_vision"`
	MaxMetabolism int `yaml:"max_metabolism"`
	MinSugar      int `yaml:"min_sugar"`
	MaxSugar      int `yaml:"max_sugar"`
}

// Config controls world construction. Width and Height are the canvas size
// the sugar peaks are laid out on; GridSize is the number of cells per side.
type Config struct {
	GridSize   int   `yaml:"grid_size"`
	Population int   `yaml:"population"`
	Radius     int   `yaml:"radius"`
	Width      int   `yaml:"width"`
	Height     int   `yaml:"height"`
	Ticks      int   `yaml:"ticks"`
	Seed       int64 `yaml:"seed"`

	Params Params `yaml:"params"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		GridSize:   50,
		Population: 200,
		Radius:     250,
		Width:      700,
		Height:     700,
		Ticks:      20,
		Seed:       42,
		Params: Params{
			MaxCapacity:   10,
			GrowthRate:    3,
			MaxVision:     6,
			MaxMetabolism: 6,
			MinSugar:      5,
			MaxSugar:      25,
		},
	}
}

// Validate reports the first configuration problem as a *ConfigurationError.
func (c Config) Validate() error {
	positive := []struct {
		field string
		value int
	}{
		{"grid_size", c.GridSize},
		{"width", c.Width},
		{"height", c.Height},
		{"radius", c.Radius},
		{"max_capacity", c.Params.MaxCapacity},
		{"max_vision", c.Params.MaxVision},
		{"max_metabolism", c.Params.MaxMetabolism},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &ConfigurationError{Field: p.field, Reason: fmt.Sprintf("must be positive, got %d", p.value)}
		}
	}
	if c.Population < 0 {
		return &ConfigurationError{Field: "population", Reason: fmt.Sprintf("must not be negative, got %d", c.Population)}
	}
	if cells := c.GridSize * c.GridSize; c.Population > cells {
		return &ConfigurationError{
			Field:  "population",
			Reason: fmt.Sprintf("agent population %d exceeds world size %d", c.Population, cells),
		}
	}
	if c.Params.GrowthRate < 0 {
		return &ConfigurationError{Field: "growth_rate", Reason: "must not be negative"}
	}
	if c.Params.MinSugar > c.Params.MaxSugar {
		return &ConfigurationError{Field: "min_sugar", Reason: "greater than max_sugar"}
	}
	return nil
}

func (c *Config) intFields() map[string]*int {
	return map[string]*int{
		"grid":           &c.GridSize,
		"population":     &c.Population,
		"radius":         &c.Radius,
		"width":          &c.Width,
		"height":         &c.Height,
		"ticks":          &c.Ticks,
		"max_capacity":   &c.Params.MaxCapacity,
		"growth_rate":    &c.Params.GrowthRate,
		"max_vision":     &c.Params.MaxVision,
		"max_metabolism": &c.Params.MaxMetabolism,
		"min_sugar":      &c.Params.MinSugar,
		"max_sugar":      &c.Params.MaxSugar,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparseable values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	for key, dst := range c.intFields() {
		v, ok := cfg[key]
		if !ok {
			continue
		}
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			*dst = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	return c
}

// Override returns c with the given flag-style keys replaced. Unlike FromMap
// it rejects unknown keys and unparseable values.
func (c Config) Override(kv map[string]string) (Config, error) {
	fields := c.intFields()
	for key, v := range kv {
		if key == "seed" {
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return c, &ConfigurationError{Field: key, Reason: fmt.Sprintf("not an integer: %q", v)}
			}
			c.Seed = parsed
			continue
		}
		dst, ok := fields[key]
		if !ok {
			return c, &ConfigurationError{Field: key, Reason: "unknown setting"}
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return c, &ConfigurationError{Field: key, Reason: fmt.Sprintf("not an integer: %q", v)}
		}
		*dst = parsed
	}
	return c, nil
}

// LoadConfig reads a YAML file on top of DefaultConfig. Keys missing from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
