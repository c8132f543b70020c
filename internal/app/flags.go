package app

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"sugarscape/internal/sims/sugarscape"
)

// Config represents the command-line parameters shared by the commands.
type Config struct {
	ConfigPath string
	Record     string
	RecordPath string
	LogLevel   string

	Scale float64
	TPS   int

	overrides map[string]string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Record: "memory", LogLevel: "info", Scale: 1, TPS: 10, overrides: map[string]string{}}
}

var simFlags = []struct{ key, usage string }{
	{"grid", "grid size N (world is N×N)"},
	{"population", "initial number of agents"},
	{"radius", "sugar peak radius"},
	{"ticks", "number of ticks to run"},
	{"seed", "random seed"},
	{"width", "canvas width"},
	{"height", "canvas height"},
	{"growth_rate", "sugar regrowth per tick"},
	{"max_vision", "largest agent vision"},
	{"max_metabolism", "largest agent metabolism"},
}

// Bind attaches the configuration to the provided FlagSet. World settings
// given on the command line take precedence over the -config file.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML file with world settings")
	fs.StringVar(&c.Record, "record", c.Record, "statistics sink: memory, sqlite or jsonl")
	fs.StringVar(&c.RecordPath, "record-path", c.RecordPath, "output file for the sqlite and jsonl sinks")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	for _, f := range simFlags {
		key := f.key
		fs.Func(key, f.usage, func(v string) error {
			c.overrides[key] = v
			return nil
		})
	}
}

// BindGUI attaches the window settings.
func (c *Config) BindGUI(fs *flag.FlagSet) {
	fs.Float64Var(&c.Scale, "scale", c.Scale, "window scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second while running")
}

// World resolves the world configuration: defaults, then the -config file,
// then individual flags.
func (c *Config) World() (sugarscape.Config, error) {
	base := sugarscape.DefaultConfig()
	if c.ConfigPath != "" {
		loaded, err := sugarscape.LoadConfig(c.ConfigPath)
		if err != nil {
			return base, fmt.Errorf("load config: %w", err)
		}
		base = loaded
	}
	cfg, err := base.Override(c.overrides)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Logger builds a text logger at the configured level.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
