package sugarscape

import "sugarscape/internal/core"

// Parameters reports the active configuration for the HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	cfg := w.pending
	p := cfg.Params
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				core.IntParam("grid", "Grid size", cfg.GridSize),
				core.IntParam("population", "Initial population", cfg.Population),
				core.IntParam("radius", "Radius", cfg.Radius),
				core.IntParam("ticks", "Ticks", cfg.Ticks),
				core.IntParam("width", "Canvas width", cfg.Width),
				core.IntParam("height", "Canvas height", cfg.Height),
				core.Int64Param("seed", "Seed", cfg.Seed),
			},
		},
		{
			Name: "Agents",
			Params: []core.Parameter{
				core.IntParam("max_vision", "Max vision", p.MaxVision),
				core.IntParam("max_metabolism", "Max metabolism", p.MaxMetabolism),
				core.IntParam("min_sugar", "Min starting sugar", p.MinSugar),
				core.IntParam("max_sugar", "Max starting sugar", p.MaxSugar),
			},
		},
		{
			Name: "Resource",
			Params: []core.Parameter{
				core.IntParam("max_capacity", "Max capacity", p.MaxCapacity),
				core.IntParam("growth_rate", "Growth rate", p.GrowthRate),
				core.FloatParam("peak_reach", "Peak reach", PeaksFor(cfg.Width, cfg.Height, cfg.Radius)[0].Radius),
			},
		},
	}}
}

var controls = []core.ParameterControl{
	{Key: "population", Label: "Initial Population", Step: 10, Min: 1, Max: 500},
	{Key: "ticks", Label: "Ticks", Step: 1, Min: 1, Max: 100},
	{Key: "grid", Label: "Grid Size", Step: 5, Min: 50, Max: 100},
	{Key: "radius", Label: "Radius", Step: 10, Min: 200, Max: 400},
}

// ParameterControls exposes the adjustable settings with their slider ranges.
func (w *World) ParameterControls() []core.ParameterControl {
	return append([]core.ParameterControl(nil), controls...)
}

// SetIntParameter updates the pending configuration. Changes apply on the
// next Reset; the running world is untouched.
func (w *World) SetIntParameter(key string, value int) bool {
	var ctrl core.ParameterControl
	found := false
	for _, c := range controls {
		if c.Key == key {
			ctrl, found = c, true
			break
		}
	}
	if !found {
		return false
	}
	value = ctrl.Clamp(value)
	switch key {
	case "population":
		w.pending.Population = value
	case "ticks":
		w.pending.Ticks = value
	case "grid":
		w.pending.GridSize = value
	case "radius":
		w.pending.Radius = value
	}
	if cells := w.pending.GridSize * w.pending.GridSize; w.pending.Population > cells {
		w.pending.Population = cells
	}
	return true
}

// Pending returns the configuration the next Reset will use.
func (w *World) Pending() Config { return w.pending }
