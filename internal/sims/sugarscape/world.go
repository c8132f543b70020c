package sugarscape

import (
	"image/color"
	"log/slog"

	"sugarscape/internal/core"
	prng "sugarscape/pkg/core"
)

// World is the simulation aggregate. It owns the topology, the resource
// field, the occupancy index and the population, and is the only thing that
// mutates them.
type World struct {
	cfg     Config
	pending Config

	torus  core.Torus
	layout Layout
	field  *field
	occ    *occupancy
	agents []*Agent
	nextID AgentID

	tick   int
	deaths int

	rng      *prng.RNG
	renderer Renderer
	log      *slog.Logger

	candidates []core.Point
	dead       []*Agent
}

// Option customises a World at construction.
type Option func(*World)

// WithRenderer attaches a display sink. The default discards everything.
func WithRenderer(r Renderer) Option {
	return func(w *World) {
		if r != nil {
			w.renderer = r
		}
	}
}

// WithRNG injects the random source used for traits, placement and forage
// tie-breaks. The default is seeded from Config.Seed.
func WithRNG(rng *prng.RNG) Option {
	return func(w *World) {
		if rng != nil {
			w.rng = rng
		}
	}
}

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// New builds the topology, resource field and population. It returns a
// *ConfigurationError, and no world, when cfg cannot be satisfied, most
// notably when the population exceeds the number of grid cells.
func New(cfg Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		cfg:      cfg,
		pending:  cfg,
		renderer: NopRenderer{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = prng.NewRNG(cfg.Seed)
	}
	w.build()
	return w, nil
}

// Reset rebuilds the world from scratch using the pending configuration and
// the provided seed. A zero seed reuses the configured one.
func (w *World) Reset(seed int64) {
	cfg := w.pending
	if seed != 0 {
		cfg.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		w.log.Warn("pending configuration rejected, keeping current", "error", err)
		cfg = w.cfg
		if seed != 0 {
			cfg.Seed = seed
		}
	}
	w.cfg = cfg
	w.pending = cfg
	w.rng.Reseed(cfg.Seed)
	w.build()
}

func (w *World) build() {
	w.torus = core.NewTorus(w.cfg.GridSize)
	w.layout = NewLayout(w.cfg.Width, w.cfg.Height, w.cfg.GridSize)
	peaks := PeaksFor(w.cfg.Width, w.cfg.Height, w.cfg.Radius)
	w.field = newField(w.torus, w.layout, peaks[:], w.cfg.Params.MaxCapacity)
	w.occ = newOccupancy(w.torus)
	w.agents = w.agents[:0]
	w.nextID = 0
	w.tick = 0
	w.deaths = 0

	for _, id := range w.field.growable {
		c := &w.field.cells[id]
		w.renderer.DrawCell(c.ID, w.layout.CellOrigin(c.Pos), w.sugarColor(c.Capacity))
	}
	w.populate()

	w.log.Info("world initialized",
		"grid", w.cfg.GridSize,
		"cells", w.torus.Len(),
		"growable", len(w.field.growable),
		"agents", len(w.agents),
		"radius", w.cfg.Radius,
		"seed", w.cfg.Seed,
	)
}

// populate places agents on distinct cells drawn uniformly at random.
func (w *World) populate() {
	order := w.rng.Perm(w.torus.Len())
	for _, idx := range order[:w.cfg.Population] {
		pos := w.torus.Point(idx)
		a := newAgent(w.nextID, pos, w.rng, w.cfg.Params)
		w.nextID++
		w.occ.Set(pos)
		w.agents = append(w.agents, a)
		w.renderer.DrawAgent(a.ID, w.layout.AgentCenter(pos), AgentColor)
	}
}

// Step advances the simulation by one tick: every growable cell grows, then
// each agent alive at the start of the tick acts once in creation order, then
// agents that died are removed.
func (w *World) Step() {
	w.field.grow(w.cfg.Params.GrowthRate, func(c *Cell) {
		w.renderer.UpdateCellColor(c.ID, w.sugarColor(c.Sugar))
	})

	// Agents never join mid-tick, so the slice header is a stable snapshot.
	w.dead = w.dead[:0]
	for _, a := range w.agents {
		if !a.Alive {
			continue
		}
		w.act(a)
		if !a.Alive {
			w.dead = append(w.dead, a)
		}
	}
	w.sweep()
	w.tick++
}

// sweep drops dead agents from the population in one pass.
func (w *World) sweep() {
	if len(w.dead) == 0 {
		return
	}
	for _, a := range w.dead {
		w.occ.Clear(a.Pos)
		w.renderer.RemoveAgent(a.ID)
		w.log.Debug("agent died", "tick", w.tick, "agent", a.ID, "wealth", a.Wealth,
			"vision", a.Vision, "metabolism", a.Metabolism)
	}
	w.deaths += len(w.dead)
	live := w.agents[:0]
	for _, a := range w.agents {
		if a.Alive {
			live = append(live, a)
		}
	}
	clear(w.agents[len(live):])
	w.agents = live
}

func (w *World) sugarColor(level int) color.RGBA {
	return SugarColor(level, w.cfg.Params.MaxCapacity)
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "sugarscape" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return w.torus.Size() }

// Config returns the configuration the current world was built from.
func (w *World) Config() Config { return w.cfg }

// Layout returns the grid-to-canvas mapping.
func (w *World) Layout() Layout { return w.layout }

// Tick is the number of completed ticks since the last build.
func (w *World) Tick() int { return w.tick }

// LiveAgentCount is the number of agents still alive.
func (w *World) LiveAgentCount() int {
	n := 0
	for _, a := range w.agents {
		if a.Alive {
			n++
		}
	}
	return n
}

// Agents returns copies of the live population in creation order.
func (w *World) Agents() []Agent {
	out := make([]Agent, len(w.agents))
	for i, a := range w.agents {
		out[i] = *a
	}
	return out
}

// Agent looks up a live agent by id.
func (w *World) Agent(id AgentID) (Agent, bool) {
	for _, a := range w.agents {
		if a.ID == id {
			return *a, true
		}
	}
	return Agent{}, false
}

// Cell returns the resource cell at p, wrapping p onto the torus first.
func (w *World) Cell(p core.Point) Cell {
	return *w.field.at(w.torus.Wrap(p.X, p.Y))
}

// Cells returns a copy of every cell in row-major order.
func (w *World) Cells() []Cell {
	return append([]Cell(nil), w.field.cells...)
}

// Occupied reports whether an agent stands on p.
func (w *World) Occupied(p core.Point) bool {
	return w.occ.Occupied(w.torus.Wrap(p.X, p.Y))
}

func init() {
	core.Register("sugarscape", func(cfg map[string]string) (core.Sim, error) {
		w, err := New(FromMap(cfg))
		if err != nil {
			return nil, err
		}
		return w, nil
	})
}
