package sugarscape

import (
	"errors"
	"image/color"
	"io"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"testing"

	"sugarscape/internal/core"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorld(t *testing.T, cfg Config, opts ...Option) *World {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	w, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

// barrenConfig yields a world where every cell has capacity zero.
func barrenConfig(n int) Config {
	cfg := DefaultConfig()
	cfg.GridSize = n
	cfg.Population = 0
	cfg.Radius = 1
	return cfg
}

func clearPopulation(w *World) {
	for _, a := range w.agents {
		w.occ.Clear(a.Pos)
	}
	w.agents = nil
}

func placeAgent(w *World, pos core.Point, vision, metabolism, wealth int) *Agent {
	a := &Agent{ID: w.nextID, Pos: pos, Vision: vision, Metabolism: metabolism, Wealth: wealth, Alive: true}
	w.nextID++
	w.occ.Set(pos)
	w.agents = append(w.agents, a)
	return a
}

// setSugar fills a cell to sugar and drops it from the growable set so
// growth leaves it alone.
func setSugar(w *World, p core.Point, sugar int) {
	c := w.field.at(p)
	c.Capacity = sugar
	c.Sugar = sugar
	w.field.growable = slices.DeleteFunc(w.field.growable, func(id CellID) bool { return id == c.ID })
}

func TestScenarioSingleAgentHarvest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridSize = 5
	cfg.Population = 1
	cfg.Radius = 5000
	w := newTestWorld(t, cfg)

	for _, c := range w.Cells() {
		if c.Capacity < 1 {
			t.Fatalf("cell %v capacity %d, expected >= 1 with a large radius", c.Pos, c.Capacity)
		}
	}

	before := w.Agents()[0]
	if before.Wealth < cfg.Params.MinSugar || before.Wealth > cfg.Params.MaxSugar {
		t.Fatalf("starting wealth %d outside [%d,%d]", before.Wealth, cfg.Params.MinSugar, cfg.Params.MaxSugar)
	}

	w.Step()

	after, ok := w.Agent(before.ID)
	if !ok {
		t.Fatal("agent should survive a tick on a full field")
	}
	harvested := w.field.at(after.Pos).Capacity
	if want := before.Wealth + harvested - before.Metabolism; after.Wealth != want {
		t.Fatalf("wealth %d, want %d (start %d + harvest %d - metabolism %d)",
			after.Wealth, want, before.Wealth, harvested, before.Metabolism)
	}
	if got := w.Cell(after.Pos).Sugar; got != 0 {
		t.Fatalf("harvested cell should be empty, has %d", got)
	}
}

func TestScenarioPopulationFillsGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridSize = 3
	cfg.Population = 9
	w := newTestWorld(t, cfg)
	if got := w.LiveAgentCount(); got != 9 {
		t.Fatalf("expected 9 agents, got %d", got)
	}
	if got := w.occ.Count(); got != 9 {
		t.Fatalf("expected every cell occupied, got %d", got)
	}

	cfg.Population = 10
	w, err := New(cfg, WithLogger(quietLogger()))
	if w != nil {
		t.Fatal("no world should be returned on configuration error")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) || cerr.Field != "population" {
		t.Fatalf("expected population ConfigurationError, got %#v", err)
	}
}

func TestScenarioBarrenNeighbourhood(t *testing.T) {
	w := newTestWorld(t, barrenConfig(5))
	for _, c := range w.Cells() {
		if c.Capacity != 0 {
			t.Fatalf("cell %v has capacity %d in a barren world", c.Pos, c.Capacity)
		}
	}
	a := placeAgent(w, core.Point{X: 2, Y: 2}, 1, 4, 20)

	w.Step()

	if a.Pos != (core.Point{X: 2, Y: 2}) {
		t.Fatalf("agent moved to %v with nothing to forage", a.Pos)
	}
	if a.Wealth != 16 {
		t.Fatalf("wealth %d, want 16", a.Wealth)
	}
}

func TestForageSkipsOccupiedAndTakesRichest(t *testing.T) {
	w := newTestWorld(t, barrenConfig(7))
	a := placeAgent(w, core.Point{X: 3, Y: 3}, 2, 2, 10)
	b := placeAgent(w, core.Point{X: 1, Y: 3}, 1, 1, 50)
	setSugar(w, core.Point{X: 1, Y: 3}, 9)
	setSugar(w, core.Point{X: 5, Y: 3}, 8)
	setSugar(w, core.Point{X: 3, Y: 1}, 5)

	w.Step()

	if a.Pos != (core.Point{X: 5, Y: 3}) {
		t.Fatalf("agent a at %v, want (5,3)", a.Pos)
	}
	if a.Wealth != 10+8-2 {
		t.Fatalf("agent a wealth %d, want 16", a.Wealth)
	}
	if b.Pos != (core.Point{X: 1, Y: 3}) {
		t.Fatalf("agent b at %v, should stay", b.Pos)
	}
	if b.Wealth != 50+9-1 {
		t.Fatalf("agent b wealth %d, want 58", b.Wealth)
	}
	if w.Cell(core.Point{X: 3, Y: 1}).Sugar != 5 {
		t.Fatal("unvisited cell should keep its sugar")
	}
	if w.Occupied(core.Point{X: 3, Y: 3}) {
		t.Fatal("vacated cell should be free")
	}
}

func TestForageWrapsAcrossEdge(t *testing.T) {
	w := newTestWorld(t, barrenConfig(5))
	a := placeAgent(w, core.Point{X: 0, Y: 2}, 1, 1, 10)
	setSugar(w, core.Point{X: 4, Y: 2}, 6)

	w.Step()

	if a.Pos != (core.Point{X: 4, Y: 2}) {
		t.Fatalf("agent at %v, want (4,2) across the west edge", a.Pos)
	}
}

func TestVisibleSeesFourTimesVision(t *testing.T) {
	w := newTestWorld(t, barrenConfig(3))
	a := placeAgent(w, core.Point{X: 1, Y: 1}, 5, 1, 10)
	if got := len(w.visible(a)); got != 20 {
		t.Fatalf("expected 20 candidates, got %d", got)
	}
}

func TestDeathRemovesAgentAtEndOfTick(t *testing.T) {
	rec := newRecordingRenderer()
	w := newTestWorld(t, barrenConfig(5), WithRenderer(rec))
	doomed := placeAgent(w, core.Point{X: 1, Y: 1}, 1, 3, 2)
	survivor := placeAgent(w, core.Point{X: 3, Y: 3}, 1, 1, 10)

	w.Step()

	if doomed.Alive {
		t.Fatal("agent with negative wealth should be dead")
	}
	if got := w.LiveAgentCount(); got != 1 {
		t.Fatalf("live count %d, want 1", got)
	}
	if _, ok := w.Agent(doomed.ID); ok {
		t.Fatal("dead agent should be gone from the population")
	}
	if w.Occupied(doomed.Pos) {
		t.Fatal("dead agent's cell should be released by the sweep")
	}
	if !slices.Contains(rec.removed, doomed.ID) {
		t.Fatal("renderer should be told to remove the dead agent")
	}
	if st := w.Stats(); st.Deaths != 1 || st.Population != 1 {
		t.Fatalf("stats %+v, want 1 death and 1 survivor", st)
	}

	w.Step()
	if doomed.Wealth != -1 {
		t.Fatalf("dead agent acted again: wealth %d", doomed.Wealth)
	}
	if survivor.Wealth != 8 {
		t.Fatalf("survivor wealth %d, want 8", survivor.Wealth)
	}
}

func TestInvariantsHoldAcrossTicks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 11
	w := newTestWorld(t, cfg)
	rate := cfg.Params.GrowthRate

	for tick := 0; tick < 60; tick++ {
		cellsBefore := w.Cells()
		wealthBefore := map[AgentID]Agent{}
		for _, a := range w.Agents() {
			wealthBefore[a.ID] = a
		}

		w.Step()

		for _, c := range w.Cells() {
			if c.Sugar < 0 || c.Sugar > c.Capacity || c.Capacity > cfg.Params.MaxCapacity {
				t.Fatalf("tick %d: cell %v violates bounds: sugar %d capacity %d", tick, c.Pos, c.Sugar, c.Capacity)
			}
		}

		seen := map[core.Point]AgentID{}
		for _, a := range w.Agents() {
			if !a.Alive {
				t.Fatalf("tick %d: dead agent %d still in population", tick, a.ID)
			}
			if other, dup := seen[a.Pos]; dup {
				t.Fatalf("tick %d: agents %d and %d share %v", tick, other, a.ID, a.Pos)
			}
			seen[a.Pos] = a.ID
			if !w.Occupied(a.Pos) {
				t.Fatalf("tick %d: agent %d cell %v not marked occupied", tick, a.ID, a.Pos)
			}

			prev := wealthBefore[a.ID]
			cell := cellsBefore[w.torus.Index(a.Pos)]
			grown := cell.Sugar
			if cell.Capacity > 0 && cell.Sugar <= cell.Capacity {
				grown = min(cell.Sugar+rate, cell.Capacity)
			}
			if want := prev.Wealth + grown - prev.Metabolism; a.Wealth != want {
				t.Fatalf("tick %d: agent %d wealth %d, want %d", tick, a.ID, a.Wealth, want)
			}
			if got := w.Cell(a.Pos).Sugar; got != 0 {
				t.Fatalf("tick %d: agent %d cell not harvested (%d)", tick, a.ID, got)
			}
			if a.Vision != prev.Vision || a.Metabolism != prev.Metabolism {
				t.Fatalf("tick %d: agent %d traits changed", tick, a.ID)
			}
		}
		if w.occ.Count() != len(seen) {
			t.Fatalf("tick %d: occupancy count %d, agents %d", tick, w.occ.Count(), len(seen))
		}
	}
}

func TestSameSeedSameRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 2024
	a := newTestWorld(t, cfg)
	b := newTestWorld(t, cfg)
	for i := 0; i < 30; i++ {
		a.Step()
		b.Step()
	}
	if !slices.Equal(a.Agents(), b.Agents()) {
		t.Fatal("equal seeds should produce identical populations")
	}
	if !slices.Equal(a.Cells(), b.Cells()) {
		t.Fatal("equal seeds should produce identical fields")
	}

	a.Reset(0)
	c := newTestWorld(t, cfg)
	if !slices.Equal(a.Agents(), c.Agents()) {
		t.Fatal("Reset with the configured seed should rebuild the initial state")
	}
	a.Reset(7)
	if slices.Equal(a.Agents(), c.Agents()) {
		t.Fatal("a different seed should produce a different population")
	}
}

func TestTraitsWithinBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Population = 500
	w := newTestWorld(t, cfg)
	p := cfg.Params
	for _, a := range w.Agents() {
		if a.Vision < 1 || a.Vision > p.MaxVision {
			t.Fatalf("vision %d out of range", a.Vision)
		}
		if a.Metabolism < 1 || a.Metabolism > p.MaxMetabolism {
			t.Fatalf("metabolism %d out of range", a.Metabolism)
		}
		if a.Wealth < p.MinSugar || a.Wealth > p.MaxSugar {
			t.Fatalf("wealth %d out of range", a.Wealth)
		}
	}
}

type recordingRenderer struct {
	cells   map[CellID]color.RGBA
	agents  map[AgentID]Vec
	removed []AgentID
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{cells: map[CellID]color.RGBA{}, agents: map[AgentID]Vec{}}
}

func (r *recordingRenderer) DrawCell(id CellID, _ Vec, c color.RGBA) { r.cells[id] = c }
func (r *recordingRenderer) UpdateCellColor(id CellID, c color.RGBA) { r.cells[id] = c }
func (r *recordingRenderer) DrawAgent(id AgentID, at Vec, _ color.RGBA) {
	r.agents[id] = at
}
func (r *recordingRenderer) MoveAgent(id AgentID, dx, dy float64) {
	v := r.agents[id]
	r.agents[id] = Vec{X: v.X + dx, Y: v.Y + dy}
}
func (r *recordingRenderer) RemoveAgent(id AgentID) {
	delete(r.agents, id)
	r.removed = append(r.removed, id)
}

func TestRendererTracksWorld(t *testing.T) {
	rec := newRecordingRenderer()
	cfg := DefaultConfig()
	cfg.Seed = 5
	w := newTestWorld(t, cfg, WithRenderer(rec))

	if got, want := len(rec.cells), len(w.field.growable); got != want {
		t.Fatalf("drew %d cells, want %d growable", got, want)
	}
	for i := 0; i < 25; i++ {
		w.Step()
	}
	if len(rec.agents) != w.LiveAgentCount() {
		t.Fatalf("renderer holds %d agents, world %d", len(rec.agents), w.LiveAgentCount())
	}
	if len(rec.removed) != w.Stats().Deaths {
		t.Fatalf("renderer removed %d agents, world reports %d deaths", len(rec.removed), w.Stats().Deaths)
	}
	for _, a := range w.Agents() {
		got := rec.agents[a.ID]
		want := w.Layout().AgentCenter(a.Pos)
		if math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.Y-want.Y) > 1e-6 {
			t.Fatalf("agent %d drawn at %v, world says %v", a.ID, got, want)
		}
	}
	for _, c := range w.Cells() {
		if c.Capacity == 0 {
			continue
		}
		if rec.cells[c.ID] != SugarColor(c.Sugar, cfg.Params.MaxCapacity) {
			t.Fatalf("cell %v colour out of date", c.Pos)
		}
	}
}

func TestSetIntParameterAppliesOnReset(t *testing.T) {
	w := newTestWorld(t, DefaultConfig())
	if w.SetIntParameter("unknown", 3) {
		t.Fatal("unknown key should be rejected")
	}
	if !w.SetIntParameter("population", 9999) {
		t.Fatal("population should be adjustable")
	}
	if got := w.Pending().Population; got != 500 {
		t.Fatalf("population should clamp to slider max 500, got %d", got)
	}
	if got := w.LiveAgentCount(); got != 200 {
		t.Fatalf("running world should be untouched, has %d agents", got)
	}
	w.SetIntParameter("grid", 60)
	w.Reset(0)
	if w.Size().W != 60 || w.LiveAgentCount() != 500 {
		t.Fatalf("reset should apply pending config, got size %v and %d agents", w.Size(), w.LiveAgentCount())
	}
	if p, ok := w.Parameters().Lookup("grid"); !ok || p.Value != "60" {
		t.Fatalf("parameter snapshot grid = %+v", p)
	}

	reach, ok := w.Parameters().Lookup("peak_reach")
	if !ok || reach.Type != core.ParamTypeFloat {
		t.Fatalf("peak reach parameter = %+v", reach)
	}
	got, err := strconv.ParseFloat(reach.Value, 64)
	want := PeaksFor(700, 700, 250)[0].Radius
	if err != nil || math.Abs(got-want) > 1e-9 {
		t.Fatalf("peak reach %q, want %v", reach.Value, want)
	}
}

func TestRegisteredFactory(t *testing.T) {
	sim, err := core.Lookup("sugarscape", map[string]string{"grid": "10", "population": "20"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if sim.Size() != (core.Size{W: 10, H: 10}) {
		t.Fatalf("size %v", sim.Size())
	}
	if _, err := core.Lookup("sugarscape", map[string]string{"grid": "2", "population": "5"}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

// forageTieTarget runs one tick of a lone agent whose four neighbours hold
// equal sugar and reports where it moved.
func forageTieTarget(t *testing.T, seed int64) core.Point {
	t.Helper()
	cfg := barrenConfig(5)
	cfg.Seed = seed
	w := newTestWorld(t, cfg)
	a := placeAgent(w, core.Point{X: 2, Y: 2}, 1, 1, 10)
	for _, p := range []core.Point{{X: 1, Y: 2}, {X: 3, Y: 2}, {X: 2, Y: 3}, {X: 2, Y: 1}} {
		setSugar(w, p, 5)
	}
	w.Step()
	after, ok := w.Agent(a.ID)
	if !ok {
		t.Fatalf("seed %d: agent died", seed)
	}
	return after.Pos
}

func TestForageTiesHaveNoDirectionalBias(t *testing.T) {
	counts := map[core.Point]int{}
	for seed := int64(1); seed <= 200; seed++ {
		counts[forageTieTarget(t, seed)]++
	}
	want := []core.Point{{X: 1, Y: 2}, {X: 3, Y: 2}, {X: 2, Y: 3}, {X: 2, Y: 1}}
	for _, p := range want {
		if counts[p] == 0 {
			t.Fatalf("neighbour %v never chosen across 200 seeds: %v", p, counts)
		}
	}
	if len(counts) != len(want) {
		t.Fatalf("agent moved outside its tied neighbours: %v", counts)
	}

	if a, b := forageTieTarget(t, 7), forageTieTarget(t, 7); a != b {
		t.Fatalf("same seed chose %v then %v", a, b)
	}
}
