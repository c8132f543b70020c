package sugarscape

import "sugarscape/internal/core"

// act runs one agent's turn: forage, move, consume, death check.
func (w *World) act(a *Agent) {
	target := w.forage(a)
	w.move(a, target)
	w.consume(a)
}

// visible collects the cells an agent can see: for each cardinal direction,
// the Vision cells stepping outward, wrapped onto the torus. The result
// always holds 4*Vision points and may repeat cells on small grids.
func (w *World) visible(a *Agent) []core.Point {
	pts := w.candidates[:0]
	for _, d := range core.Cardinals {
		pts = w.torus.Ray(pts, a.Pos, d, a.Vision)
	}
	w.candidates = pts
	return pts
}

// forage picks the unoccupied visible cell with the most sugar. Candidates
// are shuffled first so that ties do not favour a direction; the first
// strictly better cell in shuffled order wins. With nothing above zero the
// agent stays where it is.
func (w *World) forage(a *Agent) core.Point {
	pts := w.visible(a)
	w.rng.Shuffle(len(pts), func(i, j int) { pts[i], pts[j] = pts[j], pts[i] })

	best, target := 0, a.Pos
	for _, p := range pts {
		if w.occ.Occupied(p) {
			continue
		}
		if s := w.field.at(p).Sugar; s > best {
			best, target = s, p
		}
	}
	return target
}

func (w *World) move(a *Agent, to core.Point) {
	from := a.Pos
	w.occ.Move(from, to)
	a.Pos = to
	fc, tc := w.layout.AgentCenter(from), w.layout.AgentCenter(to)
	w.renderer.MoveAgent(a.ID, tc.X-fc.X, tc.Y-fc.Y)
}

// consume harvests the whole cell, pays metabolism and marks the agent dead
// when wealth drops below zero.
func (w *World) consume(a *Agent) {
	harvested := w.field.harvest(a.Pos)
	a.Wealth += harvested - a.Metabolism
	if harvested > 0 {
		c := w.field.at(a.Pos)
		w.renderer.UpdateCellColor(c.ID, w.sugarColor(c.Sugar))
	}
	if a.Wealth < 0 {
		a.Alive = false
	}
}
