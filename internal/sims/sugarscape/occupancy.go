package sugarscape

import (
	"fmt"

	"sugarscape/internal/core"
)

// occupancy records which cells currently hold an agent.
type occupancy struct {
	torus core.Torus
	cells []bool
	count int
}

func newOccupancy(t core.Torus) *occupancy {
	return &occupancy{torus: t, cells: make([]bool, t.Len())}
}

// Occupied reports whether an agent sits on p.
func (o *occupancy) Occupied(p core.Point) bool {
	return o.cells[o.torus.Index(p)]
}

// Set marks p as taken. Taking an occupied cell is a bug in the caller.
func (o *occupancy) Set(p core.Point) {
	i := o.torus.Index(p)
	if o.cells[i] {
		panic(fmt.Sprintf("sugarscape: cell %v already occupied", p))
	}
	o.cells[i] = true
	o.count++
}

// Clear frees p.
func (o *occupancy) Clear(p core.Point) {
	i := o.torus.Index(p)
	if o.cells[i] {
		o.cells[i] = false
		o.count--
	}
}

// Move releases from and takes to in one call.
func (o *occupancy) Move(from, to core.Point) {
	if from == to {
		return
	}
	o.Clear(from)
	o.Set(to)
}

// Count is the number of occupied cells.
func (o *occupancy) Count() int { return o.count }
