package sugarscape

import (
	"math"

	"sugarscape/internal/core"
)

// CellID identifies a resource cell; it equals the cell's torus index.
type CellID int

// Cell is one resource cell. Sugar never exceeds Capacity.
type Cell struct {
	ID       CellID
	Pos      core.Point
	Capacity int
	Sugar    int
}

// Peak is a sugar source in canvas space with its maximum influence radius.
type Peak struct {
	X, Y   float64
	Radius float64
}

// PeaksFor lays out the north-east and south-west peaks for a canvas. Each
// peak sits halfway between the canvas centre and its corner; its reach is
// the distance to the farthest canvas corner scaled by radius/width.
func PeaksFor(width, height, radius int) [2]Peak {
	w, h := float64(width), float64(height)
	cx, cy := w/2, h/2
	corners := [2][2]float64{{w, 0}, {0, h}}
	var peaks [2]Peak
	for i, c := range corners {
		px, py := (c[0]+cx)/2, (c[1]+cy)/2
		reach := math.Hypot(math.Max(px, w-px), math.Max(py, h-py))
		peaks[i] = Peak{X: px, Y: py, Radius: float64(radius) / w * reach}
	}
	return peaks
}

// candidateCapacity is 1 + max*(1-d/R) clamped to [0, max] and floored.
func candidateCapacity(d, reach float64, maxCapacity int) int {
	if reach <= 0 {
		return 0
	}
	c := 1 + float64(maxCapacity)*(1-d/reach)
	if c < 0 {
		return 0
	}
	return int(math.Min(c, float64(maxCapacity)))
}

// field owns one Cell per grid coordinate.
type field struct {
	torus    core.Torus
	layout   Layout
	cells    []Cell
	growable []CellID
}

func newField(t core.Torus, layout Layout, peaks []Peak, maxCapacity int) *field {
	f := &field{torus: t, layout: layout, cells: make([]Cell, t.Len())}
	for i := range f.cells {
		p := t.Point(i)
		origin := layout.CellOrigin(p)
		capacity := 0
		for _, pk := range peaks {
			d := math.Hypot(pk.X-origin.X, pk.Y-origin.Y)
			if c := candidateCapacity(d, pk.Radius, maxCapacity); c > capacity {
				capacity = c
			}
		}
		f.cells[i] = Cell{ID: CellID(i), Pos: p, Capacity: capacity, Sugar: capacity}
		if capacity > 0 {
			f.growable = append(f.growable, CellID(i))
		}
	}
	return f
}

func (f *field) at(p core.Point) *Cell {
	return &f.cells[f.torus.Index(p)]
}

// grow adds rate to every growable cell at or below capacity, clamping at
// capacity, and calls changed for each cell whose level moved.
func (f *field) grow(rate int, changed func(*Cell)) {
	for _, id := range f.growable {
		c := &f.cells[id]
		if c.Sugar > c.Capacity {
			continue
		}
		before := c.Sugar
		c.Sugar += rate
		if c.Sugar > c.Capacity {
			c.Sugar = c.Capacity
		}
		if c.Sugar != before && changed != nil {
			changed(c)
		}
	}
}

// harvest empties the cell at p and returns what it held.
func (f *field) harvest(p core.Point) int {
	c := f.at(p)
	sugar := c.Sugar
	c.Sugar = 0
	return sugar
}

func (f *field) totalSugar() int {
	total := 0
	for _, id := range f.growable {
		total += f.cells[id].Sugar
	}
	return total
}
