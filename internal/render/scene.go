package render

import (
	"image/color"
	"math"

	"sugarscape/internal/sims/sugarscape"
)

// Background is the canvas colour behind empty cells.
var Background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

type cellSprite struct {
	origin sugarscape.Vec
	fill   color.RGBA
}

type agentSprite struct {
	center sugarscape.Vec
	fill   color.RGBA
}

// Scene is a retained canvas fed by a world's renderer calls. Cells are
// rectangles the size of one grid cell; agents are discs of the same
// diameter. Nothing in a Scene is read back by the world.
type Scene struct {
	layout sugarscape.Layout
	cells  map[sugarscape.CellID]cellSprite
	agents map[sugarscape.AgentID]agentSprite
}

// NewScene returns an empty scene for the given layout.
func NewScene(layout sugarscape.Layout) *Scene {
	s := &Scene{}
	s.Reset(layout)
	return s
}

// Reset drops every item and adopts a new layout.
func (s *Scene) Reset(layout sugarscape.Layout) {
	s.layout = layout
	s.Clear()
}

// Clear drops every item.
func (s *Scene) Clear() {
	s.cells = map[sugarscape.CellID]cellSprite{}
	s.agents = map[sugarscape.AgentID]agentSprite{}
}

// Layout reports the canvas geometry.
func (s *Scene) Layout() sugarscape.Layout { return s.layout }

func (s *Scene) DrawCell(id sugarscape.CellID, origin sugarscape.Vec, c color.RGBA) {
	s.cells[id] = cellSprite{origin: origin, fill: c}
}

func (s *Scene) UpdateCellColor(id sugarscape.CellID, c color.RGBA) {
	if cell, ok := s.cells[id]; ok {
		cell.fill = c
		s.cells[id] = cell
	}
}

func (s *Scene) DrawAgent(id sugarscape.AgentID, center sugarscape.Vec, c color.RGBA) {
	s.agents[id] = agentSprite{center: center, fill: c}
}

func (s *Scene) MoveAgent(id sugarscape.AgentID, dx, dy float64) {
	if a, ok := s.agents[id]; ok {
		a.center.X += dx
		a.center.Y += dy
		s.agents[id] = a
	}
}

func (s *Scene) RemoveAgent(id sugarscape.AgentID) {
	delete(s.agents, id)
}

// CellCount and AgentCount report how many items are drawn.
func (s *Scene) CellCount() int  { return len(s.cells) }
func (s *Scene) AgentCount() int { return len(s.agents) }

// CellColor returns the current fill of a drawn cell.
func (s *Scene) CellColor(id sugarscape.CellID) (color.RGBA, bool) {
	c, ok := s.cells[id]
	return c.fill, ok
}

// AgentCenter returns the canvas position of a drawn agent.
func (s *Scene) AgentCenter(id sugarscape.AgentID) (sugarscape.Vec, bool) {
	a, ok := s.agents[id]
	return a.center, ok
}

// Bounds is the pixel size of the rasterized canvas.
func (s *Scene) Bounds() (int, int) {
	return int(math.Ceil(s.layout.Width)), int(math.Ceil(s.layout.Height))
}

// Rasterize paints the scene into buf as RGBA pixels, row-major over the
// canvas bounds. Cells are painted first and agents on top. Transparent
// cell fills leave the background showing.
func (s *Scene) Rasterize(buf []byte) {
	w, h := s.Bounds()
	if len(buf) < 4*w*h {
		return
	}
	for i := 0; i < w*h; i++ {
		setPixel(buf, i, Background)
	}
	for _, c := range s.cells {
		if c.fill.A == 0 {
			continue
		}
		x0, y0 := int(c.origin.X), int(c.origin.Y)
		x1 := int(math.Ceil(c.origin.X + s.layout.CellW))
		y1 := int(math.Ceil(c.origin.Y + s.layout.CellH))
		fillRect(buf, w, h, x0, y0, x1, y1, c.fill)
	}
	rx, ry := s.layout.CellW/2, s.layout.CellH/2
	for _, a := range s.agents {
		fillEllipse(buf, w, h, a.center, rx, ry, a.fill)
	}
}

func setPixel(buf []byte, i int, col color.RGBA) {
	base := i * 4
	buf[base+0] = col.R
	buf[base+1] = col.G
	buf[base+2] = col.B
	buf[base+3] = col.A
}

func fillRect(buf []byte, w, h, x0, y0, x1, y1 int, col color.RGBA) {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, w), min(y1, h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			setPixel(buf, y*w+x, col)
		}
	}
}

// fillEllipse paints pixels whose centres fall inside the axis-aligned
// ellipse around c. Discs that hang over the canvas edge are clipped.
func fillEllipse(buf []byte, w, h int, c sugarscape.Vec, rx, ry float64, col color.RGBA) {
	if rx <= 0 || ry <= 0 {
		return
	}
	x0 := max(int(math.Floor(c.X-rx)), 0)
	x1 := min(int(math.Ceil(c.X+rx)), w)
	y0 := max(int(math.Floor(c.Y-ry)), 0)
	y1 := min(int(math.Ceil(c.Y+ry)), h)
	for y := y0; y < y1; y++ {
		dy := (float64(y) + 0.5 - c.Y) / ry
		for x := x0; x < x1; x++ {
			dx := (float64(x) + 0.5 - c.X) / rx
			if dx*dx+dy*dy <= 1 {
				setPixel(buf, y*w+x, col)
			}
		}
	}
}
