package sugarscape

import (
	"image/color"

	"sugarscape/internal/core"
)

// Vec is a position or offset in canvas units.
type Vec struct {
	X, Y float64
}

// Renderer receives display updates after the world has mutated its state.
// The world never reads anything back from it.
type Renderer interface {
	DrawCell(id CellID, origin Vec, c color.RGBA)
	UpdateCellColor(id CellID, c color.RGBA)
	DrawAgent(id AgentID, center Vec, c color.RGBA)
	MoveAgent(id AgentID, dx, dy float64)
	RemoveAgent(id AgentID)
}

// NopRenderer discards every call.
type NopRenderer struct{}

func (NopRenderer) DrawCell(CellID, Vec, color.RGBA)    {}
func (NopRenderer) UpdateCellColor(CellID, color.RGBA)  {}
func (NopRenderer) DrawAgent(AgentID, Vec, color.RGBA)  {}
func (NopRenderer) MoveAgent(AgentID, float64, float64) {}
func (NopRenderer) RemoveAgent(AgentID)                 {}

// Layout maps grid coordinates onto the canvas.
type Layout struct {
	Width, Height float64
	CellW, CellH  float64
}

// NewLayout spreads an n×n grid over a width×height canvas.
func NewLayout(width, height, n int) Layout {
	if n <= 0 {
		n = 1
	}
	return Layout{
		Width:  float64(width),
		Height: float64(height),
		CellW:  float64(width) / float64(n),
		CellH:  float64(height) / float64(n),
	}
}

// CellOrigin is the canvas position of the top-left corner of p.
func (l Layout) CellOrigin(p core.Point) Vec {
	return Vec{X: float64(p.X) * l.CellW, Y: float64(p.Y) * l.CellH}
}

// AgentCenter is where an agent standing on p is drawn. Agents are centred on
// the cell origin, matching the classic canvas layout.
func (l Layout) AgentCenter(p core.Point) Vec {
	return l.CellOrigin(p)
}

// AgentColor is the fill used for every agent.
var AgentColor = color.RGBA{R: 0x00, G: 0x00, B: 0x66, A: 0xff}

var sugarShades = [5]color.RGBA{
	{R: 0xff, G: 0x66, B: 0x66, A: 0xff},
	{R: 0xff, G: 0x33, B: 0x33, A: 0xff},
	{R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	{R: 0xcc, G: 0x00, B: 0x00, A: 0xff},
	{R: 0x99, G: 0x00, B: 0x00, A: 0xff},
}

// SugarColor maps a sugar level onto the five-shade red ramp, two levels per
// shade relative to a capacity ceiling of maxCapacity. Empty cells are
// transparent.
func SugarColor(level, maxCapacity int) color.RGBA {
	if level <= 0 || maxCapacity <= 0 {
		return color.RGBA{}
	}
	if level > maxCapacity {
		level = maxCapacity
	}
	shade := (level - 1) * len(sugarShades) / maxCapacity
	return sugarShades[shade]
}
