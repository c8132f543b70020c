//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"sugarscape/internal/sims/sugarscape"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Plots draws the run history as four line charts over the simulation view.
type Plots struct {
	series  *sugarscape.Series
	visible bool
	pixel   *ebiten.Image
}

// NewPlots returns a hidden chart overlay reading from series.
func NewPlots(series *sugarscape.Series) *Plots {
	p := &Plots{series: series}
	p.pixel = ebiten.NewImage(1, 1)
	p.pixel.Fill(color.White)
	return p
}

// Toggle shows or hides the charts.
func (p *Plots) Toggle() { p.visible = !p.visible }

// Visible reports whether the charts are shown.
func (p *Plots) Visible() bool { return p.visible }

// Draw paints the charts inside area when visible.
func (p *Plots) Draw(screen *ebiten.Image, area image.Rectangle) {
	if !p.visible || p.series == nil {
		return
	}
	p.fillRect(screen, area, color.RGBA{R: 250, G: 250, B: 252, A: 235})
	rects := chartGrid(area.Inset(plotMargin), plotMargin)
	for i, rect := range rects {
		p.drawChart(screen, rect, charts[i])
	}
}

func (p *Plots) drawChart(screen *ebiten.Image, rect image.Rectangle, def chartDef) {
	face := basicfont.Face7x13
	text.Draw(screen, def.title, face, rect.Min.X, rect.Min.Y+titleBaseline, color.RGBA{R: 30, G: 30, B: 40, A: 255})

	plot := image.Rect(rect.Min.X, rect.Min.Y+titleBaseline+6, rect.Max.X, rect.Max.Y)
	axis := color.RGBA{R: 90, G: 90, B: 100, A: 255}
	p.drawLine(screen, float64(plot.Min.X), float64(plot.Max.Y), float64(plot.Max.X), float64(plot.Max.Y), 1, axis)
	p.drawLine(screen, float64(plot.Min.X), float64(plot.Min.Y), float64(plot.Min.X), float64(plot.Max.Y), 1, axis)

	values := p.series.Column(def.metric)
	if len(values) == 0 {
		return
	}
	_, hi := valueRange(values)
	label := strconv.FormatFloat(hi, 'f', 1, 64)
	text.Draw(screen, label, face, plot.Max.X-text.BoundString(face, label).Dx(), plot.Min.Y+titleBaseline, axis)

	pts := chartPoints(values, plot)
	line := color.RGBA{R: 0x00, G: 0x00, B: 0x66, A: 255}
	for i := 1; i < len(pts); i++ {
		p.drawLine(screen, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, 1.5, line)
	}
}

func (p *Plots) fillRect(screen *ebiten.Image, rect image.Rectangle, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(p.pixel, op)
}

func (p *Plots) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 || thickness <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(p.pixel, op)
}

const (
	plotMargin    = 16
	titleBaseline = 13
)
