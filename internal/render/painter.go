//go:build ebiten

package render

import "github.com/hajimehoshi/ebiten/v2"

// Painter uploads a rasterized Scene to the GPU and blits it to the screen.
type Painter struct {
	img *ebiten.Image
	buf []byte
	w   int
	h   int
}

// NewPainter returns a painter with no backing image; it is sized on first use.
func NewPainter() *Painter { return &Painter{} }

// Draw rasterizes scene and draws it at (offsetX, offsetY) scaled by scale.
func (p *Painter) Draw(screen *ebiten.Image, scene *Scene, offsetX, offsetY, scale float64) {
	w, h := scene.Bounds()
	if w <= 0 || h <= 0 {
		return
	}
	if p.img == nil || p.w != w || p.h != h {
		p.img = ebiten.NewImage(w, h)
		p.buf = make([]byte, 4*w*h)
		p.w, p.h = w, h
	}
	scene.Rasterize(p.buf)
	p.img.ReplacePixels(p.buf)

	if scale <= 0 {
		scale = 1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(p.img, op)
}
