//go:build !ebiten

package ui

import "sugarscape/internal/sims/sugarscape"

// Plots is a no-op placeholder used when the ebiten build tag is absent.
type Plots struct{ visible bool }

// NewPlots constructs a stub chart overlay.
func NewPlots(*sugarscape.Series) *Plots { return &Plots{} }

// Toggle flips visibility; nothing is drawn in headless builds.
func (p *Plots) Toggle() { p.visible = !p.visible }

// Visible reports the toggle state.
func (p *Plots) Visible() bool { return p.visible }

// Draw is a no-op placeholder.
func (p *Plots) Draw(any, any) {}
