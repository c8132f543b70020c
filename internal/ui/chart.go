package ui

import (
	"image"
	"math"

	"sugarscape/internal/sims/sugarscape"
)

// chartDef names one plotted metric of a run.
type chartDef struct {
	title  string
	metric func(sugarscape.Stats) float64
}

var charts = []chartDef{
	{"Population", sugarscape.MetricPopulation},
	{"Avg wealth", sugarscape.MetricAvgWealth},
	{"Avg vision", sugarscape.MetricAvgVision},
	{"Avg metabolism", sugarscape.MetricAvgMetabolism},
}

type plotPoint struct {
	X, Y float64
}

// valueRange returns the y-range a chart of values is drawn against. The
// range always includes zero and never collapses to a single value.
func valueRange(values []float64) (lo, hi float64) {
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		hi = lo + 1
	}
	return lo, hi
}

// chartPoints maps values onto rect: index along x, value along y with the
// smallest value at the bottom edge. A single value is drawn at the left.
func chartPoints(values []float64, rect image.Rectangle) []plotPoint {
	if len(values) == 0 || rect.Dx() <= 0 || rect.Dy() <= 0 {
		return nil
	}
	lo, hi := valueRange(values)
	w, h := float64(rect.Dx()), float64(rect.Dy())
	span := float64(len(values) - 1)
	out := make([]plotPoint, len(values))
	for i, v := range values {
		x := float64(rect.Min.X)
		if span > 0 {
			x += w * float64(i) / span
		}
		y := float64(rect.Max.Y) - h*(v-lo)/(hi-lo)
		out[i] = plotPoint{X: x, Y: y}
	}
	return out
}

// chartGrid splits area into a 2×2 grid of chart rectangles separated by gap.
func chartGrid(area image.Rectangle, gap int) []image.Rectangle {
	cw := (area.Dx() - gap) / 2
	ch := (area.Dy() - gap) / 2
	if cw <= 0 || ch <= 0 {
		return nil
	}
	out := make([]image.Rectangle, 0, 4)
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			x := area.Min.X + col*(cw+gap)
			y := area.Min.Y + row*(ch+gap)
			out = append(out, image.Rect(x, y, x+cw, y+ch))
		}
	}
	return out
}
