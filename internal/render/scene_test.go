package render

import (
	"image/color"
	"io"
	"log/slog"
	"math"
	"testing"

	"sugarscape/internal/sims/sugarscape"
)

func pixelAt(buf []byte, w, x, y int) color.RGBA {
	base := (y*w + x) * 4
	return color.RGBA{R: buf[base], G: buf[base+1], B: buf[base+2], A: buf[base+3]}
}

func TestSceneTracksItems(t *testing.T) {
	s := NewScene(sugarscape.NewLayout(100, 100, 10))
	red := color.RGBA{R: 200, A: 255}
	s.DrawCell(3, sugarscape.Vec{X: 30, Y: 0}, red)
	s.DrawAgent(7, sugarscape.Vec{X: 50, Y: 50}, sugarscape.AgentColor)

	s.UpdateCellColor(3, color.RGBA{})
	if c, ok := s.CellColor(3); !ok || c != (color.RGBA{}) {
		t.Fatalf("cell colour %v, %v", c, ok)
	}
	s.UpdateCellColor(99, red)
	if _, ok := s.CellColor(99); ok {
		t.Fatal("updating an undrawn cell should not create it")
	}

	s.MoveAgent(7, 10, -20)
	if c, _ := s.AgentCenter(7); c.X != 60 || c.Y != 30 {
		t.Fatalf("agent centre %+v, want (60,30)", c)
	}
	s.RemoveAgent(7)
	s.MoveAgent(7, 1, 1)
	if s.AgentCount() != 0 {
		t.Fatal("removed agent should stay gone")
	}

	s.Clear()
	if s.CellCount() != 0 {
		t.Fatal("Clear should drop cells")
	}
}

func TestSceneRasterize(t *testing.T) {
	s := NewScene(sugarscape.NewLayout(40, 40, 4))
	red := color.RGBA{R: 255, A: 255}
	s.DrawCell(0, sugarscape.Vec{X: 0, Y: 0}, red)
	s.DrawCell(1, sugarscape.Vec{X: 10, Y: 0}, color.RGBA{})
	s.DrawAgent(0, sugarscape.Vec{X: 25, Y: 25}, sugarscape.AgentColor)

	w, h := s.Bounds()
	if w != 40 || h != 40 {
		t.Fatalf("bounds %dx%d", w, h)
	}
	buf := make([]byte, 4*w*h)
	s.Rasterize(buf)

	if got := pixelAt(buf, w, 5, 5); got != red {
		t.Fatalf("cell pixel %v, want %v", got, red)
	}
	if got := pixelAt(buf, w, 15, 5); got != Background {
		t.Fatalf("transparent cell should show background, got %v", got)
	}
	if got := pixelAt(buf, w, 25, 25); got != sugarscape.AgentColor {
		t.Fatalf("agent centre pixel %v", got)
	}
	if got := pixelAt(buf, w, 20, 20); got != Background {
		t.Fatalf("disc corner should stay background, got %v", got)
	}

	s.Rasterize(buf[:8])
}

func TestSceneMirrorsWorld(t *testing.T) {
	cfg := sugarscape.DefaultConfig()
	cfg.GridSize = 20
	cfg.Population = 60
	scene := NewScene(sugarscape.NewLayout(cfg.Width, cfg.Height, cfg.GridSize))
	w, err := sugarscape.New(cfg,
		sugarscape.WithRenderer(scene),
		sugarscape.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatal(err)
	}

	for tick := 0; tick < 15; tick++ {
		w.Step()
		if scene.AgentCount() != w.LiveAgentCount() {
			t.Fatalf("tick %d: scene has %d agents, world %d", w.Tick(), scene.AgentCount(), w.LiveAgentCount())
		}
		layout := w.Layout()
		for _, a := range w.Agents() {
			got, ok := scene.AgentCenter(a.ID)
			want := layout.AgentCenter(a.Pos)
			if !ok || math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.Y-want.Y) > 1e-6 {
				t.Fatalf("tick %d: agent %d drawn at %+v, stands at %+v", w.Tick(), a.ID, got, want)
			}
		}
		for _, c := range w.Cells() {
			got, ok := scene.CellColor(c.ID)
			if c.Capacity == 0 {
				if ok {
					t.Fatalf("barren cell %v should not be drawn", c.Pos)
				}
				continue
			}
			if want := sugarscape.SugarColor(c.Sugar, cfg.Params.MaxCapacity); got != want {
				t.Fatalf("tick %d: cell %v colour %v, want %v", w.Tick(), c.Pos, got, want)
			}
		}
	}
}
