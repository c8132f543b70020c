//go:build ebiten

package app

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	"sugarscape/internal/core"
	"sugarscape/internal/record"
	"sugarscape/internal/render"
	"sugarscape/internal/sims/sugarscape"
	"sugarscape/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const hudWidth = 260

// Game adapts a sugarscape world to the ebiten.Game interface.
type Game struct {
	world   *sugarscape.World
	scene   *render.Scene
	painter *render.Painter
	hud     *ui.HUD
	plots   *ui.Plots
	series  sugarscape.Series
	clock   *core.FixedStep
	rec     record.Recorder
	log     *slog.Logger

	scale     float64
	remaining int
	paused    bool
	tickOnce  bool
}

// New builds the world for cfg and a Game that displays it. Every
// initialisation begins a new run on rec, which then receives the statistics
// of each tick.
func New(cfg sugarscape.Config, scale float64, tps int, log *slog.Logger, rec record.Recorder) (*Game, error) {
	if scale <= 0 {
		scale = 1
	}
	if log == nil {
		log = slog.Default()
	}
	if rec == nil {
		rec = record.NewMemory()
	}
	scene := render.NewScene(sugarscape.NewLayout(cfg.Width, cfg.Height, cfg.GridSize))
	world, err := sugarscape.New(cfg, sugarscape.WithRenderer(scene), sugarscape.WithLogger(log))
	if err != nil {
		return nil, err
	}
	g := &Game{
		world:   world,
		scene:   scene,
		painter: render.NewPainter(),
		hud:     ui.NewHUD(world, hudWidth),
		clock:   core.NewFixedStep(tps),
		rec:     rec,
		log:     log,
		scale:   scale,
	}
	g.plots = ui.NewPlots(&g.series)
	if err := g.begin(); err != nil {
		return nil, err
	}
	return g, nil
}

// Initialise rebuilds the world from the pending HUD settings. A zero seed
// keeps the configured one.
func (g *Game) Initialise(seed int64) error {
	p := g.world.Pending()
	g.scene.Reset(sugarscape.NewLayout(p.Width, p.Height, p.GridSize))
	g.world.Reset(seed)
	g.remaining = 0
	g.tickOnce = false
	return g.begin()
}

func (g *Game) begin() error {
	g.series.Reset()
	g.series.Add(g.world.Stats())
	g.refreshStatus()
	if err := g.rec.Begin(context.Background(), record.NewRunInfo(g.world.Config())); err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.remaining = g.world.Pending().Ticks
		g.paused = false
		g.clock.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.Initialise(0); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.Initialise(time.Now().UnixNano()); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.plots.Toggle()
	}

	g.hud.Update(g.viewWidth())

	if g.tickOnce {
		g.tickOnce = false
		if err := g.step(); err != nil {
			return err
		}
	} else if !g.paused && g.remaining > 0 {
		for n := min(g.clock.Due(), g.remaining); n > 0; n-- {
			if err := g.step(); err != nil {
				return err
			}
		}
	}
	g.refreshStatus()
	return nil
}

func (g *Game) step() error {
	g.world.Step()
	st := g.world.Stats()
	g.series.Add(st)
	if g.remaining > 0 {
		g.remaining--
	}
	if st.Population == 0 && g.remaining > 0 {
		g.log.Info("population extinct", "tick", st.Tick)
		g.remaining = 0
	}
	return g.rec.Record(context.Background(), st)
}

func (g *Game) refreshStatus() {
	st := g.world.Stats()
	state := "idle"
	switch {
	case g.remaining > 0 && g.paused:
		state = "paused"
	case g.remaining > 0:
		state = fmt.Sprintf("running (%d left)", g.remaining)
	}
	g.hud.SetStatus(
		fmt.Sprintf("Tick       %d", st.Tick),
		fmt.Sprintf("State      %s", state),
		fmt.Sprintf("Agents     %d", st.Population),
		fmt.Sprintf("Deaths     %d", st.Deaths),
		fmt.Sprintf("Avg wealth %.2f", st.AvgWealth),
		fmt.Sprintf("Gini       %.3f", st.Gini),
		"",
		"Enter run  Space pause  N step",
		"R init  S reseed  P plots  Q quit",
	)
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	g.painter.Draw(screen, g.scene, 0, 0, g.scale)
	_, h := g.Layout(0, 0)
	g.hud.Draw(screen, g.viewWidth(), h)
	g.plots.Draw(screen, image.Rect(0, 0, g.viewWidth(), g.viewHeight()))
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.viewWidth() + hudWidth, max(g.viewHeight(), 480)
}

func (g *Game) viewWidth() int {
	w, _ := g.scene.Bounds()
	return int(float64(w) * g.scale)
}

func (g *Game) viewHeight() int {
	_, h := g.scene.Bounds()
	return int(float64(h) * g.scale)
}
