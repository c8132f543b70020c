//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"sugarscape/internal/app"
	"sugarscape/internal/record"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	cfg.BindGUI(flag.CommandLine)
	flag.Parse()

	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	wc, err := cfg.World()
	if err != nil {
		log.Fatal(err)
	}

	rec, err := record.New(cfg.Record, cfg.RecordPath)
	if err != nil {
		log.Fatal(err)
	}
	defer rec.Close()

	game, err := app.New(wc, cfg.Scale, cfg.TPS, logger, rec)
	if err != nil {
		log.Fatal(err)
	}

	w, h := game.Layout(0, 0)
	ebiten.SetWindowTitle("sugarscape")
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
