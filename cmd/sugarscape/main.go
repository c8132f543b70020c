// Command sugarscape runs a world headless and reports its statistics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"sugarscape/internal/app"
	"sugarscape/internal/record"
	"sugarscape/internal/sims/sugarscape"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("run failed", "err", err)
		if errors.Is(err, sugarscape.ErrConfiguration) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	wc, err := cfg.World()
	if err != nil {
		return err
	}
	world, err := sugarscape.New(wc, sugarscape.WithLogger(logger))
	if err != nil {
		return err
	}

	rec, err := record.New(cfg.Record, cfg.RecordPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := rec.Close(); err != nil {
			logger.Error("close recorder", "err", err)
		}
	}()

	info := record.NewRunInfo(wc)
	if err := rec.Begin(ctx, info); err != nil {
		return fmt.Errorf("begin run: %w", err)
	}

	last, err := sugarscape.Run(ctx, world, wc.Ticks, func(st sugarscape.Stats) error {
		logger.Debug("tick",
			"tick", st.Tick,
			"population", st.Population,
			"deaths", st.Deaths,
			"avg_wealth", st.AvgWealth,
			"gini", st.Gini,
			"total_sugar", st.TotalSugar,
		)
		return rec.Record(ctx, st)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("run complete",
		"run", info.ID,
		"ticks", last.Tick,
		"population", last.Population,
		"deaths", last.Deaths,
		"avg_wealth", last.AvgWealth,
		"avg_vision", last.AvgVision,
		"avg_metabolism", last.AvgMetabolism,
		"gini", last.Gini,
		"record", cfg.Record,
	)
	fmt.Printf("tick=%d population=%d deaths=%d avg_wealth=%.2f gini=%.3f\n",
		last.Tick, last.Population, last.Deaths, last.AvgWealth, last.Gini)
	return nil
}
