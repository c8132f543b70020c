// Command sugarscape-sweep runs a grid of population × radius × seed
// scenarios in parallel and ranks them by surviving population.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"sugarscape/internal/record"
	"sugarscape/internal/sims/sugarscape"
)

type paramSet struct {
	population int
	radius     int
	seed       int64
}

func (p paramSet) String() string {
	return fmt.Sprintf("population=%d radius=%d seed=%d", p.population, p.radius, p.seed)
}

type scenarioResult struct {
	params    paramSet
	config    sugarscape.Config
	last      sugarscape.Stats
	extinctAt int
	peakGini  float64
	history   sugarscape.Series
	err       error
}

func main() {
	ticks := flag.Int("ticks", 100, "ticks to simulate per scenario")
	grid := flag.Int("grid", 50, "grid size")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	pops := flag.String("populations", "100,200,300,400", "comma-separated initial populations")
	radii := flag.String("radii", "200,250,300,350,400", "comma-separated peak radii")
	seeds := flag.Int("seeds", 3, "seeds per parameter combination")
	top := flag.Int("top", 10, "results to print")
	dbPath := flag.String("db", "", "optional SQLite file receiving every scenario's history")
	flag.Parse()

	popOptions, err := parseInts(*pops)
	if err != nil {
		fmt.Fprintln(os.Stderr, "populations:", err)
		os.Exit(2)
	}
	radiusOptions, err := parseInts(*radii)
	if err != nil {
		fmt.Fprintln(os.Stderr, "radii:", err)
		os.Exit(2)
	}

	base := sugarscape.DefaultConfig()
	base.GridSize = *grid
	base.Ticks = *ticks

	sets := buildSets(popOptions, radiusOptions, *seeds)
	fmt.Printf("Sweeping %d scenarios (%d workers, %d ticks)\n", len(sets), *workers, *ticks)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	jobs := make(chan paramSet)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				results <- runScenario(base, params, quiet)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	var db *record.SQLite
	if *dbPath != "" {
		db, err = record.OpenSQLite(*dbPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer db.Close()
	}

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		if res.err != nil {
			fmt.Printf("skipped %s: %v\n", res.params, res.err)
			continue
		}
		if db != nil {
			if err := store(db, res); err != nil {
				fmt.Fprintln(os.Stderr, "record:", err)
			}
		}
		all = append(all, res)
	}

	rank(all)
	elapsed := time.Since(start)

	fmt.Printf("\nTop %d results (elapsed %s):\n", min(*top, len(all)), elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < *top; i++ {
		res := all[i]
		fmt.Printf("%2d) survivors=%d deaths=%d avgWealth=%.2f gini=%.3f peakGini=%.3f extinct=%d %s\n",
			i+1, res.last.Population, res.last.Deaths, res.last.AvgWealth, res.last.Gini, res.peakGini, res.extinctAt, res.params)
	}
}

func buildSets(populations, radii []int, seeds int) []paramSet {
	var sets []paramSet
	for _, pop := range populations {
		for _, radius := range radii {
			for s := 1; s <= seeds; s++ {
				sets = append(sets, paramSet{population: pop, radius: radius, seed: int64(s)})
			}
		}
	}
	return sets
}

func runScenario(base sugarscape.Config, params paramSet, log *slog.Logger) scenarioResult {
	cfg := base
	cfg.Population = params.population
	cfg.Radius = params.radius
	cfg.Seed = params.seed

	res := scenarioResult{params: params, config: cfg}
	world, err := sugarscape.New(cfg, sugarscape.WithLogger(log))
	if err != nil {
		res.err = err
		return res
	}
	res.last, res.err = sugarscape.Run(context.Background(), world, cfg.Ticks, func(st sugarscape.Stats) error {
		res.history.Add(st)
		res.peakGini = max(res.peakGini, st.Gini)
		if st.Population == 0 {
			res.extinctAt = st.Tick
		}
		return nil
	})
	return res
}

// rank orders results by survivors, then average wealth, then lower Gini.
func rank(all []scenarioResult) {
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].last, all[j].last
		if a.Population != b.Population {
			return a.Population > b.Population
		}
		if a.AvgWealth != b.AvgWealth {
			return a.AvgWealth > b.AvgWealth
		}
		return a.Gini < b.Gini
	})
}

func store(db *record.SQLite, res scenarioResult) error {
	ctx := context.Background()
	if err := db.Begin(ctx, record.NewRunInfo(res.config)); err != nil {
		return err
	}
	for _, st := range res.history.Points {
		if err := db.Record(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func parseInts(list string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list %q", list)
	}
	return out, nil
}
