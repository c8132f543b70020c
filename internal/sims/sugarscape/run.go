package sugarscape

import "context"

// Run advances w by up to ticks steps, calling observe with the statistics
// after each one. It stops early once the population is extinct, when
// observe fails, or when ctx is done; ctx is only checked between ticks.
// The returned Stats describe the last completed tick.
func Run(ctx context.Context, w *World, ticks int, observe func(Stats) error) (Stats, error) {
	last := w.Stats()
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		w.Step()
		last = w.Stats()
		if observe != nil {
			if err := observe(last); err != nil {
				return last, err
			}
		}
		if last.Population == 0 {
			w.log.Info("population extinct", "tick", last.Tick)
			break
		}
	}
	return last, nil
}
