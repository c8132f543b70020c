package sugarscape

import "sort"

// Stats summarises the world after a tick. Averages are over live agents and
// zero when the population is empty.
type Stats struct {
	Tick          int     `json:"tick"`
	Population    int     `json:"population"`
	Deaths        int     `json:"deaths"`
	TotalWealth   int     `json:"total_wealth"`
	AvgWealth     float64 `json:"avg_wealth"`
	AvgVision     float64 `json:"avg_vision"`
	AvgMetabolism float64 `json:"avg_metabolism"`
	Gini          float64 `json:"gini"`
	TotalSugar    int     `json:"total_sugar"`
}

// Stats computes the current statistics.
func (w *World) Stats() Stats {
	s := Stats{
		Tick:       w.tick,
		Deaths:     w.deaths,
		TotalSugar: w.field.totalSugar(),
	}
	wealth := make([]int, 0, len(w.agents))
	vision, metabolism := 0, 0
	for _, a := range w.agents {
		if !a.Alive {
			continue
		}
		wealth = append(wealth, a.Wealth)
		s.TotalWealth += a.Wealth
		vision += a.Vision
		metabolism += a.Metabolism
	}
	s.Population = len(wealth)
	if s.Population == 0 {
		return s
	}
	n := float64(s.Population)
	s.AvgWealth = float64(s.TotalWealth) / n
	s.AvgVision = float64(vision) / n
	s.AvgMetabolism = float64(metabolism) / n
	s.Gini = Gini(wealth)
	return s
}

// Gini returns the Gini coefficient of the given non-negative amounts: 0 for
// perfect equality, approaching 1 when one holder owns everything.
func Gini(amounts []int) float64 {
	n := len(amounts)
	if n < 2 {
		return 0
	}
	sorted := append([]int(nil), amounts...)
	sort.Ints(sorted)
	var total, weighted float64
	for i, v := range sorted {
		total += float64(v)
		weighted += float64(i+1) * float64(v)
	}
	if total <= 0 {
		return 0
	}
	fn := float64(n)
	return (2*weighted)/(fn*total) - (fn+1)/fn
}

// Series is the per-tick history of a run.
type Series struct {
	Points []Stats
}

// Add appends one observation.
func (s *Series) Add(st Stats) { s.Points = append(s.Points, st) }

// Reset drops the history.
func (s *Series) Reset() { s.Points = s.Points[:0] }

// Len is the number of observations.
func (s *Series) Len() int { return len(s.Points) }

// Column extracts one metric as a float slice, in tick order.
func (s *Series) Column(metric func(Stats) float64) []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = metric(p)
	}
	return out
}

// Metric extractors for Series.Column.
var (
	MetricPopulation    = func(s Stats) float64 { return float64(s.Population) }
	MetricAvgWealth     = func(s Stats) float64 { return s.AvgWealth }
	MetricAvgVision     = func(s Stats) float64 { return s.AvgVision }
	MetricAvgMetabolism = func(s Stats) float64 { return s.AvgMetabolism }
)
