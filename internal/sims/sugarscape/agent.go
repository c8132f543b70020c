package sugarscape

import (
	"sugarscape/internal/core"
	prng "sugarscape/pkg/core"
)

// AgentID is an agent's creation index. IDs are never reused within a world.
type AgentID int

// Agent is a forager. Vision and Metabolism are fixed at creation; Wealth
// changes every tick and Alive flips to false once, the tick wealth goes
// negative.
type Agent struct {
	ID         AgentID
	Pos        core.Point
	Vision     int
	Metabolism int
	Wealth     int
	Alive      bool
}

// newAgent draws the traits in vision, metabolism, wealth order.
func newAgent(id AgentID, pos core.Point, rng *prng.RNG, p Params) *Agent {
	return &Agent{
		ID:         id,
		Pos:        pos,
		Vision:     rng.IntRange(1, p.MaxVision),
		Metabolism: rng.IntRange(1, p.MaxMetabolism),
		Wealth:     rng.IntRange(p.MinSugar, p.MaxSugar),
		Alive:      true,
	}
}
