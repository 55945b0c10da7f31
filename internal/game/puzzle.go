package game

import (
	"errors"
	"math/rand"
	"time"

	"github.com/mkirsch/shipgraph/internal/graph"
)

// ErrInsufficientData is returned when fewer than two distinct people
// exist in the graph, so no puzzle can be generated.
var ErrInsufficientData = errors.New("game: not enough people to generate a puzzle")

// Puzzle is a start/target pair for one game.
type Puzzle struct {
	Start  string `json:"start"`
	Target string `json:"target"`
	// Degraded is set when the sampling budget ran out and the pair is
	// a fallback that may not satisfy the difficulty constraints.
	Degraded bool `json:"degraded,omitempty"`
}

// Generator picks puzzle pairs from a graph. The random source is
// injectable so tests can seed it; it must not be shared across
// goroutines.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator backed by rng, or a time-seeded one
// when rng is nil.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// Generate samples start/target pairs uniformly from the people in g
// until one satisfies the difficulty constraints: not directly
// connected, and shortest path length within [MinPathLen, MaxPathLen].
// When the sampling budget is exhausted it falls back to the first two
// distinct people in enumeration order and marks the puzzle Degraded;
// the fallback pair may be adjacent or even unreachable, which is a
// deliberately weak guarantee so that generation always terminates.
func (gen *Generator) Generate(g *graph.Graph, s Settings) (Puzzle, error) {
	s = s.withDefaults()
	people := g.People()
	if len(people) < 2 {
		return Puzzle{}, ErrInsufficientData
	}

	for i := 0; i < s.MaxSamples; i++ {
		start := people[gen.rng.Intn(len(people))]
		target := people[gen.rng.Intn(len(people))]
		if start == target {
			continue
		}
		if g.AreConnected(start, target) {
			continue
		}
		path := g.ShortestPath(start, target)
		if path == nil {
			continue
		}
		if len(path) < s.MinPathLen || len(path) > s.MaxPathLen {
			continue
		}
		return Puzzle{Start: start, Target: target}, nil
	}

	return Puzzle{Start: people[0], Target: people[1], Degraded: true}, nil
}
