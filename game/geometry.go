package game

import (
	"fmt"
	"math/rand"
)

// Slope guesses come in as k/1000, so the generated line's minimal lattice
// step is the reduced form of that fraction.
const SLOPE_SCALE = 1000
const MAX_SLOPE_DRAW = 5000

// A draw only fails when the reduced run is wider than the grid, so the cap
// exists to turn a broken grid configuration into a loud failure instead of
// a silent spin.
const MAX_GENERATE_ATTEMPTS = 10000

// Generator produces rounds for one grid size. Not safe for concurrent use;
// the registry only calls it while holding its own lock.
type Generator struct {
	gridMax int
	rng     *rand.Rand
}

func NewGenerator(gridMax int, rng *rand.Rand) *Generator {
	if gridMax <= 0 {
		panic(fmt.Sprintf("invalid grid size %d", gridMax))
	}
	return &Generator{gridMax: gridMax, rng: rng}
}

// Generate draws a random intercept and slope, then picks the alien uniformly
// among the lattice points of that line inside the grid. Rejection sampling:
// a slope whose reduced run doesn't fit the grid leaves no candidates and the
// whole draw is restarted.
func (g *Generator) Generate() Round {
	for attempt := 0; attempt < MAX_GENERATE_ATTEMPTS; attempt++ {
		intercept := g.rng.Intn(2*g.gridMax-1) - (g.gridMax - 1)

		k := 0
		for k == 0 {
			k = g.rng.Intn(2*MAX_SLOPE_DRAW+1) - MAX_SLOPE_DRAW
		}

		// Reduce k/1000 to lowest terms: (baseRun, baseRise) is the minimal
		// integer step between consecutive lattice points on the line.
		d := gcd(abs(k), SLOPE_SCALE)
		baseRun := SLOPE_SCALE / d
		baseRise := k / d

		candidates := latticeCandidates(g.gridMax, baseRun, baseRise, intercept)
		if len(candidates) == 0 {
			continue
		}

		return Round{
			Target:    candidates[g.rng.Intn(len(candidates))],
			Intercept: intercept,
		}
	}
	panic("round generation exhausted its retry cap")
}

// latticeCandidates walks multiples of the minimal step in both directions
// from the intercept and keeps every point inside [-gridMax, gridMax]^2.
// First occurrence wins on duplicates.
func latticeCandidates(gridMax, baseRun, baseRise, intercept int) []Point {
	var candidates []Point
	seen := make(map[Point]struct{})

	for n := 1; n <= 2*gridMax; n++ {
		for _, sign := range [2]int{1, -1} {
			p := Point{
				X: sign * n * baseRun,
				Y: sign*n*baseRise + intercept,
			}
			if abs(p.X) > gridMax || abs(p.Y) > gridMax {
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			candidates = append(candidates, p)
		}
	}

	return candidates
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
