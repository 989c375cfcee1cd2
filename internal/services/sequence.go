package services

import (
	"crew-route-service/internal/domain"
	"slices"
)

// MaxTwoOptPasses bounds the improvement loop.
const MaxTwoOptPasses = 100

// RouteCost sums drive minutes from start through each stop in order.
// The route does not return to start.
func RouteCost(start string, stops []string, m *domain.DistanceMatrix) int {
	total := 0
	prev := start
	for _, s := range stops {
		total += m.Between(prev, s)
		prev = s
	}
	return total
}

// SequenceStops orders a team's stops with 2-opt: reverse any segment that
// lowers RouteCost, repeat until a full pass finds no improvement, capped at
// MaxTwoOptPasses. Costs are recomputed over the whole route, so asymmetric
// matrices are handled. Two or fewer stops come back unchanged.
func SequenceStops(stops []string, start string, m *domain.DistanceMatrix) []string {
	route := slices.Clone(stops)
	if len(route) <= 2 {
		return route
	}

	best := RouteCost(start, route, m)
	for pass := 0; pass < MaxTwoOptPasses; pass++ {
		improved := false
		for i := 0; i < len(route)-1; i++ {
			for j := i + 1; j < len(route); j++ {
				candidate := twoOptSwap(route, i, j)
				if c := RouteCost(start, candidate, m); c < best {
					route, best = candidate, c
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return route
}

// twoOptSwap returns a copy of route with [i..j] reversed.
func twoOptSwap(route []string, i, j int) []string {
	out := slices.Clone(route)
	slices.Reverse(out[i : j+1])
	return out
}
