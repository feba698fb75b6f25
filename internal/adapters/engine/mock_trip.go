package engine

import (
	"math"
	"route-engine-client/internal/domain"

	"github.com/paulmach/orb/geo"
)

// tripOrder picks the mock visit order with a greedy nearest-neighbor walk
// over great-circle distance. The tour starts at the first point; when
// keepLast is set the last point is held back and visited last.
//
// It does not attempt global optimization. Ties go to the lower input
// index so the order is deterministic.
func tripOrder(points []domain.Coordinate, keepLast bool) []int {
	n := len(points)
	order := make([]int, 0, n)
	if n == 0 {
		return order
	}

	remaining := make(map[int]struct{}, n)
	for i := 1; i < n; i++ {
		remaining[i] = struct{}{}
	}
	if keepLast && n > 1 {
		delete(remaining, n-1)
	}

	current := 0
	order = append(order, current)
	for len(remaining) > 0 {
		best := -1
		bestDistance := math.Inf(1)
		for i := range remaining {
			d := geo.Distance(points[current].Point(), points[i].Point())
			if d < bestDistance || (d == bestDistance && i < best) {
				best, bestDistance = i, d
			}
		}

		order = append(order, best)
		delete(remaining, best)
		current = best
	}

	if keepLast && n > 1 {
		order = append(order, n-1)
	}
	return order
}

// visitPositions inverts order: the result gives each input point's
// position in the tour.
func visitPositions(order []int) []int {
	out := make([]int, len(order))
	for pos, i := range order {
		out[i] = pos
	}
	return out
}
