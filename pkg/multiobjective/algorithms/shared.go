package algorithms

import (
	"math"
	"sort"

	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

// Dominates checks if point a dominates point b under the maximize-all
// convention: a is no worse in every objective and strictly better in at
// least one. Equal points dominate in neither direction.
func Dominates(a, b framework.ObjectiveSpacePoint) bool {
	better := false
	for i := 0; i < len(a); i++ {
		if a[i] < b[i] {
			return false
		}
		if a[i] > b[i] {
			better = true
		}
	}
	return better
}

// NonDominatedSort partitions the points into Pareto fronts of indices:
// front 0 is the non-dominated set, front k holds points dominated only by
// members of fronts < k. The fronts are pairwise disjoint and their union is
// the full input index set.
//
// The pairwise domination pass costs O(numObjectives * M^2) comparisons for M
// points. That quadratic term is the scaling bottleneck of the whole
// algorithm, which is why the caller evaluates once per generation into a
// cached matrix and population sizes stay moderate.
func NonDominatedSort(points []framework.ObjectiveSpacePoint) [][]int {
	var fronts [][]int
	dominated := make([][]int, len(points))
	domCount := make([]int, len(points))

	// Calculate domination for each individual
	for i := 0; i < len(points); i++ {
		for j := 0; j < len(points); j++ {
			if i != j {
				if Dominates(points[i], points[j]) {
					dominated[i] = append(dominated[i], j)
				} else if Dominates(points[j], points[i]) {
					domCount[i]++
				}
			}
		}
	}

	// Find first front
	var currentFront []int
	for i := 0; i < len(points); i++ {
		if domCount[i] == 0 {
			currentFront = append(currentFront, i)
		}
	}
	fronts = append(fronts, currentFront)

	// Find subsequent fronts
	for len(currentFront) > 0 {
		var nextFront []int
		for _, idx := range currentFront {
			for _, dominatedIdx := range dominated[idx] {
				domCount[dominatedIdx]--
				if domCount[dominatedIdx] == 0 {
					nextFront = append(nextFront, dominatedIdx)
				}
			}
		}
		if len(nextFront) > 0 {
			fronts = append(fronts, nextFront)
		}
		currentFront = nextFront
	}

	return fronts
}

// CrowdingDistance computes the diversity metric for one front, returned
// aligned with the front slice. Boundary members of every objective get +Inf;
// interior members accumulate the normalized neighbour gap per objective.
// Fronts with two or fewer members are all +Inf.
func CrowdingDistance(front []int, points []framework.ObjectiveSpacePoint) []float64 {
	distance := make([]float64, len(front))
	if len(front) <= 2 {
		for i := range distance {
			distance[i] = math.Inf(1)
		}
		return distance
	}

	numObjectives := len(points[front[0]])
	order := make([]int, len(front))

	for m := 0; m < numObjectives; m++ {
		// Sort front positions by the m-th objective
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(i, j int) bool {
			return points[front[order[i]]][m] < points[front[order[j]]][m]
		})

		// Boundary points are always kept
		distance[order[0]] = math.Inf(1)
		distance[order[len(order)-1]] = math.Inf(1)

		objectiveRange := points[front[order[len(order)-1]]][m] - points[front[order[0]]][m]
		if objectiveRange == 0 {
			continue
		}

		for i := 1; i < len(order)-1; i++ {
			next := points[front[order[i+1]]][m]
			prev := points[front[order[i-1]]][m]
			distance[order[i]] += (next - prev) / objectiveRange
		}
	}

	return distance
}

// rankAndDistance flattens the per-front rank and crowding distance into
// arrays indexed by population position. Both are transient per-generation
// bookkeeping and are never stored on the solutions themselves.
func rankAndDistance(fronts [][]int, points []framework.ObjectiveSpacePoint) (ranks []int, dists []float64) {
	ranks = make([]int, len(points))
	dists = make([]float64, len(points))
	for r, front := range fronts {
		d := CrowdingDistance(front, points)
		for i, idx := range front {
			ranks[idx] = r
			dists[idx] = d[i]
		}
	}
	return ranks, dists
}

// selectNextGeneration truncates the combined pool to n survivors: whole
// fronts in rank order while they fit, then the overflowing front by
// descending crowding distance. Ties break on the lower index so a fixed seed
// reproduces the run exactly.
func selectNextGeneration(fronts [][]int, points []framework.ObjectiveSpacePoint, n int) []int {
	next := make([]int, 0, n)
	for _, front := range fronts {
		if len(next)+len(front) <= n {
			next = append(next, front...)
			continue
		}

		remaining := n - len(next)
		if remaining == 0 {
			break
		}
		d := CrowdingDistance(front, points)
		byDistance := make([]int, len(front))
		for i := range byDistance {
			byDistance[i] = i
		}
		sort.Slice(byDistance, func(i, j int) bool {
			a, b := byDistance[i], byDistance[j]
			if d[a] != d[b] {
				return d[a] > d[b]
			}
			return front[a] < front[b]
		})
		for _, pos := range byDistance[:remaining] {
			next = append(next, front[pos])
		}
		break
	}
	return next
}
