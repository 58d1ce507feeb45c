package geometry

import (
	"closest-pair/internal/domain"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Dist returns the Euclidean distance between p and q.
func Dist(p, q domain.Point) float64 {
	return r2.Norm(r2.Sub(r2.Vec(p), r2.Vec(q)))
}

// BruteForce compares every pair. It returns +Inf for fewer than two points.
func BruteForce(points []domain.Point) float64 {
	best := math.Inf(1)
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			best = math.Min(best, Dist(points[i], points[j]))
		}
	}
	return best
}

// SortByX sorts points in place by ascending X, breaking ties by Y.
func SortByX(points []domain.Point) {
	slices.SortFunc(points, compareX)
}

// IsSortedByX reports whether points are ordered by ascending X.
func IsSortedByX(points []domain.Point) bool {
	for i := 1; i < len(points); i++ {
		if points[i].X < points[i-1].X {
			return false
		}
	}
	return true
}

func compareX(a, b domain.Point) int {
	switch {
	case a.X < b.X:
		return -1
	case a.X > b.X:
		return 1
	case a.Y < b.Y:
		return -1
	case a.Y > b.Y:
		return 1
	}
	return 0
}

func compareY(a, b domain.Point) int {
	switch {
	case a.Y < b.Y:
		return -1
	case a.Y > b.Y:
		return 1
	}
	return 0
}
