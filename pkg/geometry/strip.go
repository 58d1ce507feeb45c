package geometry

import (
	"closest-pair/internal/domain"
	"math"
	"slices"
)

// BuildStrip returns a new slice with the points whose horizontal distance to
// midX is strictly less than d, in their original order.
func BuildStrip(points []domain.Point, midX, d float64) []domain.Point {
	strip := make([]domain.Point, 0, len(points))
	for _, p := range points {
		if math.Abs(p.X-midX) < d {
			strip = append(strip, p)
		}
	}
	return strip
}

// SortedByY returns a copy of points ordered by ascending Y.
func SortedByY(points []domain.Point) []domain.Point {
	byY := slices.Clone(points)
	slices.SortStableFunc(byY, compareY)
	return byY
}
