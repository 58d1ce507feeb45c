package geometry

import (
	"closest-pair/internal/domain"
	"math"
)

// Serial is the single-threaded closest pair solver. It implements both
// domain.SequentialSolver and domain.StripMerger.
type Serial struct{}

func NewSerial() *Serial {
	return &Serial{}
}

// Closest runs the classic divide-and-conquer on points sorted by X.
func (s *Serial) Closest(points []domain.Point) float64 {
	n := len(points)
	if n <= 3 {
		return BruteForce(points)
	}

	mid := n / 2
	midX := points[mid].X

	d := math.Min(s.Closest(points[:mid]), s.Closest(points[mid:]))

	strip := BuildStrip(points, midX, d)
	return math.Min(d, s.StripClosest(strip, d))
}

// StripClosest returns the smallest distance between points of the strip that
// is below d, or d when there is none. The strip is not modified.
func (s *Serial) StripClosest(strip []domain.Point, d float64) float64 {
	byY := SortedByY(strip)

	best := d
	for i := range byY {
		for j := i + 1; j < len(byY) && byY[j].Y-byY[i].Y < best; j++ {
			best = math.Min(best, Dist(byY[i], byY[j]))
		}
	}
	return best
}
