package geometry

import (
	"closest-pair/internal/domain"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomSorted(n int, seed uint64) []domain.Point {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	points := make([]domain.Point, n)
	for i := range points {
		points[i] = domain.Point{X: rng.Float64() * 1000, Y: rng.Float64() * 1000}
	}
	SortByX(points)
	return points
}

func TestDist(t *testing.T) {
	assert.InDelta(t, 5.0, Dist(domain.Point{X: 0, Y: 0}, domain.Point{X: 3, Y: 4}), 1e-12)
	assert.Equal(t, 0.0, Dist(domain.Point{X: 1, Y: 1}, domain.Point{X: 1, Y: 1}))
}

func TestSerialClosestMatchesBruteForce(t *testing.T) {
	serial := NewSerial()
	for _, n := range []int{2, 3, 4, 5, 7, 16, 33, 100, 257} {
		for seed := uint64(1); seed <= 5; seed++ {
			points := randomSorted(n, seed)
			assert.Equal(t, BruteForce(points), serial.Closest(points), "n=%d seed=%d", n, seed)
		}
	}
}

func TestSerialClosestSmallInputs(t *testing.T) {
	serial := NewSerial()

	assert.True(t, math.IsInf(serial.Closest(nil), 1))
	assert.True(t, math.IsInf(serial.Closest([]domain.Point{{X: 1, Y: 2}}), 1))
	assert.Equal(t, 0.0, serial.Closest([]domain.Point{{X: 1, Y: 2}, {X: 1, Y: 2}}))
}

func TestSerialClosestVerticalLine(t *testing.T) {
	// Every point shares the dividing x, so the whole range ends up in the strip.
	points := make([]domain.Point, 20)
	for i := range points {
		points[i] = domain.Point{X: 5, Y: float64(i * i)}
	}
	assert.Equal(t, 1.0, NewSerial().Closest(points))
}

func TestBuildStrip(t *testing.T) {
	points := []domain.Point{
		{X: 0, Y: 9}, {X: 3, Y: 1}, {X: 4, Y: 7}, {X: 5, Y: 0},
		{X: 6, Y: 3}, {X: 7, Y: 2}, {X: 10, Y: 5},
	}

	strip := BuildStrip(points, 5, 2)
	assert.Equal(t, []domain.Point{{X: 4, Y: 7}, {X: 5, Y: 0}, {X: 6, Y: 3}}, strip)

	t.Run("bound is strict", func(t *testing.T) {
		strip := BuildStrip(points, 5, 1)
		assert.Equal(t, []domain.Point{{X: 5, Y: 0}}, strip)
	})

	t.Run("does not alias input", func(t *testing.T) {
		strip := BuildStrip(points, 5, 100)
		require.Len(t, strip, len(points))
		strip[0].X = -1
		assert.Equal(t, 0.0, points[0].X)
	})
}

func TestStripClosest(t *testing.T) {
	serial := NewSerial()

	t.Run("returns bound when nothing is closer", func(t *testing.T) {
		strip := []domain.Point{{X: 0, Y: 0}, {X: 0, Y: 10}}
		assert.Equal(t, 3.0, serial.StripClosest(strip, 3))
	})

	t.Run("finds pair across line", func(t *testing.T) {
		strip := []domain.Point{{X: 4.5, Y: 8}, {X: 4.8, Y: 1}, {X: 5.2, Y: 1.1}}
		assert.InDelta(t, math.Hypot(0.4, 0.1), serial.StripClosest(strip, 2), 1e-12)
	})

	t.Run("leaves strip order alone", func(t *testing.T) {
		strip := []domain.Point{{X: 1, Y: 5}, {X: 2, Y: 1}}
		serial.StripClosest(strip, 10)
		assert.Equal(t, []domain.Point{{X: 1, Y: 5}, {X: 2, Y: 1}}, strip)
	})
}

func TestSortByX(t *testing.T) {
	points := []domain.Point{{X: 3, Y: 0}, {X: 1, Y: 2}, {X: 1, Y: 1}, {X: 2, Y: 0}}
	assert.False(t, IsSortedByX(points))

	SortByX(points)
	assert.True(t, IsSortedByX(points))
	assert.Equal(t, []domain.Point{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 0}, {X: 3, Y: 0}}, points)
}
