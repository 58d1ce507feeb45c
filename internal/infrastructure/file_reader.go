package infrastructure

import (
	"bufio"
	"closest-pair/internal/domain"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type TXTFileReader struct {
	logger *zap.Logger
}

func NewTXTFileReader(logger *zap.Logger) *TXTFileReader {
	return &TXTFileReader{logger: logger}
}

// ReadPoints reads one point per line. Coordinates are separated by blanks or
// a comma; empty lines and lines starting with '#' are skipped.
func (r *TXTFileReader) ReadPoints(filename string) ([]domain.Point, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var points []domain.Point
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.FieldsFunc(text, func(c rune) bool {
			return c == ',' || c == ' ' || c == '\t'
		})
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: expected 2 coordinates, got %d",
				domain.ErrInvalidFileFormat, line, len(fields))
		}

		x, err := parseCoordinate(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		y, err := parseCoordinate(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, domain.Point{X: x, Y: y})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug("Points read", zap.String("file", filename), zap.Int("count", len(points)))
	return points, nil
}

func parseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidPoint, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", domain.ErrInvalidPoint, s)
	}
	return v, nil
}

// RandomPoints returns n points uniformly distributed in [0, 10n) x [0, 10n).
// The same seed gives the same points.
func RandomPoints(n int, seed int64) []domain.Point {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)) //nolint:gosec
	side := float64(10 * n)

	points := make([]domain.Point, n)
	for i := range points {
		points[i] = domain.Point{X: rng.Float64() * side, Y: rng.Float64() * side}
	}
	return points
}
