package app

import (
	"closest-pair/internal/domain"
	"closest-pair/pkg/geometry"
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var sides = [2]string{"left", "right"}

// ParallelSolver is the divide-and-conquer closest pair solver that hands the
// two halves of every split to isolated workers until the depth budget runs
// out.
type ParallelSolver struct {
	logger     *zap.Logger
	spawner    domain.Spawner
	sequential domain.SequentialSolver
	strip      domain.StripMerger
}

type Option func(*ParallelSolver)

// WithSequential replaces the solver used for the base case.
func WithSequential(s domain.SequentialSolver) Option {
	return func(p *ParallelSolver) { p.sequential = s }
}

// WithStripMerger replaces the merge step.
func WithStripMerger(m domain.StripMerger) Option {
	return func(p *ParallelSolver) { p.strip = m }
}

func NewParallelSolver(logger *zap.Logger, spawner domain.Spawner, opts ...Option) *ParallelSolver {
	serial := geometry.NewSerial()
	s := &ParallelSolver{
		logger:     logger,
		spawner:    spawner,
		sequential: serial,
		strip:      serial,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve returns the minimum distance between any two of points, which must be
// sorted by X, together with the number of workers created below this call.
func (s *ParallelSolver) Solve(ctx context.Context, points []domain.Point, depth int) (domain.Result, error) {
	if depth < 0 {
		return domain.Result{}, fmt.Errorf("%w: %d", domain.ErrNegativeDepth, depth)
	}
	if !geometry.IsSortedByX(points) {
		return domain.Result{}, domain.ErrUnsortedPoints
	}
	return s.solve(ctx, points, depth)
}

// Handle implements domain.SubproblemHandler.
func (s *ParallelSolver) Handle(ctx context.Context, req *domain.SubproblemRequest) (*domain.Result, error) {
	res, err := s.Solve(ctx, req.Points, req.Depth)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *ParallelSolver) solve(ctx context.Context, points []domain.Point, depth int) (domain.Result, error) {
	n := len(points)
	if n <= 3 || depth == 0 {
		return domain.Result{Distance: s.sequential.Closest(points)}, nil
	}

	mid := n / 2
	midX := points[mid].X

	s.logger.Debug("Splitting range",
		zap.Int("points", n),
		zap.Int("depth", depth),
		zap.Float64("mid_x", midX))

	halves, err := s.join(ctx, [2][]domain.Point{points[:mid], points[mid:]}, depth-1)
	if err != nil {
		return domain.Result{}, err
	}

	d := math.Min(halves[0].Distance, halves[1].Distance)

	strip := geometry.BuildStrip(points, midX, d)
	best := math.Min(d, s.strip.StripClosest(strip, d))

	s.logger.Debug("Merged halves",
		zap.Float64("left", halves[0].Distance),
		zap.Float64("right", halves[1].Distance),
		zap.Int("strip", len(strip)),
		zap.Float64("distance", best))

	return domain.Result{
		Distance: best,
		Workers:  halves[0].Workers + 1 + halves[1].Workers + 1,
	}, nil
}

// join runs both halves in their own workers and waits for both. Results are
// stored by slot, so the order in which workers finish does not matter. The
// first failure cancels the sibling.
func (s *ParallelSolver) join(ctx context.Context, halves [2][]domain.Point, depth int) ([2]*domain.Result, error) {
	var results [2]*domain.Result

	g, gctx := errgroup.WithContext(ctx)
	for i, half := range halves {
		g.Go(func() error {
			worker, err := s.spawner.Spawn(gctx, &domain.SubproblemRequest{Depth: depth, Points: half})
			if err != nil {
				return fmt.Errorf("%s half: %w", sides[i], err)
			}

			s.logger.Debug("Worker started",
				zap.String("side", sides[i]),
				zap.Int("worker", worker.ID()),
				zap.Int("points", len(half)))

			res, err := worker.Wait()
			if err != nil {
				return fmt.Errorf("%s half: %w", sides[i], err)
			}

			s.logger.Debug("Worker finished",
				zap.String("side", sides[i]),
				zap.Int("worker", worker.ID()),
				zap.Float64("distance", res.Distance),
				zap.Int("workers", res.Workers))

			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
