package app

import (
	"closest-pair/internal/domain"
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Timing summarises the elapsed time of repeated runs, in seconds.
type Timing struct {
	Runs   int
	Mean   float64
	StdDev float64
}

// Runner solves the same point set a number of times and checks that every
// run agrees bit for bit.
type Runner struct {
	logger  *zap.Logger
	solver  *ParallelSolver
	metrics domain.MetricsRecorder
}

func NewRunner(logger *zap.Logger, solver *ParallelSolver, metrics domain.MetricsRecorder) *Runner {
	return &Runner{logger: logger, solver: solver, metrics: metrics}
}

func (r *Runner) Run(ctx context.Context, points []domain.Point, depth, repeat int) (*domain.Report, *Timing, error) {
	repeat = max(1, repeat)

	var first domain.Result
	elapsed := make([]float64, 0, repeat)

	for i := range repeat {
		start := time.Now()
		res, err := r.solver.Solve(ctx, points, depth)
		if err != nil {
			return nil, nil, err
		}
		took := time.Since(start)
		elapsed = append(elapsed, took.Seconds())

		if r.metrics != nil {
			r.metrics.ObserveRun(res, took)
		}

		r.logger.Info("Run finished",
			zap.Int("run", i+1),
			zap.Float64("distance", res.Distance),
			zap.Int("workers", res.Workers),
			zap.Duration("elapsed", took))

		if i == 0 {
			first = res
			continue
		}
		if math.Float64bits(res.Distance) != math.Float64bits(first.Distance) {
			return nil, nil, fmt.Errorf("%w: run %d got %v, run 1 got %v",
				domain.ErrNondeterministic, i+1, res.Distance, first.Distance)
		}
	}

	timing := &Timing{Runs: repeat}
	if repeat > 1 {
		timing.Mean, timing.StdDev = stat.MeanStdDev(elapsed, nil)
	} else {
		timing.Mean = elapsed[0]
	}

	return &domain.Report{
		Result: first,
		Points: len(points),
		Depth:  depth,
	}, timing, nil
}
