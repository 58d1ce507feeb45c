package domain

import (
	"context"
	"time"
)

// SequentialSolver finds the closest pair distance of a range without any
// parallelism. It is used as the base case of the parallel solver.
type SequentialSolver interface {
	Closest(points []Point) float64
}

// StripMerger finds the closest pair distance inside a strip around the
// dividing line, considering only pairs closer than d.
type StripMerger interface {
	StripClosest(strip []Point, d float64) float64
}

// Spawner starts an isolated worker for one subproblem.
type Spawner interface {
	Spawn(ctx context.Context, req *SubproblemRequest) (Worker, error)
}

// Worker is a running subproblem. Wait blocks until the worker has terminated
// and returns the result it reported.
type Worker interface {
	ID() int
	Wait() (*Result, error)
}

// SubproblemHandler solves a subproblem on behalf of a worker.
type SubproblemHandler interface {
	Handle(ctx context.Context, req *SubproblemRequest) (*Result, error)
}

// MetricsRecorder observes finished solver runs.
type MetricsRecorder interface {
	ObserveRun(res Result, elapsed time.Duration)
}
