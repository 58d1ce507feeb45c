package domain

import (
	"errors"
)

// Config is the application configuration.
type Config struct {
	Input       string `yaml:"input"`
	Output      string `yaml:"output"`
	Random      int    `yaml:"random"`
	Seed        int64  `yaml:"seed"`
	Depth       int    `yaml:"depth"`
	Spawner     string `yaml:"spawner"`
	Compression string `yaml:"compression"`
	Repeat      int    `yaml:"repeat"`
	Decimals    int    `yaml:"decimals"`
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
	MetricsFile string `yaml:"metrics_file"`
}

func (c *Config) GetSpawnerKind() SpawnerKind {
	switch c.Spawner {
	case "inprocess", "goroutine":
		return SpawnerInProcess
	default:
		return SpawnerProcess
	}
}

// Point is a point in the plane. Point sequences handed to the solvers are
// sorted by X.
type Point struct {
	X, Y float64
}

// SubproblemRequest is the work shipped to a worker: a contiguous range of
// points and the fork depth still allowed below it.
type SubproblemRequest struct {
	Depth  int
	Points []Point
}

// Result is what every solver frame returns: the minimum distance in its range
// and the number of workers created in the subtree below it.
type Result struct {
	Distance float64
	Workers  int
}

// SpawnerKind selects how subproblems are isolated.
type SpawnerKind int

const (
	SpawnerProcess SpawnerKind = iota
	SpawnerInProcess
)

var (
	ErrInvalidFileFormat = errors.New("invalid file format")
	ErrInvalidPoint      = errors.New("invalid point")
	ErrTooFewPoints      = errors.New("at least two points are required")
	ErrUnsortedPoints    = errors.New("points are not sorted by x")
	ErrNegativeDepth     = errors.New("depth must not be negative")
	ErrSpawnFailed       = errors.New("failed to spawn worker")
	ErrWorkerFailed      = errors.New("worker failed")
	ErrNondeterministic  = errors.New("repeated runs returned different distances")
)
