package app_test

import (
	"bytes"
	"closest-pair/internal/app"
	"closest-pair/internal/domain"
	"closest-pair/internal/transport"
	"closest-pair/pkg/geometry"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordingMetrics struct {
	mu   sync.Mutex
	runs []domain.Result
}

func (m *recordingMetrics) ObserveRun(res domain.Result, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, res)
}

func TestRunnerRepeats(t *testing.T) {
	logger := zaptest.NewLogger(t)
	metrics := &recordingMetrics{}
	runner := app.NewRunner(logger, newSolver(t), metrics)
	points := randomSorted(400, 21)

	report, timing, err := runner.Run(context.Background(), points, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, geometry.BruteForce(points), report.Distance)
	assert.Equal(t, 6, report.Workers)
	assert.Equal(t, 400, report.Points)
	assert.Equal(t, 2, report.Depth)

	assert.Equal(t, 3, timing.Runs)
	assert.Greater(t, timing.Mean, 0.0)
	assert.Len(t, metrics.runs, 3)
}

func TestRunnerSingleRunWithoutMetrics(t *testing.T) {
	runner := app.NewRunner(zaptest.NewLogger(t), newSolver(t), nil)

	report, timing, err := runner.Run(context.Background(), randomSorted(50, 2), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, timing.Runs)
	assert.Zero(t, timing.StdDev)
	assert.Equal(t, 2, report.Workers)
}

func TestRunnerPropagatesSolverError(t *testing.T) {
	runner := app.NewRunner(zaptest.NewLogger(t), newSolver(t), nil)

	_, _, err := runner.Run(context.Background(), randomSorted(50, 2), -2, 1)
	assert.ErrorIs(t, err, domain.ErrNegativeDepth)
}

func TestServeWorker(t *testing.T) {
	logger := zaptest.NewLogger(t)
	points := randomSorted(128, 4)

	var in bytes.Buffer
	require.NoError(t, transport.NewCodec(transport.CompressionZSTD).EncodeRequest(&in,
		&domain.SubproblemRequest{Depth: 2, Points: points}))

	var out bytes.Buffer
	require.NoError(t, app.ServeWorker(context.Background(), logger, newSolver(t), &in, &out))

	res, err := transport.DecodeResult(&out)
	require.NoError(t, err)
	assert.Equal(t, geometry.BruteForce(points), res.Distance)
	assert.Equal(t, 6, res.Workers)
}

func TestServeWorkerRejectsGarbage(t *testing.T) {
	var out bytes.Buffer
	err := app.ServeWorker(context.Background(), zaptest.NewLogger(t), newSolver(t),
		bytes.NewReader([]byte("not a request frame")), &out)

	assert.ErrorIs(t, err, transport.ErrBadMagic)
	assert.Zero(t, out.Len())
}
