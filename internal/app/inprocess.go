package app

import (
	"bytes"
	"closest-pair/internal/domain"
	"closest-pair/internal/transport"
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

var errUnbound = errors.New("in-process spawner has no handler")

// InProcessSpawner runs workers as goroutines. A worker only sees an encoded
// copy of its points and hands back an encoded result, so it shares no
// memory with its parent.
type InProcessSpawner struct {
	logger  *zap.Logger
	codec   *transport.Codec
	handler domain.SubproblemHandler
	nextID  atomic.Int64
}

func NewInProcessSpawner(logger *zap.Logger, codec *transport.Codec) *InProcessSpawner {
	return &InProcessSpawner{logger: logger, codec: codec}
}

// Bind sets the handler that solves subproblems inside the workers.
func (s *InProcessSpawner) Bind(handler domain.SubproblemHandler) {
	s.handler = handler
}

// NewInProcessSolver returns a solver whose workers are goroutines that
// recurse into the same solver.
func NewInProcessSolver(logger *zap.Logger, codec *transport.Codec, opts ...Option) *ParallelSolver {
	spawner := NewInProcessSpawner(logger, codec)
	solver := NewParallelSolver(logger, spawner, opts...)
	spawner.Bind(solver)
	return solver
}

func (s *InProcessSpawner) Spawn(ctx context.Context, req *domain.SubproblemRequest) (domain.Worker, error) {
	if s.handler == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSpawnFailed, errUnbound)
	}

	var in bytes.Buffer
	if err := s.codec.EncodeRequest(&in, req); err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", domain.ErrSpawnFailed, err)
	}

	w := &inProcessWorker{
		id:   int(s.nextID.Add(1)),
		done: make(chan struct{}),
	}
	go w.run(ctx, s.logger, s.handler, &in)
	return w, nil
}

type inProcessWorker struct {
	id   int
	done chan struct{}
	out  bytes.Buffer
	err  error
}

func (w *inProcessWorker) run(ctx context.Context, logger *zap.Logger, handler domain.SubproblemHandler, in *bytes.Buffer) {
	defer close(w.done)
	defer func() {
		if r := recover(); r != nil {
			w.err = fmt.Errorf("panic: %v", r)
		}
	}()

	w.err = ServeWorker(ctx, logger.With(zap.Int("worker", w.id)), handler, in, &w.out)
}

func (w *inProcessWorker) ID() int {
	return w.id
}

func (w *inProcessWorker) Wait() (*domain.Result, error) {
	<-w.done
	if w.err != nil {
		return nil, fmt.Errorf("%w: worker %d: %w", domain.ErrWorkerFailed, w.id, w.err)
	}

	res, err := transport.DecodeResult(&w.out)
	if err != nil {
		return nil, fmt.Errorf("%w: worker %d: %w", domain.ErrWorkerFailed, w.id, err)
	}
	return res, nil
}
