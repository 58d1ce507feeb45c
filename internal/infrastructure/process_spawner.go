package infrastructure

import (
	"bytes"
	"closest-pair/internal/domain"
	"closest-pair/internal/transport"
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// workerGrace is how long a cancelled worker may take to exit after SIGTERM
// before it is killed.
const workerGrace = 5 * time.Second

// ProcessSpawner runs every worker as a new instance of an executable,
// normally the running binary itself. The request is written to the child's
// stdin and the result comes back on a pipe the child sees as ResultFD.
type ProcessSpawner struct {
	logger   *zap.Logger
	path     string
	codec    *transport.Codec
	settings WorkerSettings
}

func NewProcessSpawner(logger *zap.Logger, path string, codec *transport.Codec, settings WorkerSettings) *ProcessSpawner {
	settings.Compression = codec.Compression.String()
	return &ProcessSpawner{
		logger:   logger,
		path:     path,
		codec:    codec,
		settings: settings,
	}
}

func (s *ProcessSpawner) Spawn(ctx context.Context, req *domain.SubproblemRequest) (domain.Worker, error) {
	var stdin bytes.Buffer
	if err := s.codec.EncodeRequest(&stdin, req); err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", domain.ErrSpawnFailed, err)
	}

	resultR, resultW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("%w: pipe: %w", domain.ErrSpawnFailed, err)
	}

	cmd := exec.CommandContext(ctx, s.path)
	cmd.Env = append(os.Environ(), s.settings.Environ()...)
	cmd.Stdin = &stdin
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{resultW}
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = workerGrace

	if err := cmd.Start(); err != nil {
		err = multierr.Combine(err, resultR.Close(), resultW.Close())
		return nil, fmt.Errorf("%w: start %s: %w", domain.ErrSpawnFailed, s.path, err)
	}

	// Only the child may hold the write end, so a child that dies without
	// writing leaves the parent with EOF instead of a blocked read.
	if err := resultW.Close(); err != nil {
		s.logger.Warn("Failed to close result pipe", zap.Error(err))
	}

	return &processWorker{cmd: cmd, result: resultR}, nil
}

type processWorker struct {
	cmd    *exec.Cmd
	result *os.File
}

func (w *processWorker) ID() int {
	return w.cmd.Process.Pid
}

// Wait reaps the process and only then reads its result frame.
func (w *processWorker) Wait() (*domain.Result, error) {
	defer w.result.Close()

	if err := w.cmd.Wait(); err != nil {
		if state := w.cmd.ProcessState; state != nil && !state.Exited() {
			return nil, fmt.Errorf("%w: pid %d terminated abnormally: %s", domain.ErrWorkerFailed, w.ID(), state)
		}
		return nil, fmt.Errorf("%w: pid %d: %w", domain.ErrWorkerFailed, w.ID(), err)
	}

	res, err := transport.DecodeResult(w.result)
	if err != nil {
		return nil, fmt.Errorf("%w: pid %d: %w", domain.ErrWorkerFailed, w.ID(), err)
	}
	return res, nil
}
