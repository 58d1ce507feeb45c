package app

import (
	"closest-pair/internal/domain"
	"closest-pair/internal/transport"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// ServeWorker is the body of a worker: read one request from in, solve it
// with handler and write the result frame to out.
func ServeWorker(ctx context.Context, logger *zap.Logger, handler domain.SubproblemHandler, in io.Reader, out io.Writer) error {
	var codec transport.Codec

	req, err := codec.DecodeRequest(in)
	if err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	logger.Debug("Worker received subproblem",
		zap.Int("points", len(req.Points)),
		zap.Int("depth", req.Depth))

	res, err := handler.Handle(ctx, req)
	if err != nil {
		return err
	}

	if err := transport.EncodeResult(out, res); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
