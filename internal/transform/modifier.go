package transform

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apiv1 "modsource/api/v1"
	"modsource/internal/logging"
	"modsource/plugin"
)

// Policy bounds one remote transform call.
type Policy struct {
	Timeout  time.Duration // per attempt; 0 = none
	Attempts int           // retries after the first call
	Backoff  time.Duration
}

// Modifier returns a transform that sends the source to c. Calls failing with
// a retryable status are retried per p; argument errors are not. Cancelling
// the load's context stops the current attempt and any further retries.
func Modifier(name string, c Client, p Policy) plugin.ContextModifyFunc {
	return func(ctx context.Context, source, path string) (string, error) {
		req := &apiv1.TransformRequest{Path: path, Source: []byte(source)}
		var lastErr error
		for attempt := 0; attempt <= p.Attempts; attempt++ {
			if attempt > 0 && p.Backoff > 0 {
				if err := wait(ctx, p.Backoff); err != nil {
					return "", fmt.Errorf("transformer %s: %w", name, err)
				}
			}
			resp, err := call(ctx, c, req, p.Timeout)
			if err == nil {
				return string(resp.Source), nil
			}
			lastErr = err
			if ctx.Err() != nil || !retryable(err) {
				break
			}
			logging.L().Warn("transformer call failed", "transformer", name, "path", path, "attempt", attempt+1, "err", err)
		}
		return "", fmt.Errorf("transformer %s: %w", name, lastErr)
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func call(ctx context.Context, c Client, req *apiv1.TransformRequest, timeout time.Duration) (*apiv1.TransformResponse, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return c.Transform(ctx, req)
}

func retryable(err error) bool {
	switch status.Code(err) {
	case codes.InvalidArgument, codes.Unimplemented, codes.PermissionDenied, codes.Unauthenticated:
		return false
	}
	return true
}
