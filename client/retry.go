package client

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/avast/retry-go"
	"go.uber.org/zap"
)

const networkAttempts = 2

// sendWithNetworkRetry re-issues req once if the first attempt failed with a network error.
// A logical request is retried at most once for network failures during its lifetime.
func (c *Client) sendWithNetworkRetry(ctx context.Context, req *request) (*Response, error) {
	var res *Response
	err := retry.Do(
		func() error {
			var err error
			res, err = c.send(ctx, req)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(networkAttempts),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !req.networkRetried && ctx.Err() == nil && IsNetworkError(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			req.networkRetried = true
			c.logger.Infow("retrying request after network failure", "method", req.method, "url", req.url, zap.Error(err))
		}),
	)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// IsNetworkError returns true for timeouts and connection level failures.
// Responses with an error status code and cancelled contexts are not network errors.
func IsNetworkError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
