// Package extract implements the request pipeline: a text backend, a render
// backend, and the dispatcher that routes between them under an overall
// deadline.
package extract

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/fwojciec/pagesnap"
)

// Defaults for the timeout envelope and size limits.
const (
	DefaultContentSelector   = ".article__content"
	DefaultFetchTimeout      = 10 * time.Second
	DefaultNavigationTimeout = 15 * time.Second
	DefaultCaptureTimeout    = 10 * time.Second
	DefaultOverallTimeout    = 30 * time.Second
	DefaultTeardownGrace     = 5 * time.Second
	DefaultImageQuality      = 80

	// DefaultMaxPayloadBytes is the largest encoded screenshot a caller
	// environment accepts (4.5 MiB).
	DefaultMaxPayloadBytes = 4.5 * 1024 * 1024
)

// isTimeout reports whether err came from an expired deadline, either a
// context deadline or a transport-level timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// cancelled returns a timeout error when the caller's context is done, so
// backends never misreport an outer cancellation as their own failure.
func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return pagesnap.Errorf(pagesnap.ETIMEOUT, "request canceled: %v", err)
	}
	return nil
}

func discardLogger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}

func durationOr(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
