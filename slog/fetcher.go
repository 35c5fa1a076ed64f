// Package slog provides log/slog decorators for pagesnap services.
package slog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesnap"
)

// Ensure LoggingFetcher implements pagesnap.Fetcher.
var _ pagesnap.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs each page download with its remaining deadline.
// Successful fetches log at debug level; failures log at warn level with
// their error code.
type LoggingFetcher struct {
	next   pagesnap.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next pagesnap.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	var timeout time.Duration
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline).Round(time.Millisecond)
	}

	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"timeout", timeout,
			"duration", time.Since(begin),
		}
		if err == nil {
			f.logger.Debug("fetch", append(attrs, "bytes", len(html))...)
			return
		}
		f.logger.Warn("fetch",
			append(attrs,
				"code", pagesnap.ErrorCode(err),
				"timed_out", errors.Is(err, context.DeadlineExceeded),
				"err", err,
			)...,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
