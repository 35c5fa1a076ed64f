package extract

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesnap"
)

var _ pagesnap.Processor = (*Dispatcher)(nil)

// Dispatcher routes requests to the backend for their strategy and enforces
// an overall deadline on top of the backends' own per-operation deadlines.
type Dispatcher struct {
	Text   pagesnap.Backend
	Render pagesnap.Backend
	Logger *slog.Logger

	// OverallTimeout bounds one Process call. Defaults to DefaultOverallTimeout.
	OverallTimeout time.Duration

	// TeardownGrace is how long Process waits, after the overall deadline
	// fires, for the cancelled backend to release its resources.
	// Defaults to DefaultTeardownGrace.
	TeardownGrace time.Duration
}

type outcome struct {
	result *pagesnap.Result
	err    error
}

// Process validates req, runs the selected backend and converts every
// outcome into a Result.
func (d *Dispatcher) Process(ctx context.Context, req *pagesnap.Request) *pagesnap.Result {
	if req == nil {
		return pagesnap.NewFailure(pagesnap.Errorf(pagesnap.EINVALID, "URL is required"))
	}
	if err := req.Validate(); err != nil {
		return pagesnap.NewFailure(err)
	}
	backend, err := d.backend(req.Strategy)
	if err != nil {
		return pagesnap.NewFailure(err)
	}

	timeout := durationOr(d.OverallTimeout, DefaultOverallTimeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: pagesnap.Errorf(pagesnap.EINTERNAL, "backend panic: %v", r)}
			}
		}()
		result, err := backend.Extract(ctx, req.URL)
		done <- outcome{result: result, err: err}
	}()

	select {
	case o := <-done:
		return d.result(ctx, timeout, o)
	case <-ctx.Done():
	}

	// Cancellation has propagated into the backend; give its deferred
	// teardown a chance to run before answering.
	cancel()
	grace := durationOr(d.TeardownGrace, DefaultTeardownGrace)
	select {
	case <-done:
	case <-time.After(grace):
		discardLogger(d.Logger).Warn("backend teardown exceeded grace period",
			"url", req.URL,
			"strategy", string(req.Strategy),
			"grace", grace,
		)
	}
	return pagesnap.NewFailure(timeoutError(ctx, timeout))
}

func (d *Dispatcher) backend(s pagesnap.Strategy) (pagesnap.Backend, error) {
	var b pagesnap.Backend
	switch s {
	case pagesnap.StrategyText:
		b = d.Text
	case pagesnap.StrategyRender:
		b = d.Render
	default:
		return nil, pagesnap.Errorf(pagesnap.EUNSUPPORTED, "Invalid action specified")
	}
	if b == nil {
		return nil, pagesnap.Errorf(pagesnap.EUNSUPPORTED, "strategy %s is not configured", s)
	}
	return b, nil
}

func (d *Dispatcher) result(ctx context.Context, timeout time.Duration, o outcome) *pagesnap.Result {
	if o.err != nil {
		// A backend that lost the race against the overall deadline reports
		// whatever phase it was in; the caller sees the overall timeout.
		if ctx.Err() != nil {
			return pagesnap.NewFailure(timeoutError(ctx, timeout))
		}
		return pagesnap.NewFailure(o.err)
	}
	if o.result == nil {
		return pagesnap.NewFailure(pagesnap.Errorf(pagesnap.EINTERNAL, "backend returned no result"))
	}
	return o.result
}

func timeoutError(ctx context.Context, timeout time.Duration) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return pagesnap.Errorf(pagesnap.ETIMEOUT, "request canceled")
	}
	return pagesnap.Errorf(pagesnap.ETIMEOUT, "request exceeded overall timeout of %s", timeout)
}
