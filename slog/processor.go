package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesnap"
)

// Ensure LoggingProcessor implements pagesnap.Processor.
var _ pagesnap.Processor = (*LoggingProcessor)(nil)

// LoggingProcessor logs one line per processed request.
type LoggingProcessor struct {
	next   pagesnap.Processor
	logger *slog.Logger
}

// NewLoggingProcessor creates a new LoggingProcessor.
func NewLoggingProcessor(next pagesnap.Processor, logger *slog.Logger) *LoggingProcessor {
	return &LoggingProcessor{next: next, logger: logger}
}

// Process delegates to the wrapped processor. Failures log at warn level.
func (p *LoggingProcessor) Process(ctx context.Context, req *pagesnap.Request) (result *pagesnap.Result) {
	defer func(begin time.Time) {
		var url, strategy string
		if req != nil {
			url, strategy = req.URL, string(req.Strategy)
		}
		attrs := []any{
			"url", url,
			"strategy", strategy,
			"duration", time.Since(begin),
		}
		if result.OK() {
			p.logger.Info("process", append(attrs, "bytes", len(result.Payload))...)
			return
		}
		p.logger.Warn("process", append(attrs, "code", result.Err.Code, "err", result.Err.Message)...)
	}(time.Now())
	return p.next.Process(ctx, req)
}
