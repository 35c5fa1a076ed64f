package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesnap"
)

// Ensure LoggingLauncher implements pagesnap.Launcher.
var _ pagesnap.Launcher = (*LoggingLauncher)(nil)

// LoggingLauncher wraps a Launcher and logs every session's launch and
// release, so leaked sessions show up as a launch without a release.
type LoggingLauncher struct {
	next   pagesnap.Launcher
	logger *slog.Logger
}

// NewLoggingLauncher creates a new LoggingLauncher.
func NewLoggingLauncher(next pagesnap.Launcher, logger *slog.Logger) *LoggingLauncher {
	return &LoggingLauncher{next: next, logger: logger}
}

// Launch delegates to the wrapped launcher and logs the outcome.
func (l *LoggingLauncher) Launch(ctx context.Context) (session pagesnap.Session, err error) {
	defer func(begin time.Time) {
		l.logger.Debug("browser launch",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	session, err = l.next.Launch(ctx)
	if err != nil {
		return nil, err
	}
	return &loggingSession{next: session, logger: l.logger, launched: time.Now()}, nil
}

type loggingSession struct {
	next     pagesnap.Session
	logger   *slog.Logger
	launched time.Time
}

func (s *loggingSession) OpenPage(ctx context.Context, viewport pagesnap.Viewport) (pagesnap.Page, error) {
	return s.next.OpenPage(ctx, viewport)
}

func (s *loggingSession) Release() (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("browser release",
			"lifetime", time.Since(s.launched),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Release()
}
