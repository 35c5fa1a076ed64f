package extract

import (
	"log/slog"
	"time"

	"github.com/fwojciec/pagesnap"
)

// Config holds the timeout envelope and limits of the pipeline.
type Config struct {
	ContentSelector   string
	FetchTimeout      time.Duration
	NavigationTimeout time.Duration
	CaptureTimeout    time.Duration
	OverallTimeout    time.Duration
	TeardownGrace     time.Duration
	Ready             pagesnap.ReadyCondition
	Viewport          pagesnap.Viewport
	Quality           int
	MaxPayloadBytes   int
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		ContentSelector:   DefaultContentSelector,
		FetchTimeout:      DefaultFetchTimeout,
		NavigationTimeout: DefaultNavigationTimeout,
		CaptureTimeout:    DefaultCaptureTimeout,
		OverallTimeout:    DefaultOverallTimeout,
		TeardownGrace:     DefaultTeardownGrace,
		Ready:             pagesnap.ReadyDOMContentLoaded,
		Viewport:          pagesnap.DefaultViewport,
		Quality:           DefaultImageQuality,
		MaxPayloadBytes:   DefaultMaxPayloadBytes,
	}
}

// NewDispatcher wires a text backend on fetcher and selector and a render
// backend on launcher behind a Dispatcher configured by cfg.
func NewDispatcher(cfg Config, fetcher pagesnap.Fetcher, selector pagesnap.TextSelector, launcher pagesnap.Launcher, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		Text: &TextBackend{
			Fetcher:         fetcher,
			Selector:        selector,
			ContentSelector: cfg.ContentSelector,
			Timeout:         cfg.FetchTimeout,
		},
		Render: &RenderBackend{
			Launcher:          launcher,
			Logger:            logger,
			Viewport:          cfg.Viewport,
			Ready:             cfg.Ready,
			NavigationTimeout: cfg.NavigationTimeout,
			CaptureTimeout:    cfg.CaptureTimeout,
			Quality:           cfg.Quality,
			MaxPayloadBytes:   cfg.MaxPayloadBytes,
		},
		Logger:         logger,
		OverallTimeout: cfg.OverallTimeout,
		TeardownGrace:  cfg.TeardownGrace,
	}
}
