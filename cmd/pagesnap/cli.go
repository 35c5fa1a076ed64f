package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/chromedp"
	"github.com/fwojciec/pagesnap/extract"
	"github.com/fwojciec/pagesnap/rod"
	"github.com/prometheus/client_golang/prometheus"
)

// Rendering engines.
const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Processor pagesnap.Processor
	Registry  *prometheus.Registry
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Engine            string        `enum:"rod,chromedp" default:"rod" env:"PAGESNAP_ENGINE" help:"Rendering engine (rod or chromedp)"`
	BrowserBin        string        `name:"browser-bin" env:"PAGESNAP_BROWSER_BIN" help:"Path to a Chrome or Chromium binary"`
	FetchTimeout      time.Duration `default:"10s" env:"PAGESNAP_FETCH_TIMEOUT" help:"Deadline for static page downloads"`
	NavigationTimeout time.Duration `default:"15s" env:"PAGESNAP_NAVIGATION_TIMEOUT" help:"Deadline for browser navigation"`
	CaptureTimeout    time.Duration `default:"10s" env:"PAGESNAP_CAPTURE_TIMEOUT" help:"Deadline for screenshot capture"`
	OverallTimeout    time.Duration `default:"30s" env:"PAGESNAP_OVERALL_TIMEOUT" help:"Deadline for a whole request"`
	TeardownGrace     time.Duration `default:"5s" env:"PAGESNAP_TEARDOWN_GRACE" help:"Time allowed for browser teardown after a timeout"`
	MaxPayload        int           `default:"4718592" env:"PAGESNAP_MAX_PAYLOAD" help:"Largest encoded screenshot in bytes"`
	Quality           int           `default:"80" env:"PAGESNAP_QUALITY" help:"JPEG quality (1-100)"`
	Ready             string        `enum:"domcontentloaded,load,networkidle" default:"domcontentloaded" env:"PAGESNAP_READY" help:"Page readiness condition"`
	Verbose           bool          `short:"v" help:"Enable debug logging"`

	Extract ExtractCmd `cmd:"" help:"Extract content from one or more URLs"`
	Serve   ServeCmd   `cmd:"" help:"Serve the extraction API over HTTP"`
}

// Config returns the pipeline configuration described by the flags.
func (c *CLI) Config() (extract.Config, error) {
	cfg := extract.DefaultConfig()
	ready, err := pagesnap.ParseReadyCondition(c.Ready)
	if err != nil {
		return cfg, err
	}
	if c.Quality < 1 || c.Quality > 100 {
		return cfg, pagesnap.Errorf(pagesnap.EINVALID, "quality must be between 1 and 100")
	}
	if c.MaxPayload <= 0 {
		return cfg, pagesnap.Errorf(pagesnap.EINVALID, "max payload must be positive")
	}
	cfg.Ready = ready
	cfg.FetchTimeout = c.FetchTimeout
	cfg.NavigationTimeout = c.NavigationTimeout
	cfg.CaptureTimeout = c.CaptureTimeout
	cfg.OverallTimeout = c.OverallTimeout
	cfg.TeardownGrace = c.TeardownGrace
	cfg.Quality = c.Quality
	cfg.MaxPayloadBytes = c.MaxPayload
	return cfg, nil
}

// Launcher returns the browser launcher for the selected engine. Page close
// and browser close each get half of the teardown grace, so a full rod
// teardown fits in the time the dispatcher waits for it.
func (c *CLI) Launcher() pagesnap.Launcher {
	if c.Engine == EngineChromedp {
		var opts []chromedp.Option
		if c.BrowserBin != "" {
			opts = append(opts, chromedp.WithExecPath(c.BrowserBin))
		}
		return chromedp.NewLauncher(opts...)
	}
	opts := []rod.Option{rod.WithTeardownTimeout(c.TeardownGrace / 2)}
	if c.BrowserBin != "" {
		opts = append(opts, rod.WithBin(c.BrowserBin))
	}
	return rod.NewLauncher(opts...)
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URLs        []string `arg:"" name:"url" help:"URLs to process"`
	Strategy    string   `short:"s" default:"text" help:"text, render, cheerio or puppeteer"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent request limit"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" env:"PAGESNAP_ADDR" help:"Listen address"`
}
