package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/extract"
	"github.com/fwojciec/pagesnap/goquery"
	snaphttp "github.com/fwojciec/pagesnap/http"
	snapprom "github.com/fwojciec/pagesnap/prometheus"
	snapslog "github.com/fwojciec/pagesnap/slog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Processor replaces the browser and network backed pipeline.
	// Set before calling Run for end-to-end testing.
	Processor pagesnap.Processor

	// Registry receives the process and request metrics.
	Registry *prometheus.Registry
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Registry: prometheus.NewRegistry(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagesnap"),
		kong.Description("Extract article text or a rendered screenshot from a web page"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagesnap --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := cli.Config()
	if err != nil {
		return fmt.Errorf("invalid configuration: %s", pagesnap.ErrorMessage(err))
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps := &Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Logger:   logger,
		Registry: m.Registry,
	}

	processor := m.Processor
	if processor == nil {
		fetcher := snaphttp.NewFetcher(snaphttp.WithTimeout(cfg.FetchTimeout))
		defer fetcher.Close()

		launcher := snapslog.NewLoggingLauncher(cli.Launcher(), logger)
		processor = extract.NewDispatcher(cfg,
			snapslog.NewLoggingFetcher(fetcher, logger),
			goquery.NewSelector(),
			launcher,
			logger,
		)
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	instrumented, err := snapprom.NewProcessor(processor, m.Registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	deps.Processor = snapslog.NewLoggingProcessor(instrumented, logger)

	return kongCtx.Run(deps)
}
