package main

import (
	"os"
	"os/signal"
	"syscall"

	snapecho "github.com/fwojciec/pagesnap/echo"
)

// Run executes the serve command until the context is cancelled or the
// process receives SIGINT or SIGTERM.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := snapecho.NewServer(deps.Processor,
		snapecho.WithLogger(deps.Logger),
		snapecho.WithGatherer(deps.Registry),
	)
	s.Addr = c.Addr
	if err := s.Open(); err != nil {
		return err
	}
	deps.Logger.Info("listening", "url", s.URL())

	<-ctx.Done()
	deps.Logger.Info("shutting down")
	return s.Close()
}
