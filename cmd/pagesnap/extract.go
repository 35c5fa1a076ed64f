package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/pagesnap"
	"golang.org/x/sync/errgroup"
)

// Run executes the extract command. One JSON response is written per URL,
// in argument order.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	strategy, err := pagesnap.ParseStrategy(c.Strategy)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesnap.ErrorMessage(err))
		return err
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]*pagesnap.Result, len(c.URLs))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, url := range c.URLs {
		i, url := i, url
		g.Go(func() error {
			results[i] = deps.Processor.Process(deps.Ctx, &pagesnap.Request{URL: url, Strategy: strategy})
			return nil
		})
	}
	_ = g.Wait()

	enc := json.NewEncoder(deps.Stdout)
	failed := 0
	for _, result := range results {
		if !result.OK() {
			failed++
		}
		if err := enc.Encode(pagesnap.NewResponse(result)); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d URLs failed", failed, len(results))
	}
	return nil
}
