package mock

import (
	"context"

	"github.com/fwojciec/pagesnap"
)

var (
	_ pagesnap.Fetcher      = (*Fetcher)(nil)
	_ pagesnap.TextSelector = (*TextSelector)(nil)
)

// Fetcher is a mock implementation of pagesnap.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// TextSelector is a mock implementation of pagesnap.TextSelector.
type TextSelector struct {
	SelectTextFn func(html string, selector string) string
}

func (s *TextSelector) SelectText(html string, selector string) string {
	return s.SelectTextFn(html, selector)
}
