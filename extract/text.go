package extract

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/pagesnap"
)

var _ pagesnap.Backend = (*TextBackend)(nil)

// TextBackend downloads static HTML and extracts the text of the article
// content region. It never executes JavaScript.
type TextBackend struct {
	Fetcher  pagesnap.Fetcher
	Selector pagesnap.TextSelector

	// ContentSelector is the CSS selector of the content region.
	// Defaults to DefaultContentSelector.
	ContentSelector string

	// Timeout bounds the fetch. Defaults to DefaultFetchTimeout.
	Timeout time.Duration
}

// Extract fetches url and returns the trimmed text of the content region.
// An empty region is a successful, empty result.
func (b *TextBackend) Extract(ctx context.Context, url string) (*pagesnap.Result, error) {
	if err := pagesnap.ValidateURL(url); err != nil {
		return nil, err
	}

	fctx, cancel := context.WithTimeout(ctx, durationOr(b.Timeout, DefaultFetchTimeout))
	defer cancel()

	html, err := b.Fetcher.Fetch(fctx, url)
	if err != nil {
		if err := cancelled(ctx); err != nil {
			return nil, err
		}
		if isTimeout(err) {
			return nil, pagesnap.Errorf(pagesnap.EFETCHTIMEOUT, "fetching %s: timed out after %s", url, durationOr(b.Timeout, DefaultFetchTimeout))
		}
		if pagesnap.ErrorCode(err) == pagesnap.EINTERNAL {
			return nil, pagesnap.Errorf(pagesnap.EFETCH, "fetching %s: %v", url, err)
		}
		return nil, err
	}

	selector := b.ContentSelector
	if selector == "" {
		selector = DefaultContentSelector
	}
	return pagesnap.NewTextResult(strings.TrimSpace(b.Selector.SelectText(html, selector))), nil
}
