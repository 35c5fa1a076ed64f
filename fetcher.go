package pagesnap

import "context"

// Fetcher retrieves raw HTML from URLs without executing JavaScript.
type Fetcher interface {
	// Fetch issues a single GET and returns the decoded body.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases idle connections.
	Close() error
}

// TextSelector pulls text out of an HTML document.
type TextSelector interface {
	// SelectText returns the concatenated text of all elements matching the
	// CSS selector. Malformed HTML yields an empty string, never an error.
	SelectText(html string, selector string) string
}
