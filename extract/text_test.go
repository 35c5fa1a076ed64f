package extract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/extract"
	"github.com/fwojciec/pagesnap/goquery"
	"github.com/fwojciec/pagesnap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<body>
<nav>Menu</nav>
<div class="article__content">
	Hello world
</div>
<footer>Footer</footer>
</body>
</html>`

func TestTextBackend_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns trimmed text of the content region", func(t *testing.T) {
		t.Parallel()

		backend := &extract.TextBackend{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					assert.Equal(t, "https://example.com/article", url)
					return articleHTML, nil
				},
			},
			Selector: goquery.NewSelector(),
		}

		result, err := backend.Extract(context.Background(), "https://example.com/article")

		require.NoError(t, err)
		assert.Equal(t, "Hello world", result.Payload)
		assert.Equal(t, pagesnap.MediaText, result.MediaKind)
		assert.Equal(t, pagesnap.EncodingUTF8, result.Encoding)
		assert.Empty(t, result.ContentType)
	})

	t.Run("returns empty text when the region is missing", func(t *testing.T) {
		t.Parallel()

		backend := &extract.TextBackend{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return "<html><body><p>no article here</p></body></html>", nil
				},
			},
			Selector: goquery.NewSelector(),
		}

		result, err := backend.Extract(context.Background(), "https://example.com/article")

		require.NoError(t, err)
		assert.True(t, result.OK())
		assert.Empty(t, result.Payload)
	})

	t.Run("uses the configured content selector", func(t *testing.T) {
		t.Parallel()

		var gotSelector string
		backend := &extract.TextBackend{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return "<html></html>", nil
				},
			},
			Selector: &mock.TextSelector{
				SelectTextFn: func(html string, selector string) string {
					gotSelector = selector
					return "  body  "
				},
			},
			ContentSelector: "main",
		}

		result, err := backend.Extract(context.Background(), "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, "main", gotSelector)
		assert.Equal(t, "body", result.Payload)
	})

	t.Run("rejects empty URL without fetching", func(t *testing.T) {
		t.Parallel()

		backend := &extract.TextBackend{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					t.Fatal("Fetch should not be called")
					return "", nil
				},
			},
			Selector: goquery.NewSelector(),
		}

		_, err := backend.Extract(context.Background(), "")

		require.Error(t, err)
		assert.Equal(t, pagesnap.EINVALID, pagesnap.ErrorCode(err))
		assert.Equal(t, "URL is required", pagesnap.ErrorMessage(err))
	})

	t.Run("maps fetch deadline to fetch timeout", func(t *testing.T) {
		t.Parallel()

		backend := &extract.TextBackend{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					<-ctx.Done()
					return "", ctx.Err()
				},
			},
			Selector: goquery.NewSelector(),
			Timeout:  10 * time.Millisecond,
		}

		_, err := backend.Extract(context.Background(), "https://example.com/slow")

		require.Error(t, err)
		assert.Equal(t, pagesnap.EFETCHTIMEOUT, pagesnap.ErrorCode(err))
	})

	t.Run("maps network errors to fetch failed", func(t *testing.T) {
		t.Parallel()

		backend := &extract.TextBackend{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return "", errors.New("connection refused")
				},
			},
			Selector: goquery.NewSelector(),
		}

		_, err := backend.Extract(context.Background(), "https://example.com/")

		require.Error(t, err)
		assert.Equal(t, pagesnap.EFETCH, pagesnap.ErrorCode(err))
		assert.Contains(t, pagesnap.ErrorMessage(err), "connection refused")
	})

	t.Run("keeps coded fetcher errors", func(t *testing.T) {
		t.Parallel()

		backend := &extract.TextBackend{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return "", pagesnap.Errorf(pagesnap.EFETCH, "HTTP 404 for %s", url)
				},
			},
			Selector: goquery.NewSelector(),
		}

		_, err := backend.Extract(context.Background(), "https://example.com/missing")

		require.Error(t, err)
		assert.Equal(t, pagesnap.EFETCH, pagesnap.ErrorCode(err))
		assert.Equal(t, "HTTP 404 for https://example.com/missing", pagesnap.ErrorMessage(err))
	})

	t.Run("is idempotent for an unchanged page", func(t *testing.T) {
		t.Parallel()

		backend := &extract.TextBackend{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return articleHTML, nil
				},
			},
			Selector: goquery.NewSelector(),
		}

		first, err := backend.Extract(context.Background(), "https://example.com/article")
		require.NoError(t, err)
		second, err := backend.Extract(context.Background(), "https://example.com/article")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
