package goquery_test

import (
	"testing"

	"github.com/fwojciec/pagesnap/goquery"
	"github.com/stretchr/testify/assert"
)

func TestSelector_SelectText(t *testing.T) {
	t.Parallel()

	t.Run("returns text of the matching element", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<header>Site header</header>
<div class="article__content"><p>Hello <b>world</b></p></div>
</body>
</html>`

		text := goquery.NewSelector().SelectText(html, ".article__content")

		assert.Equal(t, "Hello world", text)
	})

	t.Run("concatenates multiple matches in document order", func(t *testing.T) {
		t.Parallel()

		html := `<div class="article__content">One</div><div class="article__content">Two</div>`

		text := goquery.NewSelector().SelectText(html, ".article__content")

		assert.Equal(t, "OneTwo", text)
	})

	t.Run("returns empty string when nothing matches", func(t *testing.T) {
		t.Parallel()

		text := goquery.NewSelector().SelectText(`<p>no article</p>`, ".article__content")

		assert.Empty(t, text)
	})

	t.Run("tolerates malformed HTML", func(t *testing.T) {
		t.Parallel()

		html := `<div class="article__content"><p>Unclosed <span>tags`

		text := goquery.NewSelector().SelectText(html, ".article__content")

		assert.Equal(t, "Unclosed tags", text)
	})

	t.Run("returns empty string for an invalid selector", func(t *testing.T) {
		t.Parallel()

		text := goquery.NewSelector().SelectText(`<p>text</p>`, "[[[")

		assert.Empty(t, text)
	})

	t.Run("does not include script text outside the region", func(t *testing.T) {
		t.Parallel()

		html := `<script>var x = 1;</script><div class="article__content">Body</div>`

		text := goquery.NewSelector().SelectText(html, ".article__content")

		assert.Equal(t, "Body", text)
	})
}
