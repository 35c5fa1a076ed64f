// Package goquery implements pagesnap.TextSelector using CSS selectors.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagesnap"
)

var _ pagesnap.TextSelector = (*Selector)(nil)

// Selector extracts element text from HTML.
type Selector struct{}

// NewSelector creates a new Selector.
func NewSelector() *Selector {
	return &Selector{}
}

// SelectText returns the combined text of every element matching selector,
// in document order. Unparseable HTML or an invalid selector yields "".
func (s *Selector) SelectText(html string, selector string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return doc.Find(selector).Text()
}
