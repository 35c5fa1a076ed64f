package pagesnap

import (
	"net/url"
	"strings"
)

// Strategy selects which extraction backend handles a request.
type Strategy string

// Strategy constants. The set is closed.
const (
	StrategyText   Strategy = "TEXT"
	StrategyRender Strategy = "RENDER"
)

// Strategy aliases accepted on the "action" surface of the HTTP API.
const (
	ActionCheerio   = "cheerio"
	ActionPuppeteer = "puppeteer"
)

// ParseStrategy maps a strategy name or action alias to a Strategy.
// Matching is case-insensitive. Returns EUNSUPPORTED for anything else.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", ActionCheerio:
		return StrategyText, nil
	case "render", ActionPuppeteer:
		return StrategyRender, nil
	}
	return "", Errorf(EUNSUPPORTED, "Invalid action specified")
}

// Request is a single extraction request.
type Request struct {
	URL      string   `json:"url"`
	Strategy Strategy `json:"strategy"`
}

// Validate returns an error if the request URL is missing or is not an
// absolute http(s) URL. Strategy is checked by the dispatcher.
func (r *Request) Validate() error {
	return ValidateURL(r.URL)
}

// ValidateURL returns EINVALID unless rawURL is an absolute http or https URL
// with a host.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return Errorf(EINVALID, "URL is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Errorf(EINVALID, "invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "invalid URL: scheme must be http or https")
	}
	if u.Host == "" {
		return Errorf(EINVALID, "invalid URL: missing host")
	}
	return nil
}
