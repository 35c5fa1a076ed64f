package chromedp

import (
	"context"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/fwojciec/pagesnap"
)

// Ensure Page implements pagesnap.Page at compile time.
var _ pagesnap.Page = (*Page)(nil)

// Page is the session's single tab.
type Page struct {
	tab context.Context
}

// lifecycleEvents maps ready conditions to DevTools lifecycle event names.
var lifecycleEvents = map[pagesnap.ReadyCondition]string{
	pagesnap.ReadyDOMContentLoaded: "DOMContentLoaded",
	pagesnap.ReadyLoad:             "load",
	pagesnap.ReadyNetworkIdle:      "networkIdle",
}

// Navigate loads url and blocks until the ready condition fires or ctx is
// done.
func (p *Page) Navigate(ctx context.Context, url string, ready pagesnap.ReadyCondition) error {
	event, ok := lifecycleEvents[ready]
	if !ok {
		return pagesnap.Errorf(pagesnap.EINVALID, "unknown ready condition %q", ready)
	}

	runCtx, cancel := context.WithCancel(p.tab)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	fired := make(chan struct{})
	var once sync.Once
	chromedp.ListenTarget(runCtx, func(ev any) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == event {
			once.Do(func() { close(fired) })
		}
	})
	if err := chromedp.Run(runCtx, page.SetLifecycleEventsEnabled(true)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	// chromedp.Navigate returns after the load event; earlier conditions
	// are picked up by the lifecycle listener.
	navigated := make(chan error, 1)
	go func() {
		navigated <- chromedp.Run(runCtx, chromedp.Navigate(url))
	}()

	for {
		select {
		case <-fired:
			return nil
		case err := <-navigated:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				return err
			}
			if ready == pagesnap.ReadyLoad {
				return nil
			}
			navigated = nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// CaptureViewport takes a screenshot of the visible viewport.
func (p *Page) CaptureViewport(ctx context.Context, format pagesnap.ImageFormat, quality int) ([]byte, error) {
	var buf []byte
	err := run(ctx, p.tab, chromedp.ActionFunc(func(ctx context.Context) error {
		capture := page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng)
		if format == pagesnap.FormatJPEG {
			capture = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatJpeg).
				WithQuality(int64(quality))
		}
		var err error
		buf, err = capture.Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Close is a no-op: the tab belongs to the session and closes on Release.
func (p *Page) Close() error {
	return nil
}
