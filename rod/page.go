package rod

import (
	"context"
	"time"

	"github.com/fwojciec/pagesnap"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Page implements pagesnap.Page at compile time.
var _ pagesnap.Page = (*Page)(nil)

// Page is a browser tab.
type Page struct {
	page            *rod.Page
	teardownTimeout time.Duration
}

// lifecycleEvents maps ready conditions to DevTools lifecycle events.
var lifecycleEvents = map[pagesnap.ReadyCondition]proto.PageLifecycleEventName{
	pagesnap.ReadyDOMContentLoaded: proto.PageLifecycleEventNameDOMContentLoaded,
	pagesnap.ReadyLoad:             proto.PageLifecycleEventNameLoad,
	pagesnap.ReadyNetworkIdle:      proto.PageLifecycleEventNameNetworkIdle,
}

// Navigate loads url and blocks until the ready condition fires or ctx is
// done. An expired ctx is reported as ctx.Err().
func (p *Page) Navigate(ctx context.Context, url string, ready pagesnap.ReadyCondition) error {
	event, ok := lifecycleEvents[ready]
	if !ok {
		return pagesnap.Errorf(pagesnap.EINVALID, "unknown ready condition %q", ready)
	}

	page := p.page.Context(ctx)

	// Subscribe before navigating so the event cannot be missed.
	wait := page.WaitNavigation(event)
	if err := page.Navigate(url); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	wait()

	return ctx.Err()
}

// CaptureViewport takes a screenshot of the visible viewport.
func (p *Page) CaptureViewport(ctx context.Context, format pagesnap.ImageFormat, quality int) ([]byte, error) {
	req := &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	}
	if format == pagesnap.FormatJPEG {
		req.Format = proto.PageCaptureScreenshotFormatJpeg
		req.Quality = &quality
	}

	buf, err := p.page.Context(ctx).Screenshot(false, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return buf, nil
}

// Close closes the tab, giving up after the teardown timeout.
func (p *Page) Close() error {
	return p.page.Timeout(p.teardownTimeout).Close()
}
