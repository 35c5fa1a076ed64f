package extract

import (
	"context"
	"encoding/base64"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesnap"
)

var _ pagesnap.Backend = (*RenderBackend)(nil)

// RenderBackend renders a page in a freshly launched browser and returns a
// base64-encoded JPEG of the viewport.
//
// Every call owns its session: the session is launched, used for one page
// and released before Extract returns, whichever phase fails.
type RenderBackend struct {
	Launcher pagesnap.Launcher
	Logger   *slog.Logger

	// Viewport defaults to pagesnap.DefaultViewport.
	Viewport pagesnap.Viewport

	// Ready defaults to pagesnap.ReadyDOMContentLoaded.
	Ready pagesnap.ReadyCondition

	NavigationTimeout time.Duration
	CaptureTimeout    time.Duration

	// Quality is the JPEG quality factor, 1-100.
	Quality int

	// MaxPayloadBytes bounds the length of the base64 payload.
	MaxPayloadBytes int
}

// Extract captures a screenshot of url.
func (b *RenderBackend) Extract(ctx context.Context, url string) (*pagesnap.Result, error) {
	if err := pagesnap.ValidateURL(url); err != nil {
		return nil, err
	}
	logger := discardLogger(b.Logger).With("url", url)

	session, err := b.Launcher.Launch(ctx)
	if err != nil {
		if err := cancelled(ctx); err != nil {
			return nil, err
		}
		return nil, pagesnap.Errorf(pagesnap.ELAUNCH, "launching browser: %v", err)
	}
	defer func() {
		if err := session.Release(); err != nil {
			logger.Warn("release session", "err", err)
		}
	}()

	page, err := session.OpenPage(ctx, b.viewport())
	if err != nil {
		if err := cancelled(ctx); err != nil {
			return nil, err
		}
		return nil, pagesnap.Errorf(pagesnap.ELAUNCH, "opening page: %v", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			logger.Debug("close page", "err", err)
		}
	}()

	if err := b.navigate(ctx, page, url); err != nil {
		return nil, err
	}

	buf, err := b.capture(ctx, page)
	if err != nil {
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(buf)
	if limit := b.maxPayloadBytes(); len(encoded) > limit {
		return nil, pagesnap.Errorf(pagesnap.ETOOLARGE, "Screenshot size exceeds payload limit (%d > %d bytes)", len(encoded), limit)
	}
	return pagesnap.NewImageResult(encoded, pagesnap.ContentTypeJPEG), nil
}

func (b *RenderBackend) navigate(ctx context.Context, page pagesnap.Page, url string) error {
	timeout := durationOr(b.NavigationTimeout, DefaultNavigationTimeout)
	nctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := page.Navigate(nctx, url, b.ready())
	if err == nil {
		return nil
	}
	if err := cancelled(ctx); err != nil {
		return err
	}
	if isTimeout(err) {
		return pagesnap.Errorf(pagesnap.ENAVTIMEOUT, "Navigation timeout after %s", timeout)
	}
	return pagesnap.Errorf(pagesnap.EFETCH, "navigating to %s: %v", url, err)
}

func (b *RenderBackend) capture(ctx context.Context, page pagesnap.Page) ([]byte, error) {
	timeout := durationOr(b.CaptureTimeout, DefaultCaptureTimeout)
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	buf, err := page.CaptureViewport(cctx, pagesnap.FormatJPEG, b.quality())
	if err != nil {
		if err := cancelled(ctx); err != nil {
			return nil, err
		}
		if isTimeout(err) {
			return nil, pagesnap.Errorf(pagesnap.ETIMEOUT, "Screenshot timeout: capture exceeded %s", timeout)
		}
		return nil, pagesnap.Errorf(pagesnap.EINTERNAL, "capturing screenshot: %v", err)
	}
	return buf, nil
}

func (b *RenderBackend) viewport() pagesnap.Viewport {
	if b.Viewport.Width <= 0 || b.Viewport.Height <= 0 {
		return pagesnap.DefaultViewport
	}
	return b.Viewport
}

func (b *RenderBackend) ready() pagesnap.ReadyCondition {
	if b.Ready == "" {
		return pagesnap.ReadyDOMContentLoaded
	}
	return b.Ready
}

func (b *RenderBackend) quality() int {
	if b.Quality < 1 || b.Quality > 100 {
		return DefaultImageQuality
	}
	return b.Quality
}

func (b *RenderBackend) maxPayloadBytes() int {
	if b.MaxPayloadBytes <= 0 {
		return DefaultMaxPayloadBytes
	}
	return b.MaxPayloadBytes
}
