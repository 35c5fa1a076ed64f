package mock

import (
	"context"

	"github.com/fwojciec/pagesnap"
)

// Compile-time interface verification.
var (
	_ pagesnap.Launcher  = (*Launcher)(nil)
	_ pagesnap.Session   = (*Session)(nil)
	_ pagesnap.Page      = (*Page)(nil)
	_ pagesnap.Backend   = (*Backend)(nil)
	_ pagesnap.Processor = (*Processor)(nil)
)

// Launcher is a mock implementation of pagesnap.Launcher.
type Launcher struct {
	LaunchFn func(ctx context.Context) (pagesnap.Session, error)
}

func (l *Launcher) Launch(ctx context.Context) (pagesnap.Session, error) {
	return l.LaunchFn(ctx)
}

// Session is a mock implementation of pagesnap.Session.
type Session struct {
	OpenPageFn func(ctx context.Context, viewport pagesnap.Viewport) (pagesnap.Page, error)
	ReleaseFn  func() error
}

func (s *Session) OpenPage(ctx context.Context, viewport pagesnap.Viewport) (pagesnap.Page, error) {
	return s.OpenPageFn(ctx, viewport)
}

func (s *Session) Release() error {
	return s.ReleaseFn()
}

// Page is a mock implementation of pagesnap.Page.
type Page struct {
	NavigateFn        func(ctx context.Context, url string, ready pagesnap.ReadyCondition) error
	CaptureViewportFn func(ctx context.Context, format pagesnap.ImageFormat, quality int) ([]byte, error)
	CloseFn           func() error
}

func (p *Page) Navigate(ctx context.Context, url string, ready pagesnap.ReadyCondition) error {
	return p.NavigateFn(ctx, url, ready)
}

func (p *Page) CaptureViewport(ctx context.Context, format pagesnap.ImageFormat, quality int) ([]byte, error) {
	return p.CaptureViewportFn(ctx, format, quality)
}

func (p *Page) Close() error {
	return p.CloseFn()
}

// Backend is a mock implementation of pagesnap.Backend.
type Backend struct {
	ExtractFn func(ctx context.Context, url string) (*pagesnap.Result, error)
}

func (b *Backend) Extract(ctx context.Context, url string) (*pagesnap.Result, error) {
	return b.ExtractFn(ctx, url)
}

// Processor is a mock implementation of pagesnap.Processor.
type Processor struct {
	ProcessFn func(ctx context.Context, req *pagesnap.Request) *pagesnap.Result
}

func (p *Processor) Process(ctx context.Context, req *pagesnap.Request) *pagesnap.Result {
	return p.ProcessFn(ctx, req)
}
