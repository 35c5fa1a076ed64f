// Package chromedp implements pagesnap.Launcher with chromedp. It is an
// alternative to the rod package for environments that already standardize
// on chromedp's exec allocator.
package chromedp

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/fwojciec/pagesnap"
)

// Ensure Launcher implements pagesnap.Launcher at compile time.
var _ pagesnap.Launcher = (*Launcher)(nil)

// Launcher starts one headless browser process per Launch call.
type Launcher struct {
	execPath string
	flags    []string
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithExecPath sets the browser executable. When empty, chromedp searches
// the usual install locations.
func WithExecPath(path string) Option {
	return func(l *Launcher) {
		l.execPath = path
	}
}

// WithFlags replaces the extra command-line flags passed to the browser.
// Defaults to pagesnap.DefaultLaunchFlags.
func WithFlags(flags ...string) Option {
	return func(l *Launcher) {
		l.flags = flags
	}
}

// NewLauncher creates a new Launcher.
func NewLauncher(opts ...Option) *Launcher {
	l := &Launcher{flags: pagesnap.DefaultLaunchFlags}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Launcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
	)
	for _, f := range l.flags {
		opts = append(opts, chromedp.Flag(f, true))
	}
	if l.execPath != "" {
		opts = append(opts, chromedp.ExecPath(l.execPath))
	}
	return opts
}

// Launch starts a browser. ctx bounds the launch only: the browser's own
// context is detached from it so the session survives until Release.
func (l *Launcher) Launch(ctx context.Context) (pagesnap.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), l.allocatorOptions()...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// The first Run allocates the browser with the context it is given, so
	// it must run on browserCtx itself. Cancellation of ctx kills it instead.
	stop := context.AfterFunc(ctx, cancelBrowser)
	err := chromedp.Run(browserCtx)
	stop()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		cancelBrowser()
		cancelAlloc()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	return &Session{
		browserCtx:  browserCtx,
		cancelAlloc: cancelAlloc,
	}, nil
}

// Ensure Session implements pagesnap.Session at compile time.
var _ pagesnap.Session = (*Session)(nil)

// Session is one browser process owned by a single request.
type Session struct {
	browserCtx  context.Context
	cancelAlloc context.CancelFunc

	once sync.Once
	err  error
}

// OpenPage sizes the session's tab to viewport and returns it.
func (s *Session) OpenPage(ctx context.Context, viewport pagesnap.Viewport) (pagesnap.Page, error) {
	err := run(ctx, s.browserCtx,
		chromedp.EmulateViewport(int64(viewport.Width), int64(viewport.Height)),
	)
	if err != nil {
		return nil, fmt.Errorf("setting viewport: %w", err)
	}
	return &Page{tab: s.browserCtx}, nil
}

// Release closes the browser and stops the allocator, which kills the
// process. Only the first call has an effect.
func (s *Session) Release() error {
	s.once.Do(func() {
		s.err = chromedp.Cancel(s.browserCtx)
		s.cancelAlloc()
	})
	return s.err
}

// run executes actions on an already allocated target, aborting them when
// ctx is done. Cancelling the derived context never closes the target.
func run(ctx, target context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(target)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
