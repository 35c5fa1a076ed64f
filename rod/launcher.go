// Package rod implements pagesnap.Launcher with go-rod, driving a headless
// Chrome/Chromium process over the DevTools protocol.
package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/pagesnap"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultTeardownTimeout bounds closing a page or browser.
const DefaultTeardownTimeout = 5 * time.Second

// Ensure Launcher implements pagesnap.Launcher at compile time.
var _ pagesnap.Launcher = (*Launcher)(nil)

// Launcher starts one headless browser process per Launch call.
// Launcher is safe for concurrent use; sessions are never shared.
type Launcher struct {
	bin             string
	flags           []string
	teardownTimeout time.Duration
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithBin sets the browser executable. When empty, rod finds or downloads
// a Chromium build.
func WithBin(path string) Option {
	return func(l *Launcher) {
		l.bin = path
	}
}

// WithFlags replaces the command-line flags passed to the browser.
// Defaults to pagesnap.DefaultLaunchFlags.
func WithFlags(flags ...string) Option {
	return func(l *Launcher) {
		l.flags = flags
	}
}

// WithTeardownTimeout bounds page close and, separately, how long Release
// waits for the browser to close before killing the process.
func WithTeardownTimeout(d time.Duration) Option {
	return func(l *Launcher) {
		l.teardownTimeout = d
	}
}

// NewLauncher creates a new Launcher.
func NewLauncher(opts ...Option) *Launcher {
	l := &Launcher{
		flags:           pagesnap.DefaultLaunchFlags,
		teardownTimeout: DefaultTeardownTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TeardownTimeout returns the bound applied to each of page close and
// browser close.
func (l *Launcher) TeardownTimeout() time.Duration {
	return l.teardownTimeout
}

// Launch starts a browser and connects to it. The context bounds the
// launch; once Launch returns, the session lives until Release.
func (l *Launcher) Launch(ctx context.Context) (pagesnap.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lnchr := launcher.New().
		Context(ctx).
		Leakless(true).
		Headless(true)
	if l.bin != "" {
		lnchr = lnchr.Bin(l.bin)
	}
	for _, f := range l.flags {
		lnchr = lnchr.Set(flags.Flag(f))
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill() // Clean up launched process on connection failure
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &Session{
		browser:         browser,
		launcher:        lnchr,
		teardownTimeout: l.teardownTimeout,
	}, nil
}

// Ensure Session implements pagesnap.Session at compile time.
var _ pagesnap.Session = (*Session)(nil)

// Session is one browser process owned by a single request.
type Session struct {
	browser         *rod.Browser
	launcher        *launcher.Launcher
	teardownTimeout time.Duration

	once sync.Once
	err  error
}

// OpenPage opens a blank tab with the given viewport.
func (s *Session) OpenPage(ctx context.Context, viewport pagesnap.Viewport) (pagesnap.Page, error) {
	page, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	// Detach from ctx so teardown still works after the request is cancelled.
	page = page.Context(context.Background())

	p := &Page{page: page, teardownTimeout: s.teardownTimeout}
	if err := page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewport.Width,
		Height:            viewport.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("setting viewport: %w", err)
	}
	return p, nil
}

// Release closes the browser and kills its process. Only the first call
// has an effect; later calls return the first call's error.
func (s *Session) Release() error {
	s.once.Do(func() {
		s.err = s.browser.Timeout(s.teardownTimeout).Close()
		s.launcher.Kill()
		s.launcher.Cleanup()
	})
	return s.err
}

// LauncherPID returns the process ID of the browser.
// This method exists for testing purposes to verify proper cleanup.
func (s *Session) LauncherPID() int {
	return s.launcher.PID()
}
