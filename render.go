package pagesnap

import "context"

// ReadyCondition is the page lifecycle event navigation waits for.
// Later conditions produce more complete renders at the cost of latency.
type ReadyCondition string

// ReadyCondition constants.
const (
	ReadyDOMContentLoaded ReadyCondition = "domcontentloaded"
	ReadyLoad             ReadyCondition = "load"
	ReadyNetworkIdle      ReadyCondition = "networkidle"
)

// ParseReadyCondition returns the ReadyCondition for s, or EINVALID.
func ParseReadyCondition(s string) (ReadyCondition, error) {
	switch c := ReadyCondition(s); c {
	case ReadyDOMContentLoaded, ReadyLoad, ReadyNetworkIdle:
		return c, nil
	}
	return "", Errorf(EINVALID, "unknown ready condition %q", s)
}

// ImageFormat is a raster format a page can be captured in.
type ImageFormat string

// ImageFormat constants.
const (
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
)

// Viewport is the page size used for rendering and capture.
type Viewport struct {
	Width  int
	Height int
}

// DefaultViewport bounds the size of captured screenshots.
var DefaultViewport = Viewport{Width: 1280, Height: 720}

// DefaultLaunchFlags is the minimal capability profile for rendering
// sessions: headless, single process, no sandbox privileges.
var DefaultLaunchFlags = []string{
	"disable-gpu",
	"disable-dev-shm-usage",
	"disable-setuid-sandbox",
	"disable-extensions",
	"no-first-run",
	"no-sandbox",
	"no-zygote",
	"single-process",
}

// Launcher starts isolated rendering sessions.
type Launcher interface {
	// Launch starts a new browser process. Each call returns a session that
	// is owned exclusively by the caller, who must call Release.
	Launch(ctx context.Context) (Session, error)
}

// Session is one isolated rendering process.
type Session interface {
	// OpenPage opens a tab sized to the viewport.
	OpenPage(ctx context.Context, viewport Viewport) (Page, error)

	// Release terminates the rendering process. Release is safe to call
	// more than once; only the first call has an effect.
	Release() error
}

// Page is a single tab within a Session.
type Page interface {
	// Navigate loads url and waits until the ready condition is reached or
	// ctx is done.
	Navigate(ctx context.Context, url string, ready ReadyCondition) error

	// CaptureViewport renders the visible viewport (not the full scrollable
	// page) to an image.
	CaptureViewport(ctx context.Context, format ImageFormat, quality int) ([]byte, error)

	// Close closes the tab.
	Close() error
}

// Processor runs extraction requests end to end. Process never returns an
// error value: every failure is reported through the Result.
type Processor interface {
	Process(ctx context.Context, req *Request) *Result
}

// Backend is one extraction strategy. Failures are returned as *Error values
// carrying one of the application error codes.
type Backend interface {
	Extract(ctx context.Context, url string) (*Result, error)
}
