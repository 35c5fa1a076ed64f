// Package echo serves the extraction pipeline over HTTP.
package echo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/pagesnap"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultShutdownTimeout bounds how long Close waits for in-flight requests.
const DefaultShutdownTimeout = 35 * time.Second

// Server exposes a pagesnap.Processor as a JSON API.
type Server struct {
	// Addr is the listen address, e.g. ":8080". Set before calling Open.
	Addr string

	// ShutdownTimeout defaults to DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	processor pagesnap.Processor
	logger    *slog.Logger
	gatherer  prometheus.Gatherer

	e  *echo.Echo
	ln net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request logs and server errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer sets the registry exposed on /metrics.
// Defaults to prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates a Server routing requests to p.
func NewServer(p pagesnap.Processor, opts ...Option) *Server {
	s := &Server{
		processor: p,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		gatherer:  prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				s.logger.Error("http request", append(attrs, "err", v.Error)...)
				return nil
			}
			s.logger.Info("http request", attrs...)
			return nil
		},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	e.POST("/api/process-url", s.handleProcessURL)

	s.e = e
	return s
}

// ServeHTTP lets the server be used as a plain http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

// Open starts listening on Addr and serves requests in the background.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.Addr, err)
	}
	s.ln = ln
	s.e.Listener = ln
	go func() {
		if err := s.e.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server", "err", err)
		}
	}()
	return nil
}

// URL returns the base URL of the listening server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close stops accepting connections and waits for in-flight requests.
func (s *Server) Close() error {
	timeout := s.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.e.Shutdown(ctx)
}

// processURLRequest accepts the strategy under either of its historical
// field names.
type processURLRequest struct {
	URL      string `json:"url"`
	Strategy string `json:"strategy"`
	Action   string `json:"action"`
}

func (s *Server) handleProcessURL(c echo.Context) error {
	var body processURLRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, pagesnap.NewResponse(
			pagesnap.NewFailure(pagesnap.Errorf(pagesnap.EINVALID, "invalid request body")),
		))
	}

	name := body.Strategy
	if name == "" {
		name = body.Action
	}
	// Unrecognized names are passed through so the processor reports them
	// after URL validation.
	strategy, err := pagesnap.ParseStrategy(name)
	if err != nil {
		strategy = pagesnap.Strategy(name)
	}

	result := s.processor.Process(c.Request().Context(), &pagesnap.Request{
		URL:      body.URL,
		Strategy: strategy,
	})
	return c.JSON(http.StatusOK, pagesnap.NewResponse(result))
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	_ = c.JSON(code, &pagesnap.Response{Error: msg})
}
