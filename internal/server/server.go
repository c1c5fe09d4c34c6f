package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mgpai22/capline/internal/logging"
	"github.com/mgpai22/capline/internal/session"
	"github.com/mgpai22/capline/internal/source"
)

// Server exposes one caption session over HTTP. Every request holds mu
// for its whole duration, which gives the session a single event queue.
type Server struct {
	mu     sync.Mutex
	ctrl   *session.Controller
	prober source.Prober
	logger *logging.Logger

	echo *echo.Echo
}

// Options configure the HTTP surface.
type Options struct {
	Session session.Options
	// probe media on load; nil disables probing
	Prober       source.Prober
	ProbeTimeout time.Duration
	Version      string
}

func New(logger *logging.Logger, opts Options) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{
		ctrl:   session.NewController(session.NewState(), logger, opts.Session),
		prober: opts.Prober,
		logger: logger.Named("server"),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debugw("Request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
			)
			return nil
		},
	}))

	h := &handler{srv: s, probeTimeout: opts.ProbeTimeout}
	if h.probeTimeout == 0 {
		h.probeTimeout = 15 * time.Second
	}

	version := opts.Version
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	api := e.Group("/api")
	api.GET("/state", h.State)
	api.GET("/classify", h.Classify)
	api.PUT("/video", h.LoadVideo)
	api.GET("/captions", h.ListCaptions)
	api.POST("/captions", h.AddCaption)
	api.POST("/playback/tick", h.Tick)
	api.POST("/playback/error", h.Fail)

	s.echo = e
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("Starting caption server", "addr", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Infow("Shutting down caption server")
	err := s.echo.Shutdown(shutdownCtx)

	s.mu.Lock()
	s.ctrl.Close()
	s.mu.Unlock()
	return err
}
