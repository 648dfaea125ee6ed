package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/meetingnotes/logger"
	"github.com/kbukum/meetingnotes/observability"
	"github.com/kbukum/meetingnotes/server/endpoint"
	"github.com/kbukum/meetingnotes/server/middleware"
)

const shutdownTimeout = 5 * time.Second

// Server is an HTTP server backed by Gin, served over HTTP/1.1 and h2c.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger
	listener   net.Listener
}

// New creates a new Server. The Gin engine is created with no middleware;
// call ApplyMiddleware before registering routes.
func New(cfg Config, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	engine := gin.New()
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          time.Duration(cfg.IdleTimeout) * time.Second,
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           h2c.NewHandler(engine, h2s),
			ReadTimeout:       time.Duration(cfg.ReadTimeout) * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      time.Duration(cfg.WriteTimeout) * time.Second,
			IdleTimeout:       time.Duration(cfg.IdleTimeout) * time.Second,
		},
		engine: engine,
		config: cfg,
		log:    log.WithComponent("server"),
	}
}

// Engine returns the underlying Gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler returns the root handler, h2c included. Tests serve it through
// httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ApplyMiddleware installs the standard stack: recovery, request ID,
// tracing, request logging, metrics and, when configured, the body size
// limit.
func (s *Server) ApplyMiddleware(metrics *observability.Metrics) {
	s.engine.Use(middleware.Recovery(s.log))
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Tracing())
	s.engine.Use(middleware.RequestLogger(s.log))
	s.engine.Use(middleware.Metrics(metrics))
	if s.config.MaxBodySize != "" {
		s.engine.Use(middleware.BodySizeLimit(s.config.MaxBodySize))
	}
}

// RegisterDefaultEndpoints registers /health and /info.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checkers ...observability.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(serviceName, checkers...))
	s.engine.GET("/info", endpoint.Info(serviceName))
}

// Routes lists the registered routes as "METHOD /path", sorted by path.
func (s *Server) Routes() []string {
	routes := s.engine.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.Method+" "+r.Path)
	}
	return out
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(_ context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.Fields("error", err.Error()))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Addr returns the bound address once started, otherwise the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Stop gracefully shuts down the server. In-flight uploads get a bounded
// grace period to finish.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server shut down successfully")
	return nil
}
