package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/vitalvas/iris/httpwire"
	"github.com/vitalvas/iris/mux"
	"github.com/vitalvas/iris/muxhandlers"
	"github.com/vitalvas/iris/pipeline"
)

// StatusHeaderTooLarge answers a request whose head exceeds MaxHeaderBytes.
const StatusHeaderTooLarge httpwire.Status = "431 Request Header Fields Too Large"

// Server owns a root router and serves it over TCP.
type Server struct {
	cfg     Config
	router  *mux.Router
	logger  *slog.Logger
	metrics *metrics
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	logger     *slog.Logger
	registerer prometheus.Registerer
	router     *mux.Router
}

// WithLogger sets the logger. Defaults to a logger built from
// Config.Logging writing to stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(o *serverOptions) {
		o.logger = logger
	}
}

// WithRegisterer sets the registry the server metrics are registered on.
// Defaults to a private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *serverOptions) {
		o.registerer = reg
	}
}

// WithRouter serves an existing router instead of a new one.
func WithRouter(r *mux.Router) Option {
	return func(o *serverOptions) {
		o.router = r
	}
}

// New returns a server for cfg. The configuration is expected to be
// validated; see LoadConfig.
func New(cfg Config, opts ...Option) *Server {
	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		logger, err := NewLogger(cfg.Logging, os.Stderr)
		if err != nil {
			logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
		}
		o.logger = logger
	}
	if o.registerer == nil {
		o.registerer = prometheus.NewRegistry()
	}
	if o.router == nil {
		o.router = mux.NewRouter()
	}

	return &Server{
		cfg:     cfg,
		router:  o.router,
		logger:  o.logger,
		metrics: newMetrics(o.registerer),
	}
}

// Router returns the root router.
func (s *Server) Router() *mux.Router {
	return s.router
}

// AddRoute registers a pipeline of mw followed by c for method at path.
func (s *Server) AddRoute(path, method string, c pipeline.Controller, mw ...pipeline.Middleware) *Server {
	s.router.AddRoute(path, method, c, mw...)
	return s
}

// AddPipeline registers p for method at path.
func (s *Server) AddPipeline(path, method string, p *pipeline.Pipeline) *Server {
	s.router.AddPipeline(path, method, p)
	return s
}

// AddStatic registers a payload served for every method at path.
func (s *Server) AddStatic(path string, payload []byte) *Server {
	s.router.AddStatic(path, payload)
	return s
}

// AddModule mounts m at prefix.
func (s *Server) AddModule(prefix string, m mux.Module) *Server {
	s.router.AddModule(prefix, m)
	return s
}

// AddData binds v in the root scope, visible to every route.
func (s *Server) AddData(v any) *Server {
	s.router.AddData(v)
	return s
}

// DumpRoutes writes the route table to w.
func (s *Server) DumpRoutes(w io.Writer) error {
	return s.router.DumpRoutes(w)
}

// Dispatch answers req through the router. A path without a route is
// answered with the default 404 response.
func (s *Server) Dispatch(req *httpwire.Request) *httpwire.Response {
	entry, scope, ok := s.router.Resolve(req.Path)
	if !ok {
		s.logger.Debug("no route matched", "method", req.Method, "path", req.Path)
		return httpwire.NewResponse()
	}

	return entry.Serve(req, scope)
}

// ListenAndServe listens on Config.Address and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address, err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln and hands each one to a worker. At most
// Config.Workers connections are served at once; accepting pauses while all
// workers are busy. When ctx is done the listener is closed and Serve
// returns after the in-flight connections finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		ln.Close()
	})
	defer stop()

	var g errgroup.Group
	g.SetLimit(max(s.cfg.Workers, 1))

	s.logger.Info("serving", "address", ln.Addr().String(), "workers", s.cfg.Workers)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}

			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.logger.Warn("accept timeout", "error", err)
				continue
			}

			_ = g.Wait()
			return fmt.Errorf("failed to accept connection: %w", err)
		}

		g.Go(func() error {
			s.ServeConn(conn)
			return nil
		})
	}

	_ = g.Wait()
	s.logger.Info("stopped", "address", ln.Addr().String())

	return nil
}

// ServeConn reads one request from conn, answers it and closes conn.
func (s *Server) ServeConn(conn net.Conn) {
	defer conn.Close()

	remote := remoteAddr(conn)

	if s.cfg.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			s.logger.Warn("failed to set read deadline", "remote_addr", remote, "error", err)
		}
	}

	req, err := httpwire.ReadRequest(bufio.NewReader(conn), s.cfg.Limits())
	if err != nil {
		s.rejectRequest(conn, remote, err)
		return
	}
	req.Attach(conn)

	start := time.Now()
	defer func() {
		if v := recover(); v != nil {
			s.metrics.violations.Inc()
			s.logger.Error("request aborted",
				"remote_addr", remote,
				"method", req.Method,
				"path", req.Path,
				"panic", panicValue(v),
			)
		}
	}()

	resp := s.Dispatch(req)
	if err := req.Respond(resp); err != nil {
		s.logger.Warn("failed to write response",
			"remote_addr", remote,
			"method", req.Method,
			"path", req.Path,
			"error", err,
		)
		return
	}

	elapsed := time.Since(start)
	s.metrics.observe(methodLabel(req.Method), resp.Status.Code(), elapsed.Seconds())

	attrs := []any{
		"method", req.Method,
		"path", req.Path,
		"status", resp.Status.Code(),
		"duration", elapsed,
	}
	if id, ok := req.HeaderValue(muxhandlers.DefaultRequestIDHeader); ok {
		attrs = append(attrs, "request_id", id)
	}
	s.logger.Info("request", attrs...)
}

// rejectRequest answers a request that could not be read, when the failure
// is one the client can act on, and records it.
func (s *Server) rejectRequest(conn net.Conn, remote string, err error) {
	if errors.Is(err, io.EOF) {
		return
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		s.logger.Debug("read timeout", "remote_addr", remote, "error", err)
		return
	}

	s.metrics.malformed.Inc()
	s.logger.Warn("malformed request", "remote_addr", remote, "error", err)

	var status httpwire.Status
	switch {
	case errors.Is(err, httpwire.ErrHeaderTooLarge):
		status = StatusHeaderTooLarge
	case errors.Is(err, httpwire.ErrBodyTooLarge):
		status = httpwire.StatusContentTooLarge
	case errors.Is(err, httpwire.ErrMalformedRequest):
		status = httpwire.StatusBadRequest
	default:
		return
	}

	resp := httpwire.NewResponse().WithStatus(status)
	if werr := resp.Write(conn, httpwire.DefaultVersion); werr != nil {
		s.logger.Debug("failed to write rejection", "remote_addr", remote, "error", werr)
	}
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

func panicValue(v any) any {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return v
}

// methodLabel bounds the method label to the registered method names.
func methodLabel(method string) string {
	switch method {
	case mux.MethodGet, mux.MethodHead, mux.MethodPost, mux.MethodPut, mux.MethodPatch,
		mux.MethodDelete, mux.MethodConnect, mux.MethodOptions, mux.MethodTrace:
		return method
	}
	return "OTHER"
}
