package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bornholm/montage/internal/http/middleware/ratelimit"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	sloghttp "github.com/samber/slog-http"
)

type Server struct {
	opts *Options
}

func (s *Server) Run(ctx context.Context) error {
	handler := s.handler()

	server := &http.Server{
		Addr:              s.opts.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	listener, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return errors.Wrapf(err, "could not listen on '%s'", s.opts.Address)
	}

	slog.InfoContext(ctx, "http server listening", slog.String("address", listener.Addr().String()))

	errs := make(chan error, 1)

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- errors.WithStack(err)
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	slog.InfoContext(ctx, "shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()

	baseURL := "/" + strings.Trim(s.opts.BaseURL, "/")

	for prefix, h := range s.opts.Mounts {
		pattern := strings.TrimSuffix(baseURL, "/") + prefix
		stripped := strings.TrimSuffix(pattern, "/")
		mux.Handle(pattern, http.StripPrefix(stripped, h))
	}

	var handler http.Handler = mux

	if s.opts.BasicAuth != nil {
		handler = basicAuth(*s.opts.BasicAuth)(handler)
	}

	if s.opts.RateLimit != nil {
		handler = ratelimit.Middleware(
			ratelimit.WithLimit(s.opts.RateLimit.Interval, s.opts.RateLimit.Burst),
			ratelimit.WithTrustHeaders(s.opts.RateLimit.TrustHeaders),
		)(handler)
	}

	if len(s.opts.AllowedOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   s.opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler(handler)
	}

	handler = sloghttp.Recovery(handler)
	handler = sloghttp.NewWithConfig(slog.Default(), sloghttp.Config{
		DefaultLevel:     slog.LevelDebug,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	})(handler)

	return handler
}

func NewServer(funcs ...OptionFunc) *Server {
	opts := NewOptions(funcs...)
	return &Server{
		opts: opts,
	}
}
