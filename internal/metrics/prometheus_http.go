package metrics

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
	"git.home.luguber.info/inful/mdqrcode/internal/logfields"
)

// Path is where Server exposes the registry.
const Path = "/metrics"

// HTTPHandler serves reg in the Prometheus exposition format. A nil registry
// serves the process-wide default registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Server is a running metrics endpoint.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// Serve binds addr and serves reg on Path in the background. A bind failure
// is returned immediately as a runtime error.
func Serve(addr string, reg *prom.Registry, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to start metrics server").
			WithContext("addr", addr).
			Build()
	}

	mux := http.NewServeMux()
	mux.Handle(Path, HTTPHandler(reg))
	s := &Server{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", logfields.Error(err))
		}
	}()

	logger.Info("Serving metrics", logfields.Addr(s.Addr()))
	return s, nil
}

// Addr is the bound address, with the real port when addr asked for :0.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Shutdown stops accepting scrapes and waits for in-flight ones until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
