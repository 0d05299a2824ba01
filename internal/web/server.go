package web

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server wraps the HTTP server and handlers.
type Server struct {
	addr     string
	handlers *Handlers
	log      *zap.SugaredLogger
}

// NewServer creates a server for the given address and handlers.
func NewServer(addr string, handlers *Handlers, log *zap.SugaredLogger) *Server {
	return &Server{
		addr:     addr,
		handlers: handlers,
		log:      log,
	}
}

// Mux returns an http.Handler with all routes registered. Unknown paths
// get the mux's standard 404.
func (s *Server) Mux() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /play", s.handlers.HandlePlay)
	mux.HandleFunc("GET /trigger", s.handlers.HandleTrigger)
	mux.HandleFunc("GET /status", s.handlers.HandleStatus)
	mux.HandleFunc("GET /sounds", s.handlers.HandleSounds)
	mux.HandleFunc("GET /reload", s.handlers.HandleReload)
	mux.HandleFunc("GET /events", s.handlers.HandleEvents)

	return mux
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Mux()}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("http server listening on %s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
