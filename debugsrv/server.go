// Package debugsrv serves scene snapshots and metrics over HTTP while the
// scene runs.
package debugsrv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/plus3/vrscene/logging"
	"github.com/plus3/vrscene/scene"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var ErrEntityNotFound = errors.New("entity not found")

// Server serves the debug endpoints.
type Server struct {
	router    *mux.Router
	publisher *Publisher
}

// New creates a server reading from publisher and exposing gatherer on /metrics.
func New(publisher *Publisher, gatherer prometheus.Gatherer) *Server {
	s := &Server{router: mux.NewRouter(), publisher: publisher}
	s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
	s.router.HandleFunc("/scene", s.getScene).Methods("GET")
	s.router.HandleFunc("/scene/{id:[0-9]+}", s.getEntity).Methods("GET")
	s.router.HandleFunc("/stats", s.getStats).Methods("GET")
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) getScene(w http.ResponseWriter, r *http.Request) {
	respond(r).WithJSON(w, http.StatusOK, s.publisher.Snapshot())
}

func (s *Server) getEntity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respond(r).WithError(w, http.StatusBadRequest, err)
		return
	}
	for _, e := range s.publisher.Snapshot().Entities {
		if e.ID == scene.EntityId(id) {
			respond(r).WithJSON(w, http.StatusOK, e)
			return
		}
	}
	respond(r).WithError(w, http.StatusNotFound, fmt.Errorf("%w: %d", ErrEntityNotFound, id))
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	respond(r).WithJSON(w, http.StatusOK, s.publisher.Stats())
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	log, ctx := logging.SubFrom(ctx, "debugsrv")
	server := http.Server{
		Addr:        addr,
		Handler:     withMiddleWares(s, "debugsrv"),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errs := make(chan error, 1)
	go func() {
		log.Info("Starting debug HTTP server...", zap.String("bindAddr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown debug HTTP server", zap.Error(err))
		return err
	}
	log.Info("Debug HTTP server stopped")
	return nil
}

type responder struct {
	indent bool
}

func respond(r *http.Request) responder {
	return responder{indent: r.URL.Query().Get("pretty") == "true"}
}

func (r responder) WithError(w http.ResponseWriter, status int, err error) {
	r.WithJSON(w, status, map[string]string{"error": err.Error()})
}

func (r responder) WithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	if r.indent {
		encoder.SetIndent("", "  ")
	}
	encoder.Encode(payload)
}
