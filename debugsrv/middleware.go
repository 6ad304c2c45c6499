package debugsrv

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/plus3/vrscene/logging"
	"go.uber.org/zap"
)

type requestIDKeyType int

const requestIDKey = requestIDKeyType(0)

func withMiddleWares(handler http.Handler, name string) http.Handler {
	return addRequestID(logRequest(handler, name))
}

type responseWrapper struct {
	http.ResponseWriter
	status int
}

func (w *responseWrapper) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func addRequestID(f http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", rid)
		f.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, rid)))
	})
}

func logRequest(f http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rid, _ := r.Context().Value(requestIDKey).(string)
		wrapper := &responseWrapper{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			logging.From(r.Context()).Named(name).Debug("HTTP Request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)),
				zap.String("request", rid),
				zap.Int("status", wrapper.status))
		}()
		f.ServeHTTP(wrapper, r)
	})
}
