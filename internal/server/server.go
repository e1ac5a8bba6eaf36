package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/homewall/wallsense/internal/analysis"
	"github.com/homewall/wallsense/internal/source"
)

// Server wires the analysis pipeline to its HTTP endpoints.
type Server struct {
	decode source.Decoder
	cfg    analysis.Config
	log    *logrus.Logger
}

// New creates a Server.
//
// Parameters:
//   - decode: the image decoding capability. Injected explicitly so tests
//     can substitute a stub; the server never constructs one ambiently.
//   - cfg: pipeline thresholds shared by all requests.
//   - log: destination for request and error logs. Pass nil to use the
//     logrus standard logger.
func New(decode source.Decoder, cfg analysis.Config, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{decode: decode, cfg: cfg, log: log}
}

// Handler returns the routed HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/segment", s.handleSegment)
	mux.HandleFunc("/api/color-palette", s.handleColorPalette)
	mux.HandleFunc("/api/depth", s.handleDepth)
	return s.withRequestLog(mux)
}

type contextKey string

const logEntryKey contextKey = "logEntry"

// requestLog returns the per-request log entry carrying the request ID.
func (s *Server) requestLog(r *http.Request) *logrus.Entry {
	if entry, ok := r.Context().Value(logEntryKey).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(s.log)
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestLog assigns each request a UUID, makes the tagged log entry
// available to handlers via the request context, and logs the outcome.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		entry := s.log.WithField("request_id", uuid.NewString())
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		ctx := context.WithValue(r.Context(), logEntryKey, entry)
		next.ServeHTTP(rec, r.WithContext(ctx))

		entry.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request handled")
	})
}
