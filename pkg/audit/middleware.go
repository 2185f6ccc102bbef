// Package audit records who changed what through the admin endpoints.
package audit

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/simple-iam/pkg/auth"
)

// Event describes one audited request
type Event struct {
	UserID    int64
	Username  string
	Method    string
	URI       string
	Status    int
	RequestID string
	Timestamp time.Time
	Duration  time.Duration
}

// Sink receives audit events
type Sink interface {
	Record(ctx context.Context, event Event)
}

// LogSink writes events to a slog logger
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger means slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger.With("component", "audit")}
}

// Record logs the event at info level
func (s *LogSink) Record(ctx context.Context, event Event) {
	attrs := []slog.Attr{
		slog.String("method", event.Method),
		slog.String("uri", event.URI),
		slog.Int("status", event.Status),
		slog.Duration("duration", event.Duration),
	}
	if event.UserID != 0 {
		attrs = append(attrs, slog.Int64("user_id", event.UserID), slog.String("username", event.Username))
	}
	if event.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", event.RequestID))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "Audit", attrs...)
}

// Middleware handles HTTP request auditing
type Middleware struct {
	sink Sink
	now  func() time.Time
}

// NewMiddleware creates a new audit middleware instance
func NewMiddleware(sink Sink) *Middleware {
	return &Middleware{sink: sink, now: time.Now}
}

// Handler audits every request that changes state. Reads pass through
// unrecorded. The actor comes from the claims stored by auth.Middleware and
// is absent when the endpoints are public.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !mutating(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		ww, ok := w.(middleware.WrapResponseWriter)
		if !ok {
			ww = middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		}
		start := m.now()
		next.ServeHTTP(ww, r)

		event := Event{
			Method:    r.Method,
			URI:       r.RequestURI,
			Status:    ww.Status(),
			RequestID: middleware.GetReqID(r.Context()),
			Timestamp: start,
			Duration:  m.now().Sub(start),
		}
		if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
			event.UserID = claims.UserID
			event.Username = claims.Username
		}
		m.sink.Record(r.Context(), event)
	})
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
