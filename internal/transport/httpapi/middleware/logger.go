package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/danuarta/dompetku/pkg/logger"
)

// errorBodyLimit caps how much of an error response body is buffered
// for log extraction.
const errorBodyLimit = 4 << 10

// errorRecorder wraps chi's WrapResponseWriter to keep a bounded copy of
// the response body when the status indicates a failure.
type errorRecorder struct {
	chimiddleware.WrapResponseWriter
	buf        bytes.Buffer
	statusCode int
}

func (e *errorRecorder) WriteHeader(code int) {
	e.statusCode = code
	e.WrapResponseWriter.WriteHeader(code)
}

func (e *errorRecorder) Write(b []byte) (int, error) {
	if e.statusCode >= 400 && e.buf.Len() < errorBodyLimit {
		e.buf.Write(b)
	}
	return e.WrapResponseWriter.Write(b)
}

// errorMessage pulls the "error" field out of a JSON error body.
func (e *errorRecorder) errorMessage() string {
	var obj struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(e.buf.Bytes(), &obj) == nil {
		return obj.Error
	}
	return ""
}

// Logger returns a request logging middleware. Failures log at Warn
// (client errors) or Error (server errors) with the response's error
// message attached.
func Logger(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			rec := &errorRecorder{
				WrapResponseWriter: chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor),
			}
			start := time.Now()

			// Propagate chi's request ID into our typed context key
			reqID := chimiddleware.GetReqID(r.Context())
			if reqID != "" {
				ctx := context.WithValue(r.Context(), logger.RequestIDKey, reqID)
				r = r.WithContext(ctx)
			}

			defer func() {
				status := rec.Status()
				attrs := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"user_agent", r.UserAgent(),
					"status", status,
					"bytes", rec.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
				}
				if reqID != "" {
					attrs = append(attrs, "request_id", reqID)
				}

				switch {
				case status >= 500:
					if msg := rec.errorMessage(); msg != "" {
						attrs = append(attrs, "error", msg)
					}
					log.Error("HTTP request", attrs...)
				case status >= 400:
					if msg := rec.errorMessage(); msg != "" {
						attrs = append(attrs, "error", msg)
					}
					log.Warn("HTTP request", attrs...)
				default:
					log.Info("HTTP request", attrs...)
				}
			}()

			next.ServeHTTP(rec, r)
		}
		return http.HandlerFunc(fn)
	}
}
