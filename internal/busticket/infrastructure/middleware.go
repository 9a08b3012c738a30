package infrastructure

import (
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"

	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
)

const RequestIDHeader = "X-Request-ID"

var validRequestID = regexp.MustCompile(`^[a-zA-Z0-9-._:]+$`)

// RequestID aceita o X-Request-ID do cliente quando bem formado e gera um
// uuid nos demais casos. O id segue no contexto para os logs e o backend.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" || len(reqID) > 128 || !validRequestID.MatchString(reqID) {
			reqID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, reqID)
		next.ServeHTTP(w, r.WithContext(pkgApp.WithRequestID(r.Context(), reqID)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLogging registra método, caminho, status e duração de cada requisição.
func RequestLogging(logger pkgApp.AppLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sw, r)

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      sw.statusCode,
				"duration_ms": float64(time.Since(start).Nanoseconds()) / 1e6,
				"user_agent":  r.Header.Get("User-Agent"),
			}
			if sw.statusCode >= http.StatusInternalServerError {
				pkgApp.LogInfo(r.Context(), logger, "Requisição falhou", fields)
				return
			}
			pkgApp.LogDebug(r.Context(), logger, "Requisição concluída", fields)
		})
	}
}
