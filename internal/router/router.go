package router

import (
	"net/http"

	"github.com/atokurn/mplace-sub001/internal/config"
	"github.com/atokurn/mplace-sub001/internal/handler"
	"github.com/atokurn/mplace-sub001/internal/logger"
)

// InitRoutes registers every API endpoint on the default mux.
func InitRoutes(cfg *config.Config) {
	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return withCORS(cfg.CORS.AllowOrigin, cfg.CORS.AllowCredentials, withLogging(h))
	}

	http.HandleFunc("/api/list", wrap(handler.ListHandler))
	http.HandleFunc("/api/count", wrap(handler.CountHandler))
	http.HandleFunc("/api/create", wrap(handler.CreateHandler))
	http.HandleFunc("/api/update", wrap(handler.UpdateHandler))
	http.HandleFunc("/api/delete", wrap(handler.DeleteHandler))
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		fields := map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": sw.status,
		}
		switch {
		case sw.status >= 500:
			logger.Error("response", fields)
		case sw.status >= 400:
			logger.Warn("response", fields)
		default:
			logger.Info("response", fields)
		}
	}
}
