package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atokurn/mplace-sub001/internal/listing"
	"github.com/atokurn/mplace-sub001/internal/logger"
)

var service *listing.Service

// Init wires the shared listing service used by every endpoint.
func Init(svc *listing.Service) {
	service = svc
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("write_response_failed", map[string]any{
			"error": err.Error(),
		})
	}
}

// writeServiceError maps the service error taxonomy onto HTTP statuses:
// unknown entity kinds are 404 (a wiring mistake the client can see),
// store failures are a generic 500 the UI renders as an empty state.
func writeServiceError(w http.ResponseWriter, endpoint string, err error) {
	var cfgErr *listing.ConfigurationError
	if errors.As(err, &cfgErr) {
		logger.Warn("unknown_entity", map[string]any{
			"endpoint": endpoint,
			"kind":     cfgErr.Kind,
		})
		writeJSON(w, http.StatusNotFound, map[string]string{"error": cfgErr.Error()})
		return
	}
	logger.Error("store_error", map[string]any{
		"endpoint": endpoint,
		"error":    err.Error(),
	})
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "unable to load"})
}

func decodePost(w http.ResponseWriter, r *http.Request, endpoint string, dst any) bool {
	if r.Method != http.MethodPost {
		logger.Warn("method_not_allowed", map[string]any{
			"endpoint": endpoint,
			"method":   r.Method,
		})
		http.Error(w, "Only POST allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Warn("invalid_json", map[string]any{
			"endpoint": endpoint,
			"error":    err.Error(),
		})
		http.Error(w, "Invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
