package handler

import (
	"net/http"

	"github.com/atokurn/mplace-sub001/internal/listing"
)

type countRequest struct {
	Entity string `json:"entity"`
	listing.ListRequest
}

// CountHandler serves POST /api/count: the filtered total only, for
// dashboard tiles that render a number without rows.
func CountHandler(w http.ResponseWriter, r *http.Request) {
	var req countRequest
	if !decodePost(w, r, "/api/count", &req) {
		return
	}

	total, err := service.Count(r.Context(), req.Entity, req.ListRequest)
	if err != nil {
		writeServiceError(w, "/api/count", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"count": total})
}
