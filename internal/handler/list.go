package handler

import (
	"net/http"

	"github.com/atokurn/mplace-sub001/internal/listing"
	"github.com/atokurn/mplace-sub001/internal/logger"
)

type listRequest struct {
	Entity string `json:"entity"`
	listing.ListRequest
}

// ListHandler serves POST /api/list: one page of rows plus counts for
// any registered entity kind.
func ListHandler(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !decodePost(w, r, "/api/list", &req) {
		return
	}

	logger.Debug("request", map[string]any{
		"endpoint": "/api/list",
		"entity":   req.Entity,
		"page":     req.Page,
		"perPage":  req.PerPage,
	})

	result, err := service.List(r.Context(), req.Entity, req.ListRequest)
	if err != nil {
		writeServiceError(w, "/api/list", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
