package handler

import (
	"net/http"

	"github.com/atokurn/mplace-sub001/internal/logger"
)

type createRequest struct {
	Entity string         `json:"entity"`
	Values map[string]any `json:"values"`
}

type updateRequest struct {
	Entity string         `json:"entity"`
	ID     string         `json:"id"`
	Values map[string]any `json:"values"`
}

type deleteRequest struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
}

// CreateHandler serves POST /api/create. Fields are validated against
// the entity registry; the listing cache for the kind is invalidated
// before the response is written.
func CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decodePost(w, r, "/api/create", &req) {
		return
	}

	id, err := service.Create(r.Context(), req.Entity, req.Values)
	if err != nil {
		writeServiceError(w, "/api/create", err)
		return
	}

	logger.Info("entity_created", map[string]any{
		"entity": req.Entity,
		"id":     id,
	})
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// UpdateHandler serves POST /api/update.
func UpdateHandler(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !decodePost(w, r, "/api/update", &req) {
		return
	}
	if req.ID == "" {
		http.Error(w, "Missing id", http.StatusBadRequest)
		return
	}

	affected, err := service.Update(r.Context(), req.Entity, req.ID, req.Values)
	if err != nil {
		writeServiceError(w, "/api/update", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"updated": affected})
}

// DeleteHandler serves POST /api/delete.
func DeleteHandler(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if !decodePost(w, r, "/api/delete", &req) {
		return
	}
	if req.ID == "" {
		http.Error(w, "Missing id", http.StatusBadRequest)
		return
	}

	affected, err := service.Delete(r.Context(), req.Entity, req.ID)
	if err != nil {
		writeServiceError(w, "/api/delete", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": affected})
}
