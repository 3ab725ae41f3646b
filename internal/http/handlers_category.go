package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"maccounting/internal/core"
	applog "maccounting/internal/log"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.store.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", applog.FieldError, err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if cats == nil {
		cats = []core.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleUpsertCategories(w http.ResponseWriter, r *http.Request) {
	var batch []core.Category
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid category payload: %v", err))
		return
	}
	if batch == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid category payload: expected an array")
		return
	}
	for i, c := range batch {
		if err := c.Validate(); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("invalid category at index %d: %v", i, err))
			return
		}
	}
	if err := s.store.UpsertCategories(r.Context(), batch); err != nil {
		slog.ErrorContext(r.Context(), "Upsert categories failed", applog.FieldError, err, "batch_size", len(batch))
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.handleListCategories(w, r)
}
