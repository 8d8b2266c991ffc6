package handler

import (
	"fmt"
	"net/http"

	"grindtrack/internal/api/middleware"
	"grindtrack/internal/app/service"
	"grindtrack/internal/common"

	"github.com/go-chi/chi/v5"
)

type SyncHandler struct {
	syncService *service.SyncService
}

func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

func (h *SyncHandler) RegisterRoutes(r chi.Router) {
	r.Post("/leetcode", h.syncLeetCode)
	r.Get("/codeforces", h.syncCodeforcesStream)
}

func (h *SyncHandler) syncLeetCode(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	result, err := h.syncService.SyncLeetCode(r.Context(), username)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

// syncCodeforcesStream runs the Codeforces sync, streaming progress as
// server-sent events. The stream always terminates with "data: DONE".
func (h *SyncHandler) syncCodeforcesStream(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		common.RespondWithError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	writeEvent := func(msg string) {
		fmt.Fprintf(w, "data: %s\n\n", msg)
		flusher.Flush()
	}

	if _, err := h.syncService.SyncCodeforces(r.Context(), username, writeEvent); err != nil {
		// Headers are already out; report the failure in-stream.
		writeEvent("Error syncing with Codeforces")
		return
	}
	writeEvent("DONE")
}
