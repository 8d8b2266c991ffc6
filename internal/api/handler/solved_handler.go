package handler

import (
	"encoding/json"
	"net/http"

	"grindtrack/internal/api/middleware"
	"grindtrack/internal/app/service"
	"grindtrack/internal/common"

	"github.com/go-chi/chi/v5"
)

type SolvedHandler struct {
	solvedService *service.SolvedService
}

func NewSolvedHandler(solvedService *service.SolvedService) *SolvedHandler {
	return &SolvedHandler{solvedService: solvedService}
}

func (h *SolvedHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.add)
	r.Get("/", h.list)
	r.Get("/stats", h.stats)
}

func (h *SolvedHandler) add(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.AddSolvedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.solvedService.Add(r.Context(), username, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *SolvedHandler) list(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	records, err := h.solvedService.List(r.Context(), username)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Questions fetched successfully",
		"solved":  records,
	})
}

func (h *SolvedHandler) stats(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	stats, err := h.solvedService.Stats(r.Context(), username)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}
