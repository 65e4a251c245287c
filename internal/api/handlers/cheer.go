package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/api/middleware"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/service"
)

type CheerHandler struct {
	cheerService *service.CheerService
}

func NewCheerHandler(cheerService *service.CheerService) *CheerHandler {
	return &CheerHandler{cheerService: cheerService}
}

type SendCheerRequest struct {
	AgentName string `json:"agentName"`
	CheerType string `json:"cheerType"`
}

func (h *CheerHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	battleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid battle ID", http.StatusBadRequest)
		return
	}

	var req SendCheerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cheer, err := h.cheerService.SendCheer(r.Context(), service.SendCheerInput{
		BattleID:  battleID,
		UserID:    userID,
		AgentName: req.AgentName,
		CheerType: domain.CheerType(req.CheerType),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBattleNotFound):
			http.Error(w, "Battle not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrInvalidCheerType):
			http.Error(w, "Invalid cheer type", http.StatusBadRequest)
		case errors.Is(err, domain.ErrUnknownAgent):
			http.Error(w, "Unknown agent", http.StatusBadRequest)
		case errors.Is(err, domain.ErrPartnerCannotCheer):
			http.Error(w, "Partners cannot cheer their own battle", http.StatusForbidden)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, cheer)
}

// List returns every cheer for the battle, or only the latest N when the
// `recent` query parameter is set.
func (h *CheerHandler) List(w http.ResponseWriter, r *http.Request) {
	battleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid battle ID", http.StatusBadRequest)
		return
	}

	var cheers []*domain.Cheer
	if recentParam := r.URL.Query().Get("recent"); recentParam != "" {
		limit, _ := strconv.Atoi(recentParam)
		cheers, err = h.cheerService.Recent(r.Context(), battleID, limit)
	} else {
		cheers, err = h.cheerService.List(r.Context(), battleID)
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, cheers)
}

func (h *CheerHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	battleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid battle ID", http.StatusBadRequest)
		return
	}

	tally, err := h.cheerService.Tally(r.Context(), battleID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, tally)
}
