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

type BattleHandler struct {
	battleService *service.BattleService
}

func NewBattleHandler(battleService *service.BattleService) *BattleHandler {
	return &BattleHandler{battleService: battleService}
}

type CreateBattleRequest struct {
	ThemeID   string `json:"themeId"`
	MaxRounds int    `json:"maxRounds"`
}

type SubmitInstructionsRequest struct {
	Instructions string `json:"instructions"`
}

func (h *BattleHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateBattleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	themeID, err := uuid.Parse(req.ThemeID)
	if err != nil {
		http.Error(w, "Invalid theme ID", http.StatusBadRequest)
		return
	}

	battle, err := h.battleService.CreateBattle(r.Context(), service.CreateBattleInput{
		CreatedBy: userID,
		ThemeID:   themeID,
		MaxRounds: req.MaxRounds,
	})
	if err != nil {
		if errors.Is(err, domain.ErrThemeNotFound) {
			http.Error(w, "Theme not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, battle)
}

func (h *BattleHandler) Get(w http.ResponseWriter, r *http.Request) {
	battleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid battle ID", http.StatusBadRequest)
		return
	}

	battle, err := h.battleService.GetBattle(r.Context(), battleID)
	if err != nil {
		if errors.Is(err, domain.ErrBattleNotFound) {
			http.Error(w, "Battle not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, battle)
}

func (h *BattleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	battles, err := h.battleService.ListBattles(r.Context(), limit, offset)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, battles)
}

func (h *BattleHandler) Join(w http.ResponseWriter, r *http.Request) {
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

	battle, err := h.battleService.JoinBattle(r.Context(), battleID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBattleNotFound):
			http.Error(w, "Battle not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrNotAwaitingPartner):
			http.Error(w, "Battle is not open for joining", http.StatusConflict)
		case errors.Is(err, domain.ErrOwnBattle):
			http.Error(w, "Cannot join your own battle", http.StatusConflict)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, battle)
}

func (h *BattleHandler) SubmitInstructions(w http.ResponseWriter, r *http.Request) {
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

	var req SubmitInstructionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.battleService.SubmitInstructions(r.Context(), battleID, userID, req.Instructions); err != nil {
		switch {
		case errors.Is(err, domain.ErrBattleNotFound):
			http.Error(w, "Battle not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrNotYourTurn):
			http.Error(w, "It is not your turn", http.StatusConflict)
		case errors.Is(err, domain.ErrDeadlineExpired):
			http.Error(w, "Instruction window has closed", http.StatusConflict)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *BattleHandler) GetTurns(w http.ResponseWriter, r *http.Request) {
	battleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid battle ID", http.StatusBadRequest)
		return
	}

	turns, err := h.battleService.GetTurns(r.Context(), battleID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, turns)
}

func (h *BattleHandler) GetTurnInfo(w http.ResponseWriter, r *http.Request) {
	battleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid battle ID", http.StatusBadRequest)
		return
	}

	info, err := h.battleService.GetTurnInfo(r.Context(), battleID)
	if err != nil {
		if errors.Is(err, domain.ErrBattleNotFound) {
			http.Error(w, "Battle not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (h *BattleHandler) GetPlayback(w http.ResponseWriter, r *http.Request) {
	battleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid battle ID", http.StatusBadRequest)
		return
	}

	snap, err := h.battleService.GetPlaybackSnapshot(r.Context(), battleID)
	if err != nil {
		if errors.Is(err, domain.ErrBattleNotFound) {
			http.Error(w, "Battle not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}
