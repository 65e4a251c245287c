package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/service"
)

type ThemeHandler struct {
	themeService  *service.ThemeService
	battleService *service.BattleService
}

func (h *ThemeHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if err := h.themeService.Seed(r.Context()); err != nil {
		if errors.Is(err, service.ErrThemesAlreadySeeded) {
			http.Error(w, "Themes already seeded", http.StatusConflict)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func NewThemeHandler(themeService *service.ThemeService, battleService *service.BattleService) *ThemeHandler {
	return &ThemeHandler{themeService: themeService, battleService: battleService}
}

func (h *ThemeHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	themes, err := h.themeService.List(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, themes)
}

func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	themeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid theme ID", http.StatusBadRequest)
		return
	}

	theme, err := h.themeService.Get(r.Context(), themeID)
	if err != nil {
		if errors.Is(err, domain.ErrThemeNotFound) {
			http.Error(w, "Theme not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, theme)
}

func (h *ThemeHandler) GetBattles(w http.ResponseWriter, r *http.Request) {
	themeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid theme ID", http.StatusBadRequest)
		return
	}

	battles, err := h.battleService.GetBattlesForTheme(r.Context(), themeID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, battles)
}
