package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/assets"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/service"
)

type TrackHandler struct {
	battleService *service.BattleService
	assets        assets.Store
}

func NewTrackHandler(battleService *service.BattleService, store assets.Store) *TrackHandler {
	return &TrackHandler{battleService: battleService, assets: store}
}

func (h *TrackHandler) Get(w http.ResponseWriter, r *http.Request) {
	trackID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid track ID", http.StatusBadRequest)
		return
	}

	track, err := h.battleService.GetTrack(r.Context(), trackID)
	if err != nil {
		if errors.Is(err, domain.ErrTrackNotFound) {
			http.Error(w, "Track not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, track)
}

// ServeAsset streams the raw audio bytes for a stored asset ref.
func (h *TrackHandler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	f, contentType, err := h.assets.Open(ref)
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	io.Copy(w, f)
}
