package game

import (
	"encoding/json"
	"net/http"
)

const supportMessage = "सर्भरमा समस्या आयो, कृपया ९७६४६३०६३४ मा सम्पर्क गर्नुहोला।"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.svc.Catalog(r.Context())
	if err != nil {
		http.Error(w, supportMessage, http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(games)
}
