// Package chat is the conversational surface: it relays messages to the
// sales model, interprets the control tokens embedded in replies and exposes
// the screenshot verification gate.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bishalghimire/merotopup-backend/internal/ai"
	"github.com/bishalghimire/merotopup-backend/internal/logger"
	"github.com/bishalghimire/merotopup-backend/internal/middleware"
	"github.com/bishalghimire/merotopup-backend/internal/types/game"
	"github.com/bishalghimire/merotopup-backend/internal/types/user"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	busyMessage     = "I'm busy at the moment. Please try again in a bit or contact Bishal at 9764630634."
	analysisFailure = "रसिद विश्लेषणमा समस्या आयो। ❌"
)

type Assistant interface {
	ChatReply(ctx context.Context, history []ai.Message, userMessage, instruction string) (string, error)
	VerifyScreenshot(ctx context.Context, imageBase64 string, expectedAmount int) (*ai.Judgment, error)
}

type GameCatalog interface {
	Games(ctx context.Context) (map[string]game.Game, error)
}

type UserFinder interface {
	FindUserByID(ctx context.Context, userID string) (*user.User, error)
}

type Handler struct {
	assistant Assistant
	catalog   GameCatalog
	users     UserFinder
}

func NewHandler(assistant Assistant, catalog GameCatalog, users UserFinder) *Handler {
	return &Handler{assistant: assistant, catalog: catalog, users: users}
}

type chatReq struct {
	Message string       `json:"message"`
	History []ai.Message `json:"history,omitempty"`
}

type chatResp struct {
	ID     string    `json:"id"`
	Reply  string    `json:"reply"`
	Action ai.Action `json:"action,omitempty"`
	Price  int       `json:"price,omitempty"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	// The model sells better knowing the live catalog and who it talks to,
	// but a chat must not die because either lookup did.
	games, err := h.catalog.Games(r.Context())
	if err != nil {
		logger.Log.Warn("catalog unavailable for chat", zap.Error(err))
		games = map[string]game.Game{}
	}
	username := ""
	if userID := middleware.UserIDFromContext(r.Context()); userID != "" {
		if u, err := h.users.FindUserByID(r.Context(), userID); err == nil && u != nil {
			username = u.Username
		}
	}

	reply, err := h.assistant.ChatReply(r.Context(), req.History, req.Message, ai.BuildInstruction(games, username))
	if err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, ai.ErrRateLimited) {
			status = http.StatusTooManyRequests
		}
		logger.Log.Warn("chat model call failed", zap.Error(err))
		http.Error(w, busyMessage, status)
		return
	}

	resp := chatResp{
		ID:    uuid.NewString(),
		Reply: ai.StripTokens(reply),
	}
	if price, ok := ai.ExtractPrice(reply); ok {
		resp.Price = price
	}
	if action, ok := ai.ExtractAction(reply); ok {
		resp.Action = action
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type verifyReq struct {
	Image          string `json:"image"`
	ExpectedAmount int    `json:"expectedAmount"`
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Image == "" {
		http.Error(w, "image is required", http.StatusBadRequest)
		return
	}
	if req.ExpectedAmount <= 0 {
		req.ExpectedAmount = 100
	}

	judgment, err := h.assistant.VerifyScreenshot(r.Context(), req.Image, req.ExpectedAmount)
	if err != nil {
		logger.Log.Warn("screenshot verification failed", zap.Error(err))
		judgment = &ai.Judgment{Valid: false, Reason: analysisFailure}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(judgment)
}
