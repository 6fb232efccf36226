package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bishalghimire/merotopup-backend/internal/ai"
	"github.com/bishalghimire/merotopup-backend/internal/middleware"
	"github.com/bishalghimire/merotopup-backend/internal/types/game"
	"github.com/bishalghimire/merotopup-backend/internal/types/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAssistant struct {
	chatReplyFn        func(ctx context.Context, history []ai.Message, userMessage, instruction string) (string, error)
	verifyScreenshotFn func(ctx context.Context, imageBase64 string, expectedAmount int) (*ai.Judgment, error)
}

func (m *mockAssistant) ChatReply(ctx context.Context, history []ai.Message, userMessage, instruction string) (string, error) {
	return m.chatReplyFn(ctx, history, userMessage, instruction)
}

func (m *mockAssistant) VerifyScreenshot(ctx context.Context, imageBase64 string, expectedAmount int) (*ai.Judgment, error) {
	return m.verifyScreenshotFn(ctx, imageBase64, expectedAmount)
}

type mockCatalog struct {
	gamesFn func(ctx context.Context) (map[string]game.Game, error)
}

func (m *mockCatalog) Games(ctx context.Context) (map[string]game.Game, error) {
	return m.gamesFn(ctx)
}

type mockUsers struct {
	findFn func(ctx context.Context, userID string) (*user.User, error)
}

func (m *mockUsers) FindUserByID(ctx context.Context, userID string) (*user.User, error) {
	return m.findFn(ctx, userID)
}

func chatRequest(t *testing.T, message string) *http.Request {
	t.Helper()
	body, err := json.Marshal(map[string]any{"message": message})
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
}

func TestChatParsesControlTokens(t *testing.T) {
	assistant := &mockAssistant{
		chatReplyFn: func(ctx context.Context, history []ai.Message, userMessage, instruction string) (string, error) {
			return "960 diamonds cost Rs. 1200. [PRICE: 1200] [ACTION: SHOW_PAYMENT_METHODS]", nil
		},
	}
	catalog := &mockCatalog{gamesFn: func(ctx context.Context) (map[string]game.Game, error) {
		return map[string]game.Game{}, nil
	}}
	h := NewHandler(assistant, catalog, &mockUsers{})

	rec := httptest.NewRecorder()
	h.Chat(rec, chatRequest(t, "960 diamonds"))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chatResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "960 diamonds cost Rs. 1200.", resp.Reply)
	assert.Equal(t, 1200, resp.Price)
	assert.Equal(t, ai.ActionShowPaymentMethods, resp.Action)
}

func TestChatInstructionCarriesCatalogAndUsername(t *testing.T) {
	var gotInstruction string
	assistant := &mockAssistant{
		chatReplyFn: func(ctx context.Context, history []ai.Message, userMessage, instruction string) (string, error) {
			gotInstruction = instruction
			return "ok", nil
		},
	}
	catalog := &mockCatalog{gamesFn: func(ctx context.Context) (map[string]game.Game, error) {
		return map[string]game.Game{"freefire": {Name: "Free Fire"}}, nil
	}}
	users := &mockUsers{findFn: func(ctx context.Context, userID string) (*user.User, error) {
		return &user.User{UserID: userID, Username: "Sita"}, nil
	}}
	h := NewHandler(assistant, catalog, users)

	req := chatRequest(t, "hello")
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "u_1"))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, gotInstruction, "Free Fire")
	assert.Contains(t, gotInstruction, "Sita")
}

func TestChatSurvivesCatalogOutage(t *testing.T) {
	assistant := &mockAssistant{
		chatReplyFn: func(ctx context.Context, history []ai.Message, userMessage, instruction string) (string, error) {
			return "still here", nil
		},
	}
	catalog := &mockCatalog{gamesFn: func(ctx context.Context) (map[string]game.Game, error) {
		return nil, errors.New("store down")
	}}
	h := NewHandler(assistant, catalog, &mockUsers{})

	rec := httptest.NewRecorder()
	h.Chat(rec, chatRequest(t, "hello"))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChatRateLimitMapsTo429(t *testing.T) {
	assistant := &mockAssistant{
		chatReplyFn: func(ctx context.Context, history []ai.Message, userMessage, instruction string) (string, error) {
			return "", ai.ErrRateLimited
		},
	}
	catalog := &mockCatalog{gamesFn: func(ctx context.Context) (map[string]game.Game, error) {
		return map[string]game.Game{}, nil
	}}
	h := NewHandler(assistant, catalog, &mockUsers{})

	rec := httptest.NewRecorder()
	h.Chat(rec, chatRequest(t, "hello"))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "busy")
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	h := NewHandler(&mockAssistant{}, &mockCatalog{}, &mockUsers{})

	rec := httptest.NewRecorder()
	h.Chat(rec, chatRequest(t, ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyDefaultsExpectedAmount(t *testing.T) {
	var gotAmount int
	assistant := &mockAssistant{
		verifyScreenshotFn: func(ctx context.Context, imageBase64 string, expectedAmount int) (*ai.Judgment, error) {
			gotAmount = expectedAmount
			return &ai.Judgment{Valid: true, AmountFound: 100}, nil
		},
	}
	h := NewHandler(assistant, &mockCatalog{}, &mockUsers{})

	body, _ := json.Marshal(map[string]any{"image": "AAAA"})
	rec := httptest.NewRecorder()
	h.Verify(rec, httptest.NewRequest(http.MethodPost, "/api/chat/verify", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, gotAmount)
	var j ai.Judgment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &j))
	assert.True(t, j.Valid)
}

func TestVerifyFailureAnswersInvalidNotError(t *testing.T) {
	assistant := &mockAssistant{
		verifyScreenshotFn: func(ctx context.Context, imageBase64 string, expectedAmount int) (*ai.Judgment, error) {
			return nil, errors.New("model unreachable")
		},
	}
	h := NewHandler(assistant, &mockCatalog{}, &mockUsers{})

	body, _ := json.Marshal(map[string]any{"image": "AAAA", "expectedAmount": 500})
	rec := httptest.NewRecorder()
	h.Verify(rec, httptest.NewRequest(http.MethodPost, "/api/chat/verify", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var j ai.Judgment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &j))
	assert.False(t, j.Valid)
	assert.Equal(t, analysisFailure, j.Reason)
}
