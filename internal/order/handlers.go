package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bishalghimire/merotopup-backend/internal/middleware"
	"github.com/bishalghimire/merotopup-backend/internal/types/order"
	"github.com/bishalghimire/merotopup-backend/internal/types/user"
)

const supportMessage = "सर्भरमा समस्या आयो, कृपया ९७६४६३०६३४ मा सम्पर्क गर्नुहोला।"

// UserGetter resolves the authenticated subject to a full user record so the
// order carries a snapshot of the customer, not a live reference.
type UserGetter interface {
	Get(ctx context.Context, userID string) (*user.User, error)
}

type Handler struct {
	svc   *Service
	users UserGetter
}

func NewHandler(svc *Service, users UserGetter) *Handler {
	return &Handler{svc: svc, users: users}
}

type createOrderReq struct {
	GameName      string `json:"gameName"`
	GameUserID    string `json:"gameUserId"`
	GameUsername  string `json:"gameUsername"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	Price         int    `json:"price"`
}

type createOrderResp struct {
	Success bool         `json:"success"`
	Order   *order.Order `json:"order,omitempty"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	o, err := h.svc.CreateOrder(r.Context(), CreateOrderInput{
		CustomerID:    u.UserID,
		CustomerName:  u.Username,
		CustomerEmail: u.Email,
		GameName:      req.GameName,
		GameUserID:    req.GameUserID,
		GameUsername:  req.GameUsername,
		PaymentMethod: req.PaymentMethod,
		Price:         req.Price,
	})
	if err != nil {
		if errors.Is(err, ErrMissingFields) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, supportMessage, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createOrderResp{Success: true, Order: o})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	orders, err := h.svc.ListOrders(r.Context(), userID)
	if err != nil {
		http.Error(w, supportMessage, http.StatusServiceUnavailable)
		return
	}
	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}
