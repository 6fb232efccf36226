package user

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Shown instead of internals whenever the store is unreachable.
const supportMessage = "सर्भरमा समस्या आयो, कृपया ९७६४६३०६३४ मा सम्पर्क गर्नुहोला।"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type lookupReq struct {
	Email string `json:"email"`
}

type lookupResp struct {
	Exists   bool   `json:"exists"`
	Username string `json:"username,omitempty"`
}

type registerReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Lookup backs the first chat step: known emails continue to the password
// prompt, unknown ones to registration.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req lookupReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	u, err := h.svc.Lookup(r.Context(), req.Email)
	if err != nil {
		http.Error(w, supportMessage, http.StatusServiceUnavailable)
		return
	}
	resp := lookupResp{}
	if u != nil {
		resp.Exists = true
		resp.Username = u.Username
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		http.Error(w, "email, username and password are required", http.StatusBadRequest)
		return
	}
	u, token, err := h.svc.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, supportMessage, http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u.Public())
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	u, token, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCreds) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		http.Error(w, supportMessage, http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u.Public())
}
