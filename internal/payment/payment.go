// Package payment serves the static list of accepted payment channels shown
// by the SHOW_PAYMENT_METHODS chat action.
package payment

import (
	"encoding/json"
	"net/http"
)

type Method struct {
	Name         string `json:"name"`
	ID           string `json:"id"`
	MerchantName string `json:"merchantName"`
	Icon         string `json:"icon,omitempty"`
	QR           string `json:"qr,omitempty"`
	Color        string `json:"color,omitempty"`
}

var Methods = map[string]Method{
	"esewa": {
		Name:         "eSewa",
		ID:           "9861513184",
		MerchantName: "Bishal Ghimire",
		Icon:         "/esewa_icon.png",
		QR:           "/esewa_qr.png",
		Color:        "#60bb46",
	},
	"khalti": {
		Name:         "Khalti",
		ID:           "9861513184",
		MerchantName: "Bishal Ghimire",
		Icon:         "/khalti_icon.png",
		QR:           "/khalti_qr.png",
		Color:        "#5c2d91",
	},
	"imepay": {
		Name:         "IME Pay",
		ID:           "9861513184",
		MerchantName: "Bishal Ghimire",
		Icon:         "/imepay_icon.png",
		QR:           "/imepay_qr.png",
		Color:        "#ed1c24",
	},
	"banking": {
		Name:         "Banking (ADBL)",
		ID:           "0228202511791016",
		MerchantName: "BISHAL GHIMIRE",
		Icon:         "/banking_icon.png",
		QR:           "/banking_qr.png",
		Color:        "#1e40af",
	},
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) ListMethods(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Methods)
}
