package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"tradeup/internal/service"
)

// BillingHandler receives subscription events from the billing provider.
// Calls carry a shared secret; there is no user session on this path.
type BillingHandler struct {
	progressService *service.ProgressService
	webhookSecret   string
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(progressService *service.ProgressService, webhookSecret string) *BillingHandler {
	return &BillingHandler{
		progressService: progressService,
		webhookSecret:   webhookSecret,
	}
}

type billingEventRequest struct {
	UserID  string `json:"userId"`
	Premium bool   `json:"premium"`
}

// Webhook toggles the premium entitlement for a user
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.webhookSecret == "" {
		respondWithError(w, http.StatusServiceUnavailable, "Billing webhook not configured", "", nil)
		return
	}

	provided := r.Header.Get("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.webhookSecret)) != 1 {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var event billingEventRequest
	if err := decodeJSON(w, r, &event); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}
	if event.UserID == "" {
		respondWithError(w, http.StatusBadRequest, "userId is required", "", nil)
		return
	}

	if _, err := h.progressService.SetPremium(event.UserID, event.Premium, time.Now()); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to apply billing event", err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
