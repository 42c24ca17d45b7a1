package handlers

import (
	"net/http"
	"sync"
)

// HealthHandler reports process readiness. Readiness flips once migrations
// have run and services are wired.
type HealthHandler struct {
	mu    sync.RWMutex
	ready bool
}

// NewHealthHandler creates a health handler in the not-ready state
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// SetReady marks startup as complete
func (h *HealthHandler) SetReady() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = true
}

type healthResponse struct {
	Status string `json:"status"`
}

// Healthz reports liveness
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// Readyz reports readiness
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	ready := h.ready
	h.mu.RUnlock()

	if !ready {
		respondWithJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "starting"})
		return
	}
	respondWithJSON(w, http.StatusOK, healthResponse{Status: "ready"})
}
