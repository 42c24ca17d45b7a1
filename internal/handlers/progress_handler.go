package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tradeup/internal/models"
	"tradeup/internal/service"
)

// LeaderboardSource is the ranking query the handler needs, satisfied by
// repository.SQLProgressRepository
type LeaderboardSource interface {
	Leaderboard(limit int) ([]models.LeaderboardEntry, error)
}

const defaultLeaderboardSize = 20

// ProgressHandler serves the user's progress and economy state
type ProgressHandler struct {
	progressService *service.ProgressService
	leaderboard     LeaderboardSource
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService *service.ProgressService, leaderboard LeaderboardSource) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		leaderboard:     leaderboard,
	}
}

type progressResponse struct {
	Progress ProgressView `json:"progress"`

	// NextHeartIn is seconds until the next heart regenerates, absent
	// when the bar is full
	NextHeartIn *float64 `json:"nextHeartIn,omitempty"`
}

func (h *ProgressHandler) progressResponse(userID string, now time.Time) (*progressResponse, error) {
	progress, err := h.progressService.GetProgress(userID, now)
	if err != nil {
		return nil, err
	}

	resp := &progressResponse{Progress: newProgressView(progress)}
	if wait, refilling, err := h.progressService.TimeUntilNextHeart(userID, now); err == nil && refilling {
		seconds := wait.Seconds()
		resp.NextHeartIn = &seconds
	}
	return resp, nil
}

// GetProgress returns the caller's progress row
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	resp, err := h.progressResponse(userID, time.Now())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load progress", err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// RefillHearts buys a full heart refill with coins
func (h *ProgressHandler) RefillHearts(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	progress, err := h.progressService.BuyHeartsRefill(userID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrHeartsFull):
			respondWithError(w, http.StatusConflict, "Hearts are already full", "", nil)
		case errors.Is(err, service.ErrInsufficientCoins):
			respondWithError(w, http.StatusConflict, "Not enough coins", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "heart refill failed", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, progressResponse{Progress: newProgressView(progress)})
}

type dailyGoalRequest struct {
	DailyGoal int `json:"dailyGoal"`
}

// SetDailyGoal updates the lessons-per-day target
func (h *ProgressHandler) SetDailyGoal(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req dailyGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}
	if req.DailyGoal < 1 {
		respondWithError(w, http.StatusBadRequest, "Daily goal must be at least 1", "", nil)
		return
	}

	progress, err := h.progressService.SetDailyGoal(userID, req.DailyGoal, time.Now())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to set daily goal", err)
		return
	}
	respondWithJSON(w, http.StatusOK, progressResponse{Progress: newProgressView(progress)})
}

// Leaderboard returns the top users by XP
func (h *ProgressHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", "", nil)
			return
		}
		limit = parsed
	}

	entries, err := h.leaderboard.Leaderboard(limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load leaderboard", err)
		return
	}
	respondWithJSON(w, http.StatusOK, newLeaderboardView(entries))
}
