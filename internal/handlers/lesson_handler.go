package handlers

import (
	"errors"
	"net/http"
	"time"

	"tradeup/internal/game"
	"tradeup/internal/service"
)

// LessonHandler serves the lesson catalog and the lesson player
type LessonHandler struct {
	lessonService *service.LessonService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessonService *service.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService}
}

// ListLessons returns the catalog with the caller's completion status
func (h *LessonHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	statuses, err := h.lessonService.ListLessons(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to list lessons", err)
		return
	}

	views := make([]LessonSummaryView, 0, len(statuses))
	for _, status := range statuses {
		views = append(views, newLessonSummaryView(status))
	}
	respondWithJSON(w, http.StatusOK, views)
}

type lessonStartResponse struct {
	SessionID string       `json:"sessionId"`
	Title     string       `json:"title"`
	Questions int          `json:"questions"`
	Question  QuestionView `json:"question"`
	Index     int          `json:"index"`
}

// StartLesson opens a lesson run
func (h *LessonHandler) StartLesson(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	lessonID := r.PathValue("id")

	sessionID, lesson, err := h.lessonService.StartLesson(userID, lessonID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLessonNotFound):
			respondWithError(w, http.StatusNotFound, "Lesson not found", "", nil)
		case errors.Is(err, service.ErrPremiumRequired):
			respondWithError(w, http.StatusForbidden, "This lesson requires premium", "", nil)
		case errors.Is(err, service.ErrNoHearts):
			respondWithError(w, http.StatusConflict, "Out of hearts", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to start lesson", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, lessonStartResponse{
		SessionID: sessionID,
		Title:     lesson.Title,
		Questions: len(lesson.Content),
		Question:  newQuestionView(lesson.Content[0]),
		Index:     0,
	})
}

type lessonQuestionResponse struct {
	Question *QuestionView `json:"question,omitempty"`
	Index    int           `json:"index"`
	Done     bool          `json:"done"`
}

// CurrentQuestion returns the question the run is waiting on
func (h *LessonHandler) CurrentQuestion(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")

	question, index, err := h.lessonService.CurrentQuestion(userID, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrLessonSessionGone) {
			respondWithError(w, http.StatusNotFound, "Lesson session not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load question", err)
		return
	}

	resp := lessonQuestionResponse{Index: index, Done: question == nil}
	if question != nil {
		view := newQuestionView(question)
		resp.Question = &view
	}
	respondWithJSON(w, http.StatusOK, resp)
}

type lessonAnswerRequest struct {
	Answer game.LessonAnswer `json:"answer"`
}

type lessonAnswerResponse struct {
	Correct bool `json:"correct"`
}

// SubmitAnswer scores one answer for the run
func (h *LessonHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")

	var req lessonAnswerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	correct, err := h.lessonService.SubmitAnswer(userID, sessionID, req.Answer, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLessonSessionGone):
			respondWithError(w, http.StatusNotFound, "Lesson session not found", "", nil)
		case errors.Is(err, game.ErrGameOver):
			respondWithError(w, http.StatusConflict, "Lesson already finished", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to submit answer", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, lessonAnswerResponse{Correct: correct})
}

type lessonResultResponse struct {
	Passed      bool `json:"passed"`
	Correct     int  `json:"correct"`
	Total       int  `json:"total"`
	Score       int  `json:"score"`
	XPEarned    int  `json:"xpEarned"`
	CoinsEarned int  `json:"coinsEarned"`
}

// FinishLesson settles a completed run
func (h *LessonHandler) FinishLesson(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")

	result, err := h.lessonService.FinishLesson(userID, sessionID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLessonSessionGone):
			respondWithError(w, http.StatusNotFound, "Lesson session not found", "", nil)
		case errors.Is(err, service.ErrLessonInProgress):
			respondWithError(w, http.StatusConflict, "Lesson still in progress", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to finish lesson", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, lessonResultResponse{
		Passed:      result.Passed,
		Correct:     result.Correct,
		Total:       result.Total,
		Score:       result.Score,
		XPEarned:    result.XPEarned,
		CoinsEarned: result.CoinsEarned,
	})
}
