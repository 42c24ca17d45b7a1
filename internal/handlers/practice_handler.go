package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"tradeup/internal/game"
	"tradeup/internal/service"
)

// PracticeHandler serves the quiz, drill, chart and battle games
type PracticeHandler struct {
	gameService  *service.GameService
	authService  *service.AuthService
	emailService *service.EmailService
}

// NewPracticeHandler creates a new practice handler
func NewPracticeHandler(gameService *service.GameService, authService *service.AuthService, emailService *service.EmailService) *PracticeHandler {
	return &PracticeHandler{
		gameService:  gameService,
		authService:  authService,
		emailService: emailService,
	}
}

// respondGameError maps game and session errors to HTTP statuses
func respondGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrGameSessionNotFound):
		respondWithError(w, http.StatusNotFound, "Game session not found", "", nil)
	case errors.Is(err, service.ErrWrongSessionKind):
		respondWithError(w, http.StatusConflict, "Session is a different game", "", nil)
	case errors.Is(err, game.ErrGameOver):
		respondWithError(w, http.StatusConflict, "Game is already over", "", nil)
	case errors.Is(err, game.ErrAlreadyAnswered):
		respondWithError(w, http.StatusConflict, "Round already answered", "", nil)
	case errors.Is(err, game.ErrNotAnswered):
		respondWithError(w, http.StatusConflict, "Round not answered yet", "", nil)
	case errors.Is(err, service.ErrInsufficientCoins):
		respondWithError(w, http.StatusConflict, "Not enough coins", "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "game request failed", err)
	}
}

// --- Quick quiz ---

type quizStateResponse struct {
	SessionID     string             `json:"sessionId,omitempty"`
	Question      *game.QuizQuestion `json:"question,omitempty"`
	Index         int                `json:"index"`
	Total         int                `json:"total"`
	TimeRemaining float64            `json:"timeRemaining"`
	Done          bool               `json:"done"`
}

func quizState(sessionID string, quiz *game.QuickQuiz, now time.Time) quizStateResponse {
	_, total := quiz.Tally()
	resp := quizStateResponse{
		SessionID:     sessionID,
		Index:         quiz.Index(),
		Total:         total,
		TimeRemaining: quiz.TimeRemaining(now).Seconds(),
		Done:          quiz.Terminal(),
	}
	if question, ok := quiz.Current(); ok {
		resp.Question = &question
	}
	return resp
}

// StartQuiz opens a timed quiz session
func (h *PracticeHandler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	now := time.Now()

	sessionID, quiz, err := h.gameService.StartQuiz(userID, now)
	if err != nil {
		respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, quizState(sessionID, quiz, now))
}

type quizAnswerRequest struct {
	Choice int `json:"choice"`
}

type quizAnswerResponse struct {
	Correct      bool `json:"correct"`
	CorrectIndex int  `json:"correctIndex"`
}

// AnswerQuiz scores an answer and reveals the correct choice
func (h *PracticeHandler) AnswerQuiz(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")

	var req quizAnswerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	correct, quiz, err := h.gameService.AnswerQuiz(userID, sessionID, req.Choice, time.Now())
	if err != nil {
		respondGameError(w, err)
		return
	}

	resp := quizAnswerResponse{Correct: correct}
	if question, ok := quiz.Current(); ok {
		resp.CorrectIndex = question.CorrectIndex
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// AdvanceQuiz moves to the next question
func (h *PracticeHandler) AdvanceQuiz(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")
	now := time.Now()

	quiz, err := h.gameService.AdvanceQuiz(userID, sessionID, now)
	if err != nil {
		respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, quizState("", quiz, now))
}

type gameFinishResponse struct {
	Correct  int `json:"correct"`
	Total    int `json:"total"`
	XPEarned int `json:"xpEarned"`
}

// FinishQuiz settles the quiz and pays out XP
func (h *PracticeHandler) FinishQuiz(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")

	correct, total, xp, err := h.gameService.FinishQuiz(userID, sessionID, time.Now())
	if err != nil {
		respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, gameFinishResponse{Correct: correct, Total: total, XPEarned: xp})
}

// --- Pattern drill ---

type drillStartRequest struct {
	Mode game.DrillMode `json:"mode"`
}

type drillStateResponse struct {
	SessionID string         `json:"sessionId,omitempty"`
	Round     DrillRoundView `json:"round"`
}

// StartDrill opens an endless pattern drill
func (h *PracticeHandler) StartDrill(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req drillStartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}
	switch req.Mode {
	case game.DrillRecognition, game.DrillNaming, game.DrillMixed:
	default:
		respondWithError(w, http.StatusBadRequest, "Invalid drill mode", "", nil)
		return
	}

	sessionID, drill, err := h.gameService.StartDrill(userID, req.Mode)
	if err != nil {
		respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, drillStateResponse{
		SessionID: sessionID,
		Round:     newDrillRoundView(drill.Current()),
	})
}

type drillAnswerRequest struct {
	IsBullish *bool   `json:"isBullish,omitempty"`
	Name      *string `json:"name,omitempty"`
}

type drillAnswerResponse struct {
	Correct     bool   `json:"correct"`
	BonusXP     int    `json:"bonusXp"`
	PatternName string `json:"patternName"`
	IsBullish   bool   `json:"isBullish"`
	Streak      int    `json:"streak"`
}

// AnswerDrill scores a drill answer. The body carries either a
// bullish/bearish call or a pattern name depending on the round kind.
func (h *PracticeHandler) AnswerDrill(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")
	now := time.Now()

	var req drillAnswerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	var correct bool
	var bonusXP int
	var err error
	switch {
	case req.IsBullish != nil:
		correct, bonusXP, err = h.gameService.AnswerDrillRecognition(userID, sessionID, *req.IsBullish, now)
	case req.Name != nil:
		correct, bonusXP, err = h.gameService.AnswerDrillNaming(userID, sessionID, *req.Name, now)
	default:
		respondWithError(w, http.StatusBadRequest, "Answer requires isBullish or name", "", nil)
		return
	}
	if err != nil {
		respondGameError(w, err)
		return
	}

	drill, err := h.gameService.CurrentDrill(userID, sessionID)
	if err != nil {
		respondGameError(w, err)
		return
	}
	round := drill.Current()
	_, _, streak, _ := drill.Tally()

	respondWithJSON(w, http.StatusOK, drillAnswerResponse{
		Correct:     correct,
		BonusXP:     bonusXP,
		PatternName: round.Pattern.Name,
		IsBullish:   round.Pattern.IsBullish,
		Streak:      streak,
	})
}

// AdvanceDrill deals the next pattern
func (h *PracticeHandler) AdvanceDrill(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")

	drill, err := h.gameService.AdvanceDrill(userID, sessionID)
	if err != nil {
		respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, drillStateResponse{Round: newDrillRoundView(drill.Current())})
}

type drillEndResponse struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	BestStreak int `json:"bestStreak"`
}

// EndDrill closes the drill and returns the tally
func (h *PracticeHandler) EndDrill(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")

	correct, total, bestStreak, err := h.gameService.EndDrill(userID, sessionID)
	if err != nil {
		respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, drillEndResponse{Correct: correct, Total: total, BestStreak: bestStreak})
}

// --- Chart challenge ---

type chartStateResponse struct {
	SessionID string          `json:"sessionId,omitempty"`
	Round     *ChartRoundView `json:"round,omitempty"`
	Done      bool            `json:"done"`
}

func chartState(sessionID string, chart *game.ChartChallenge) chartStateResponse {
	resp := chartStateResponse{SessionID: sessionID, Done: chart.Terminal()}
	if round, ok := chart.Current(); ok {
		_, total := chart.Tally()
		resp.Round = &ChartRoundView{
			Round:   chart.Index() + 1,
			Total:   total,
			Candles: round.Candles,
		}
	}
	return resp
}

// StartChart opens a next-candle prediction challenge
func (h *PracticeHandler) StartChart(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	sessionID, chart, err := h.gameService.StartChart(userID)
	if err != nil {
		respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, chartState(sessionID, chart))
}

type directionRequest struct {
	Direction game.Direction `json:"direction"`
}

type chartAnswerResponse struct {
	Correct    bool           `json:"correct"`
	Direction  game.Direction `json:"direction"`
	NextCandle game.Candle    `json:"nextCandle"`
}

// AnswerChart scores a direction call and reveals the next candle
func (h *PracticeHandler) AnswerChart(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")

	var req directionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}
	if req.Direction != game.DirectionUp && req.Direction != game.DirectionDown {
		respondWithError(w, http.StatusBadRequest, "Direction must be up or down", "", nil)
		return
	}

	correct, chart, err := h.gameService.AnswerChart(userID, sessionID, req.Direction)
	if err != nil {
		respondGameError(w, err)
		return
	}

	resp := chartAnswerResponse{Correct: correct}
	if round, ok := chart.Current(); ok {
		resp.Direction = round.Direction
		resp.NextCandle = round.NextCandle
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// AdvanceChart reveals the next round
func (h *PracticeHandler) AdvanceChart(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")

	chart, err := h.gameService.AdvanceChart(userID, sessionID)
	if err != nil {
		respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, chartState("", chart))
}

// FinishChart settles the challenge and pays out XP
func (h *PracticeHandler) FinishChart(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")

	correct, total, xp, err := h.gameService.FinishChart(userID, sessionID, time.Now())
	if err != nil {
		respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, gameFinishResponse{Correct: correct, Total: total, XPEarned: xp})
}

// --- Trade battle ---

type battleStartRequest struct {
	Stakes int `json:"stakes"`
}

type battleStateResponse struct {
	SessionID     string           `json:"sessionId,omitempty"`
	Round         *BattleRoundView `json:"round,omitempty"`
	MyScore       int              `json:"myScore"`
	OpponentScore int              `json:"opponentScore"`
	Done          bool             `json:"done"`
}

func battleState(sessionID string, battle *game.TradeBattle, now time.Time) battleStateResponse {
	mine, opponent := battle.Scores()
	resp := battleStateResponse{
		SessionID:     sessionID,
		MyScore:       mine,
		OpponentScore: opponent,
		Done:          battle.Terminal(),
	}
	if round, ok := battle.Current(); ok {
		resp.Round = &BattleRoundView{
			Round:         battle.Index() + 1,
			Total:         game.BattleRounds,
			Symbol:        round.Symbol,
			StartPrice:    round.StartPrice,
			TimeRemaining: battle.RoundTimeRemaining(now).Seconds(),
		}
	}
	return resp
}

// StartBattle opens a staked battle against the house opponent
func (h *PracticeHandler) StartBattle(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	now := time.Now()

	var req battleStartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}
	if req.Stakes < 0 {
		respondWithError(w, http.StatusBadRequest, "Stakes must not be negative", "", nil)
		return
	}

	sessionID, battle, err := h.gameService.StartBattle(userID, req.Stakes, now)
	if err != nil {
		respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, battleState(sessionID, battle, now))
}

type battleAnswerResponse struct {
	Correct       bool           `json:"correct"`
	Direction     game.Direction `json:"direction"`
	EndPrice      float64        `json:"endPrice"`
	MyScore       int            `json:"myScore"`
	OpponentScore int            `json:"opponentScore"`
}

// AnswerBattle scores the player's call for the current round
func (h *PracticeHandler) AnswerBattle(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")

	var req directionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	correct, battle, err := h.gameService.AnswerBattle(userID, sessionID, req.Direction, time.Now())
	if err != nil {
		respondGameError(w, err)
		return
	}

	mine, opponent := battle.Scores()
	resp := battleAnswerResponse{Correct: correct, MyScore: mine, OpponentScore: opponent}
	if round, ok := battle.Current(); ok {
		resp.Direction = round.Direction
		resp.EndPrice = round.EndPrice
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// TimeoutBattle forfeits the current round after its clock ran out
func (h *PracticeHandler) TimeoutBattle(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")
	now := time.Now()

	battle, err := h.gameService.TimeoutBattle(userID, sessionID, now)
	if err != nil {
		respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, battleState("", battle, now))
}

// AdvanceBattle moves to the next round
func (h *PracticeHandler) AdvanceBattle(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")
	now := time.Now()

	battle, err := h.gameService.AdvanceBattle(userID, sessionID, now)
	if err != nil {
		respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, battleState("", battle, now))
}

type battleResultResponse struct {
	Won           bool `json:"won"`
	Tied          bool `json:"tied"`
	MyScore       int  `json:"myScore"`
	OpponentScore int  `json:"opponentScore"`
	CoinsWon      int  `json:"coinsWon"`
	XPEarned      int  `json:"xpEarned"`
}

// FinishBattle settles the battle and pays out the stakes
func (h *PracticeHandler) FinishBattle(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")

	result, err := h.gameService.FinishBattle(userID, sessionID, time.Now())
	if err != nil {
		respondGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, battleResultResponse{
		Won:           result.Won,
		Tied:          result.Tied,
		MyScore:       result.MyScore,
		OpponentScore: result.Opponent,
		CoinsWon:      result.CoinsWon,
		XPEarned:      result.XPEarned,
	})
}

type battleInviteRequest struct {
	Email string `json:"email"`
}

// InviteToBattle emails a battle invitation to a friend
func (h *PracticeHandler) InviteToBattle(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req battleInviteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}
	if req.Email == "" {
		respondWithError(w, http.StatusBadRequest, "Email is required", "", nil)
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil || user == nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load user", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := h.emailService.SendBattleInvitation(ctx, req.Email, user.DisplayName); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to send invitation", "battle invitation failed", err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
