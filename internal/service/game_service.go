package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"tradeup/internal/game"
	"tradeup/internal/security"
)

var (
	ErrGameSessionNotFound = errors.New("game session not found")
	ErrWrongSessionKind    = errors.New("session is a different game")
)

// sessionCacheSize bounds how many concurrent game sessions are kept.
// Evicted sessions are simply abandoned, matching a client that never
// came back.
const sessionCacheSize = 4096

type sessionKind string

const (
	kindQuiz   sessionKind = "quiz"
	kindDrill  sessionKind = "drill"
	kindChart  sessionKind = "chart"
	kindBattle sessionKind = "battle"
)

// gameSession is one in-flight game held in the session cache
type gameSession struct {
	mu     sync.Mutex
	userID string
	kind   sessionKind

	quiz   *game.QuickQuiz
	drill  *game.PatternDrill
	chart  *game.ChartChallenge
	battle *game.TradeBattle
}

// GameService runs the practice games and battles. Game state is
// server-side: answers are scored here and rewards are written through the
// progress service, so the client never reports its own score.
type GameService struct {
	progress *ProgressService
	sessions *lru.Cache

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewGameService creates a game service with its own session cache
func NewGameService(progress *ProgressService) (*GameService, error) {
	cache, err := lru.New(sessionCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &GameService{
		progress: progress,
		sessions: cache,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// withRNG runs fn with the shared RNG held. rand.Rand is not safe for
// concurrent use.
func (s *GameService) withRNG(fn func(rng *rand.Rand)) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	fn(s.rng)
}

func (s *GameService) store(userID string, kind sessionKind, build func(sess *gameSession)) string {
	sess := &gameSession{userID: userID, kind: kind}
	build(sess)
	id := security.GenerateSessionID()
	s.sessions.Add(id, sess)
	return id
}

func (s *GameService) lookup(userID, sessionID string, kind sessionKind) (*gameSession, error) {
	value, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrGameSessionNotFound
	}
	sess := value.(*gameSession)
	if sess.userID != userID {
		return nil, ErrGameSessionNotFound
	}
	if sess.kind != kind {
		return nil, ErrWrongSessionKind
	}
	return sess, nil
}

// --- Quick quiz ---

// StartQuiz opens a timed ten question quiz
func (s *GameService) StartQuiz(userID string, now time.Time) (string, *game.QuickQuiz, error) {
	var quiz *game.QuickQuiz
	s.withRNG(func(rng *rand.Rand) {
		quiz = game.NewQuickQuiz(rng, now)
	})
	id := s.store(userID, kindQuiz, func(sess *gameSession) { sess.quiz = quiz })
	return id, quiz, nil
}

// AnswerQuiz scores one quiz answer
func (s *GameService) AnswerQuiz(userID, sessionID string, choice int, now time.Time) (bool, *game.QuickQuiz, error) {
	sess, err := s.lookup(userID, sessionID, kindQuiz)
	if err != nil {
		return false, nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	correct, err := sess.quiz.Answer(choice, now)
	if err != nil {
		return false, nil, err
	}
	return correct, sess.quiz, nil
}

// AdvanceQuiz moves to the next question after the reveal delay
func (s *GameService) AdvanceQuiz(userID, sessionID string, now time.Time) (*game.QuickQuiz, error) {
	sess, err := s.lookup(userID, sessionID, kindQuiz)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.quiz.Advance(now); err != nil {
		return nil, err
	}
	return sess.quiz, nil
}

// FinishQuiz closes a finished quiz and pays out XP per correct answer
func (s *GameService) FinishQuiz(userID, sessionID string, now time.Time) (correct, total, xpEarned int, err error) {
	sess, err := s.lookup(userID, sessionID, kindQuiz)
	if err != nil {
		return 0, 0, 0, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.quiz.Terminal() {
		// A quiz whose time budget ran out is finishable too
		if sess.quiz.TimeRemaining(now) > 0 {
			return 0, 0, 0, fmt.Errorf("quiz still in progress")
		}
	}

	correct, total = sess.quiz.Tally()
	xpEarned = correct * game.QuizXPPerCorrect
	if xpEarned > 0 {
		if _, err := s.progress.AddXP(userID, xpEarned, now); err != nil {
			return 0, 0, 0, err
		}
	}
	s.sessions.Remove(sessionID)
	return correct, total, xpEarned, nil
}

// --- Pattern drill ---

// StartDrill opens an endless pattern drill in the given mode
func (s *GameService) StartDrill(userID string, mode game.DrillMode) (string, *game.PatternDrill, error) {
	var drill *game.PatternDrill
	s.withRNG(func(rng *rand.Rand) {
		drill = game.NewPatternDrill(mode, rng)
	})
	id := s.store(userID, kindDrill, func(sess *gameSession) { sess.drill = drill })
	return id, drill, nil
}

// AnswerDrillRecognition scores a bullish/bearish call. Streak bonus XP is
// credited immediately.
func (s *GameService) AnswerDrillRecognition(userID, sessionID string, bullish bool, now time.Time) (bool, int, error) {
	sess, err := s.lookup(userID, sessionID, kindDrill)
	if err != nil {
		return false, 0, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	correct, bonusXP := sess.drill.AnswerRecognition(bullish)
	if err := s.awardDrillBonus(userID, bonusXP, now); err != nil {
		return false, 0, err
	}
	return correct, bonusXP, nil
}

// AnswerDrillNaming scores a pattern naming answer
func (s *GameService) AnswerDrillNaming(userID, sessionID, name string, now time.Time) (bool, int, error) {
	sess, err := s.lookup(userID, sessionID, kindDrill)
	if err != nil {
		return false, 0, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	correct, bonusXP := sess.drill.AnswerNaming(name)
	if err := s.awardDrillBonus(userID, bonusXP, now); err != nil {
		return false, 0, err
	}
	return correct, bonusXP, nil
}

func (s *GameService) awardDrillBonus(userID string, bonusXP int, now time.Time) error {
	if bonusXP <= 0 {
		return nil
	}
	_, err := s.progress.AddXP(userID, bonusXP, now)
	return err
}

// AdvanceDrill deals the next pattern
func (s *GameService) AdvanceDrill(userID, sessionID string) (*game.PatternDrill, error) {
	sess, err := s.lookup(userID, sessionID, kindDrill)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.drill.Advance()
	return sess.drill, nil
}

// CurrentDrill returns the live drill state
func (s *GameService) CurrentDrill(userID, sessionID string) (*game.PatternDrill, error) {
	sess, err := s.lookup(userID, sessionID, kindDrill)
	if err != nil {
		return nil, err
	}
	return sess.drill, nil
}

// EndDrill closes a drill and returns the final tally
func (s *GameService) EndDrill(userID, sessionID string) (correct, total, bestStreak int, err error) {
	sess, err := s.lookup(userID, sessionID, kindDrill)
	if err != nil {
		return 0, 0, 0, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	correct, total, _, bestStreak = sess.drill.Tally()
	s.sessions.Remove(sessionID)
	return correct, total, bestStreak, nil
}

// --- Chart challenge ---

// StartChart opens a ten round next-candle challenge
func (s *GameService) StartChart(userID string) (string, *game.ChartChallenge, error) {
	var chart *game.ChartChallenge
	s.withRNG(func(rng *rand.Rand) {
		chart = game.NewChartChallenge(rng)
	})
	id := s.store(userID, kindChart, func(sess *gameSession) { sess.chart = chart })
	return id, chart, nil
}

// AnswerChart scores an up/down call for the current round
func (s *GameService) AnswerChart(userID, sessionID string, direction game.Direction) (bool, *game.ChartChallenge, error) {
	sess, err := s.lookup(userID, sessionID, kindChart)
	if err != nil {
		return false, nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	correct, err := sess.chart.Answer(direction)
	if err != nil {
		return false, nil, err
	}
	return correct, sess.chart, nil
}

// AdvanceChart reveals the next round
func (s *GameService) AdvanceChart(userID, sessionID string) (*game.ChartChallenge, error) {
	sess, err := s.lookup(userID, sessionID, kindChart)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.chart.Advance(); err != nil {
		return nil, err
	}
	return sess.chart, nil
}

// FinishChart closes a finished challenge and pays out XP per correct call
func (s *GameService) FinishChart(userID, sessionID string, now time.Time) (correct, total, xpEarned int, err error) {
	sess, err := s.lookup(userID, sessionID, kindChart)
	if err != nil {
		return 0, 0, 0, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.chart.Terminal() {
		return 0, 0, 0, fmt.Errorf("chart challenge still in progress")
	}

	correct, total = sess.chart.Tally()
	xpEarned = correct * game.ChartXPPerCorrect
	if xpEarned > 0 {
		if _, err := s.progress.AddXP(userID, xpEarned, now); err != nil {
			return 0, 0, 0, err
		}
	}
	s.sessions.Remove(sessionID)
	return correct, total, xpEarned, nil
}

// --- Trade battle ---

// StartBattle opens a battle against the house opponent. The stakes are
// debited up front; winning returns double.
func (s *GameService) StartBattle(userID string, stakes int, now time.Time) (string, *game.TradeBattle, error) {
	if stakes < 0 {
		return "", nil, fmt.Errorf("stakes must not be negative, got %d", stakes)
	}
	if stakes > 0 {
		if _, err := s.progress.SpendCoins(userID, stakes, now); err != nil {
			return "", nil, err
		}
	}

	var battle *game.TradeBattle
	s.withRNG(func(rng *rand.Rand) {
		battle = game.NewTradeBattle(rng, stakes, now)
	})
	id := s.store(userID, kindBattle, func(sess *gameSession) { sess.battle = battle })
	return id, battle, nil
}

// AnswerBattle scores the player's call for the current battle round
func (s *GameService) AnswerBattle(userID, sessionID string, direction game.Direction, now time.Time) (bool, *game.TradeBattle, error) {
	sess, err := s.lookup(userID, sessionID, kindBattle)
	if err != nil {
		return false, nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	correct, err := sess.battle.Answer(direction, now)
	if err != nil {
		return false, nil, err
	}
	return correct, sess.battle, nil
}

// TimeoutBattle forfeits the current round when its clock ran out
func (s *GameService) TimeoutBattle(userID, sessionID string, now time.Time) (*game.TradeBattle, error) {
	sess, err := s.lookup(userID, sessionID, kindBattle)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.battle.Timeout(now)
	return sess.battle, nil
}

// AdvanceBattle moves to the next battle round
func (s *GameService) AdvanceBattle(userID, sessionID string, now time.Time) (*game.TradeBattle, error) {
	sess, err := s.lookup(userID, sessionID, kindBattle)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.battle.Advance(now); err != nil {
		return nil, err
	}
	return sess.battle, nil
}

// BattleResult is the settled outcome of a finished battle
type BattleResult struct {
	Won      bool
	Tied     bool
	MyScore  int
	Opponent int
	CoinsWon int
	XPEarned int
}

// FinishBattle settles a finished battle. Winners collect double stakes
// and the win XP, ties refund the stakes, losses earn consolation XP.
func (s *GameService) FinishBattle(userID, sessionID string, now time.Time) (*BattleResult, error) {
	sess, err := s.lookup(userID, sessionID, kindBattle)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	battle := sess.battle
	if !battle.Terminal() {
		return nil, fmt.Errorf("battle still in progress")
	}

	result := &BattleResult{Won: battle.Won(), Tied: battle.Tied()}
	result.MyScore, result.Opponent = battle.Scores()

	switch {
	case result.Won:
		result.CoinsWon = battle.CoinsWon()
		result.XPEarned = game.BattleWinXP
	case result.Tied:
		result.CoinsWon = battle.Stakes()
		result.XPEarned = game.BattleLossXP
	default:
		result.XPEarned = game.BattleLossXP
	}

	if result.CoinsWon > 0 {
		if _, err := s.progress.AddCoins(userID, result.CoinsWon, now); err != nil {
			return nil, err
		}
	}
	if _, err := s.progress.AddXP(userID, result.XPEarned, now); err != nil {
		return nil, err
	}

	s.sessions.Remove(sessionID)
	return result, nil
}
