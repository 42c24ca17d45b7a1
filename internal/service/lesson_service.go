package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"

	"tradeup/internal/game"
	"tradeup/internal/models"
	"tradeup/internal/security"
)

var (
	ErrLessonNotFound    = errors.New("lesson not found")
	ErrPremiumRequired   = errors.New("lesson requires a premium subscription")
	ErrLessonInProgress  = errors.New("lesson still in progress")
	ErrLessonSessionGone = errors.New("lesson session not found")
)

// lessonSession is one in-flight lesson run
type lessonSession struct {
	mu       sync.Mutex
	userID   string
	lessonID string
	player   *game.LessonPlayer
}

// LessonStatus pairs a lesson with the user's completion state
type LessonStatus struct {
	Lesson    models.Lesson
	Completed bool
	Score     int
}

// LessonResult is the outcome of a finished lesson run
type LessonResult struct {
	Passed      bool
	Correct     int
	Total       int
	Score       int
	XPEarned    int
	CoinsEarned int
}

// LessonStore is the lesson persistence the service needs, satisfied by
// repository.LessonRepository
type LessonStore interface {
	ListLessons() ([]models.Lesson, error)
	GetLesson(id string) (*models.Lesson, error)
	ListCompletions(userID string) ([]models.LessonCompletion, error)
	RecordCompletion(id, userID, lessonID string, passed bool, score int, completedAt time.Time) error
}

// LessonService runs the lesson player and hands out rewards. Hearts gate
// entry; whether a wrong answer also costs a heart is a deployment policy.
type LessonService struct {
	lessons             LessonStore
	progress            *ProgressService
	sessions            *lru.Cache
	heartLossPerMistake bool
}

// NewLessonService creates a lesson service
func NewLessonService(lessons LessonStore, progress *ProgressService, heartLossPerMistake bool) (*LessonService, error) {
	cache, err := lru.New(sessionCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create lesson session cache: %w", err)
	}
	return &LessonService{
		lessons:             lessons,
		progress:            progress,
		sessions:            cache,
		heartLossPerMistake: heartLossPerMistake,
	}, nil
}

// ListLessons returns the catalog with the user's completion status merged in
func (s *LessonService) ListLessons(userID string) ([]LessonStatus, error) {
	lessons, err := s.lessons.ListLessons()
	if err != nil {
		return nil, err
	}

	completions, err := s.lessons.ListCompletions(userID)
	if err != nil {
		return nil, err
	}
	byLesson := make(map[string]models.LessonCompletion, len(completions))
	for _, c := range completions {
		byLesson[c.LessonID] = c
	}

	statuses := make([]LessonStatus, 0, len(lessons))
	for _, lesson := range lessons {
		status := LessonStatus{Lesson: lesson}
		if c, ok := byLesson[lesson.ID]; ok {
			status.Completed = c.Completed
			status.Score = c.Score
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// StartLesson checks the entry gates and opens a lesson run. Premium
// lessons need the entitlement flag and every lesson needs at least one
// heart.
func (s *LessonService) StartLesson(userID, lessonID string, now time.Time) (string, *models.Lesson, error) {
	lesson, err := s.lessons.GetLesson(lessonID)
	if err != nil {
		return "", nil, err
	}
	if lesson == nil {
		return "", nil, ErrLessonNotFound
	}
	if len(lesson.Content) == 0 {
		return "", nil, fmt.Errorf("lesson %s has no questions", lessonID)
	}

	progress, err := s.progress.GetProgress(userID, now)
	if err != nil {
		return "", nil, err
	}
	if lesson.IsPremium && !progress.IsPremium {
		return "", nil, ErrPremiumRequired
	}
	if progress.Hearts <= 0 {
		return "", nil, ErrNoHearts
	}

	sess := &lessonSession{
		userID:   userID,
		lessonID: lessonID,
		player:   game.NewLessonPlayer(lesson.Content),
	}
	id := security.GenerateSessionID()
	s.sessions.Add(id, sess)
	return id, lesson, nil
}

func (s *LessonService) lookup(userID, sessionID string) (*lessonSession, error) {
	value, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrLessonSessionGone
	}
	sess := value.(*lessonSession)
	if sess.userID != userID {
		return nil, ErrLessonSessionGone
	}
	return sess, nil
}

// SubmitAnswer scores one answer. Under the per-mistake heart policy a
// wrong answer costs a heart; an empty heart bar never interrupts a
// lesson that already started.
func (s *LessonService) SubmitAnswer(userID, sessionID string, ans game.LessonAnswer, now time.Time) (bool, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return false, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	correct, err := sess.player.Submit(ans)
	if err != nil {
		return false, err
	}

	if !correct && s.heartLossPerMistake {
		if _, err := s.progress.LoseHeart(userID, now); err != nil && !errors.Is(err, ErrNoHearts) {
			return false, err
		}
	}
	return correct, nil
}

// CurrentQuestion returns the question the run is waiting on
func (s *LessonService) CurrentQuestion(userID, sessionID string) (models.Question, int, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, 0, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	q, ok := sess.player.Current()
	if !ok {
		return nil, sess.player.Index(), nil
	}
	return q, sess.player.Index(), nil
}

// FinishLesson settles a completed run: the completion record is written
// and a passing run earns the lesson's XP and coin rewards
func (s *LessonService) FinishLesson(userID, sessionID string, now time.Time) (*LessonResult, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.player.Terminal() {
		return nil, ErrLessonInProgress
	}

	passed, correct, total := sess.player.Result()
	result := &LessonResult{
		Passed:  passed,
		Correct: correct,
		Total:   total,
	}
	if total > 0 {
		result.Score = correct * 100 / total
	}

	if err := s.lessons.RecordCompletion(uuid.New().String(), userID, sess.lessonID, passed, result.Score, now); err != nil {
		return nil, err
	}

	if passed {
		lesson, err := s.lessons.GetLesson(sess.lessonID)
		if err != nil {
			return nil, err
		}
		if lesson != nil {
			result.XPEarned = lesson.XPReward
			result.CoinsEarned = lesson.CoinReward
		}
		if result.XPEarned > 0 {
			if _, err := s.progress.AddXP(userID, result.XPEarned, now); err != nil {
				return nil, err
			}
		}
		if result.CoinsEarned > 0 {
			if _, err := s.progress.AddCoins(userID, result.CoinsEarned, now); err != nil {
				return nil, err
			}
		}
		if _, err := s.progress.CompleteLesson(userID, now); err != nil {
			return nil, err
		}
	}

	s.sessions.Remove(sessionID)
	return result, nil
}
