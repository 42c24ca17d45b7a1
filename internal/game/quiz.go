package game

import (
	"errors"
	"math/rand"
	"time"
)

// Quiz tuning values
const (
	QuizLength       = 10
	QuizTimeLimit    = 5 * time.Minute
	QuizAdvanceDelay = time.Second
	QuizXPPerCorrect = 5
)

var (
	ErrGameOver        = errors.New("game is already over")
	ErrAlreadyAnswered = errors.New("round already answered")
	ErrNotAnswered     = errors.New("round not answered yet")
)

// QuickQuiz is a timed multiple-choice quiz session. It lives entirely in
// memory; the caller reports the final tally to the economy layer.
type QuickQuiz struct {
	rounds       []QuizQuestion
	currentIndex int
	correctCount int
	answered     bool
	terminal     bool
	deadline     time.Time
}

// NewQuickQuiz samples QuizLength questions without replacement from the
// bank and starts the session clock.
func NewQuickQuiz(rng *rand.Rand, now time.Time) *QuickQuiz {
	bank := QuizBank()
	sampled := make([]QuizQuestion, len(bank))
	copy(sampled, bank)
	rng.Shuffle(len(sampled), func(i, j int) {
		sampled[i], sampled[j] = sampled[j], sampled[i]
	})

	n := QuizLength
	if n > len(sampled) {
		n = len(sampled)
	}

	return &QuickQuiz{
		rounds:   sampled[:n],
		deadline: now.Add(QuizTimeLimit),
	}
}

// Current returns the active question, or false when the quiz is over.
func (q *QuickQuiz) Current() (QuizQuestion, bool) {
	if q.terminal || q.currentIndex >= len(q.rounds) {
		return QuizQuestion{}, false
	}
	return q.rounds[q.currentIndex], true
}

// Answer scores a choice for the current question. If the session time
// budget has expired the quiz ends with its current tally and ErrGameOver
// is returned.
func (q *QuickQuiz) Answer(choice int, now time.Time) (bool, error) {
	if q.terminal {
		return false, ErrGameOver
	}
	if q.expire(now) {
		return false, ErrGameOver
	}
	if q.answered {
		return false, ErrAlreadyAnswered
	}

	q.answered = true
	correct := choice == q.rounds[q.currentIndex].CorrectIndex
	if correct {
		q.correctCount++
	}

	return correct, nil
}

// Advance moves to the next question after the post-answer delay. The quiz
// becomes terminal once the last round is advanced past.
func (q *QuickQuiz) Advance(now time.Time) error {
	if q.terminal {
		return ErrGameOver
	}
	if q.expire(now) {
		return nil
	}
	if !q.answered {
		return ErrNotAnswered
	}

	q.answered = false
	q.currentIndex++
	if q.currentIndex >= len(q.rounds) {
		q.terminal = true
	}
	return nil
}

// expire flips the quiz terminal when the session budget is exhausted
func (q *QuickQuiz) expire(now time.Time) bool {
	if !now.Before(q.deadline) {
		q.terminal = true
	}
	return q.terminal
}

// TimeRemaining reports the session budget left
func (q *QuickQuiz) TimeRemaining(now time.Time) time.Duration {
	remaining := q.deadline.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Terminal reports whether the quiz is over
func (q *QuickQuiz) Terminal() bool { return q.terminal }

// Index returns the zero-based current round index
func (q *QuickQuiz) Index() int { return q.currentIndex }

// Tally returns the final (or running) score
func (q *QuickQuiz) Tally() (correct, total int) {
	return q.correctCount, len(q.rounds)
}
