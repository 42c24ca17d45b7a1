package game

import (
	"math/rand"
	"testing"
	"time"
)

func TestNewQuickQuizSamplesWithoutReplacement(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	quiz := NewQuickQuiz(rng, now)

	_, total := quiz.Tally()
	if total != QuizLength {
		t.Fatalf("quiz length = %d, want %d", total, QuizLength)
	}

	seen := make(map[string]bool)
	for i := 0; i < total; i++ {
		q, ok := quiz.Current()
		if !ok {
			t.Fatalf("Current() not ok at round %d", i)
		}
		if seen[q.Prompt] {
			t.Errorf("question %q sampled twice", q.Prompt)
		}
		seen[q.Prompt] = true

		if _, err := quiz.Answer(q.CorrectIndex, now); err != nil {
			t.Fatalf("Answer() error = %v", err)
		}
		if err := quiz.Advance(now); err != nil {
			t.Fatalf("Advance() error = %v", err)
		}
	}

	if !quiz.Terminal() {
		t.Error("quiz not terminal after all rounds")
	}
}

func TestQuickQuizScoring(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	quiz := NewQuickQuiz(rng, now)

	// Answer the first three correctly, the rest wrong.
	for i := 0; ; i++ {
		q, ok := quiz.Current()
		if !ok {
			break
		}

		choice := q.CorrectIndex
		if i >= 3 {
			choice = (q.CorrectIndex + 1) % len(q.Options)
		}

		correct, err := quiz.Answer(choice, now)
		if err != nil {
			t.Fatalf("Answer() error = %v", err)
		}
		if correct != (i < 3) {
			t.Errorf("round %d: correct = %v, want %v", i, correct, i < 3)
		}
		if err := quiz.Advance(now); err != nil {
			t.Fatalf("Advance() error = %v", err)
		}
	}

	correct, total := quiz.Tally()
	if correct != 3 || total != QuizLength {
		t.Errorf("Tally() = (%d, %d), want (3, %d)", correct, total, QuizLength)
	}
}

func TestQuickQuizDoubleAnswerRejected(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	quiz := NewQuickQuiz(rng, now)

	if _, err := quiz.Answer(0, now); err != nil {
		t.Fatalf("first Answer() error = %v", err)
	}
	if _, err := quiz.Answer(0, now); err != ErrAlreadyAnswered {
		t.Errorf("second Answer() error = %v, want ErrAlreadyAnswered", err)
	}
}

func TestQuickQuizTimeBudgetExpiry(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	quiz := NewQuickQuiz(rng, start)

	q, _ := quiz.Current()
	if _, err := quiz.Answer(q.CorrectIndex, start); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if err := quiz.Advance(start); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}

	// The session budget runs out mid-quiz.
	late := start.Add(QuizTimeLimit)
	if _, err := quiz.Answer(0, late); err != ErrGameOver {
		t.Errorf("Answer() after expiry error = %v, want ErrGameOver", err)
	}
	if !quiz.Terminal() {
		t.Error("quiz not terminal after time budget expired")
	}

	// The tally at expiry is the running score.
	correct, total := quiz.Tally()
	if correct != 1 || total != QuizLength {
		t.Errorf("Tally() = (%d, %d), want (1, %d)", correct, total, QuizLength)
	}
}

func TestQuickQuizTimeRemaining(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	quiz := NewQuickQuiz(rng, start)

	if got := quiz.TimeRemaining(start); got != QuizTimeLimit {
		t.Errorf("TimeRemaining(start) = %v, want %v", got, QuizTimeLimit)
	}
	if got := quiz.TimeRemaining(start.Add(2 * time.Minute)); got != 3*time.Minute {
		t.Errorf("TimeRemaining(+2m) = %v, want 3m", got)
	}
	if got := quiz.TimeRemaining(start.Add(10 * time.Minute)); got != 0 {
		t.Errorf("TimeRemaining(+10m) = %v, want 0", got)
	}
}
