package game

import (
	"strings"
	"time"

	"tradeup/internal/models"
)

// Lesson player tuning values
const (
	// LessonPassThreshold is the fraction of questions that must be correct
	// to pass. The cutoff is inclusive: exactly 70% passes.
	LessonPassThreshold = 0.7

	LessonAdvanceDelay = time.Second
)

// LessonAnswer carries the user's answer for any question kind. Exactly one
// field is expected depending on the question type.
type LessonAnswer struct {
	ChoiceIndex *int    `json:"choiceIndex,omitempty"`
	BoolValue   *bool   `json:"boolValue,omitempty"`
	Text        *string `json:"text,omitempty"`
	IsBullish   *bool   `json:"isBullish,omitempty"`
}

// CheckAnswer scores an answer against a question. Unknown question kinds
// and missing answer fields score as incorrect rather than erroring; a
// malformed submission is just a wrong answer.
func CheckAnswer(q models.Question, ans LessonAnswer) bool {
	switch question := q.(type) {
	case models.MultipleChoiceQuestion:
		return ans.ChoiceIndex != nil && *ans.ChoiceIndex == question.CorrectIndex
	case models.TrueFalseQuestion:
		return ans.BoolValue != nil && *ans.BoolValue == question.IsTrue
	case models.FillBlankQuestion:
		if ans.Text == nil {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(*ans.Text), strings.TrimSpace(question.Answer))
	case models.SwipeQuestion:
		return ans.IsBullish != nil && *ans.IsBullish == question.IsBullish
	case models.PatternRecognitionQuestion:
		pattern, ok := PatternByKey(question.PatternKey)
		if !ok || ans.IsBullish == nil {
			return false
		}
		return *ans.IsBullish == pattern.IsBullish
	case models.PatternNamingQuestion:
		pattern, ok := PatternByKey(question.PatternKey)
		if !ok || ans.Text == nil {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(*ans.Text), pattern.Name)
	default:
		return false
	}
}

// LessonPlayer sequences a fixed question list and accumulates the correct
// count. It is transient session state; the caller applies rewards from the
// terminal result.
type LessonPlayer struct {
	questions    []models.Question
	currentIndex int
	correctCount int
	terminal     bool
}

// NewLessonPlayer starts a lesson run over the given questions
func NewLessonPlayer(questions []models.Question) *LessonPlayer {
	return &LessonPlayer{questions: questions}
}

// Current returns the active question, or false when the lesson is over
func (p *LessonPlayer) Current() (models.Question, bool) {
	if p.terminal || p.currentIndex >= len(p.questions) {
		return nil, false
	}
	return p.questions[p.currentIndex], true
}

// Submit scores an answer for the current question and advances. The lesson
// becomes terminal after the last question.
func (p *LessonPlayer) Submit(ans LessonAnswer) (bool, error) {
	if p.terminal {
		return false, ErrGameOver
	}

	correct := CheckAnswer(p.questions[p.currentIndex], ans)
	if correct {
		p.correctCount++
	}

	p.currentIndex++
	if p.currentIndex >= len(p.questions) {
		p.terminal = true
	}
	return correct, nil
}

// Terminal reports whether all questions have been answered
func (p *LessonPlayer) Terminal() bool { return p.terminal }

// Index returns the zero-based current question index
func (p *LessonPlayer) Index() int { return p.currentIndex }

// Result returns the pass/fail outcome and tally. Only meaningful once the
// player is terminal.
func (p *LessonPlayer) Result() (passed bool, correct, total int) {
	total = len(p.questions)
	correct = p.correctCount
	passed = float64(correct) >= float64(total)*LessonPassThreshold
	return passed, correct, total
}
