package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Lesson is a unit of learning content with its reward values
type Lesson struct {
	ID          string
	ModuleID    string
	Title       string
	Description string
	Difficulty  string
	OrderIndex  int
	XPReward    int
	CoinReward  int
	IsPremium   bool
	Content     []Question
	CreatedAt   time.Time
}

// LessonCompletion is the per (user, lesson) completion record
type LessonCompletion struct {
	ID          string
	UserID      string
	LessonID    string
	Completed   bool
	Score       int
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// QuestionType discriminates the fixed set of question kinds
type QuestionType string

const (
	QuestionMultipleChoice     QuestionType = "multiple_choice"
	QuestionTrueFalse          QuestionType = "true_false"
	QuestionFillBlank          QuestionType = "fill_blank"
	QuestionSwipe              QuestionType = "swipe"
	QuestionPatternRecognition QuestionType = "pattern_recognition"
	QuestionPatternNaming      QuestionType = "pattern_naming"
)

// Question is the closed set of lesson question kinds. Scoring code type
// switches over the concrete types.
type Question interface {
	Type() QuestionType
}

// MultipleChoiceQuestion asks the user to pick one of several options
type MultipleChoiceQuestion struct {
	Question     string
	Options      []string
	CorrectIndex int
}

func (MultipleChoiceQuestion) Type() QuestionType { return QuestionMultipleChoice }

// TrueFalseQuestion asks whether a statement is true
type TrueFalseQuestion struct {
	Statement string
	IsTrue    bool
}

func (TrueFalseQuestion) Type() QuestionType { return QuestionTrueFalse }

// FillBlankQuestion asks the user to type the missing word. Answers are
// compared case-insensitively with surrounding whitespace trimmed.
type FillBlankQuestion struct {
	Sentence string
	Answer   string
}

func (FillBlankQuestion) Type() QuestionType { return QuestionFillBlank }

// SwipeQuestion presents a market scenario to classify as bullish or bearish
type SwipeQuestion struct {
	Scenario  string
	IsBullish bool
}

func (SwipeQuestion) Type() QuestionType { return QuestionSwipe }

// PatternRecognitionQuestion shows a candlestick pattern and asks for its
// direction. The pattern key references the pattern catalog.
type PatternRecognitionQuestion struct {
	PatternKey      string
	ShowPatternName bool
}

func (PatternRecognitionQuestion) Type() QuestionType { return QuestionPatternRecognition }

// PatternNamingQuestion shows a candlestick pattern and asks for its name
type PatternNamingQuestion struct {
	PatternKey string
	Options    []string
}

func (PatternNamingQuestion) Type() QuestionType { return QuestionPatternNaming }

// questionEnvelope is the loose JSON shape lesson content is stored in
type questionEnvelope struct {
	Type            QuestionType `json:"type"`
	Question        string       `json:"question,omitempty"`
	Statement       string       `json:"statement,omitempty"`
	Sentence        string       `json:"sentence,omitempty"`
	Scenario        string       `json:"scenario,omitempty"`
	Options         []string     `json:"options,omitempty"`
	CorrectIndex    *int         `json:"correctIndex,omitempty"`
	IsTrue          *bool        `json:"isTrue,omitempty"`
	Answer          string       `json:"answer,omitempty"`
	IsBullish       *bool        `json:"isBullish,omitempty"`
	PatternKey      string       `json:"patternKey,omitempty"`
	ShowPatternName bool         `json:"showPatternName,omitempty"`
}

// DecodeQuestions parses stored lesson content into typed questions
func DecodeQuestions(raw []byte) ([]Question, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var envelopes []questionEnvelope
	if err := json.Unmarshal(raw, &envelopes); err != nil {
		return nil, fmt.Errorf("failed to parse lesson content: %w", err)
	}

	questions := make([]Question, 0, len(envelopes))
	for i, env := range envelopes {
		q, err := env.toQuestion()
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		questions = append(questions, q)
	}

	return questions, nil
}

func (env questionEnvelope) toQuestion() (Question, error) {
	switch env.Type {
	case QuestionMultipleChoice:
		if env.CorrectIndex == nil || len(env.Options) == 0 {
			return nil, fmt.Errorf("multiple_choice requires options and correctIndex")
		}
		if *env.CorrectIndex < 0 || *env.CorrectIndex >= len(env.Options) {
			return nil, fmt.Errorf("correctIndex %d out of range", *env.CorrectIndex)
		}
		return MultipleChoiceQuestion{
			Question:     env.Question,
			Options:      env.Options,
			CorrectIndex: *env.CorrectIndex,
		}, nil
	case QuestionTrueFalse:
		if env.IsTrue == nil {
			return nil, fmt.Errorf("true_false requires isTrue")
		}
		return TrueFalseQuestion{Statement: env.Statement, IsTrue: *env.IsTrue}, nil
	case QuestionFillBlank:
		if env.Answer == "" {
			return nil, fmt.Errorf("fill_blank requires answer")
		}
		return FillBlankQuestion{Sentence: env.Sentence, Answer: env.Answer}, nil
	case QuestionSwipe:
		if env.IsBullish == nil {
			return nil, fmt.Errorf("swipe requires isBullish")
		}
		return SwipeQuestion{Scenario: env.Scenario, IsBullish: *env.IsBullish}, nil
	case QuestionPatternRecognition:
		if env.PatternKey == "" {
			return nil, fmt.Errorf("pattern_recognition requires patternKey")
		}
		return PatternRecognitionQuestion{
			PatternKey:      env.PatternKey,
			ShowPatternName: env.ShowPatternName,
		}, nil
	case QuestionPatternNaming:
		if env.PatternKey == "" {
			return nil, fmt.Errorf("pattern_naming requires patternKey")
		}
		return PatternNamingQuestion{PatternKey: env.PatternKey, Options: env.Options}, nil
	default:
		return nil, fmt.Errorf("unknown question type %q", env.Type)
	}
}
