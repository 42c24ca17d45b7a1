package game

import (
	"testing"

	"tradeup/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestCheckAnswer(t *testing.T) {
	tests := []struct {
		name     string
		question models.Question
		answer   LessonAnswer
		want     bool
	}{
		{
			name:     "multiple choice correct",
			question: models.MultipleChoiceQuestion{Options: []string{"a", "b", "c"}, CorrectIndex: 1},
			answer:   LessonAnswer{ChoiceIndex: intPtr(1)},
			want:     true,
		},
		{
			name:     "multiple choice wrong",
			question: models.MultipleChoiceQuestion{Options: []string{"a", "b", "c"}, CorrectIndex: 1},
			answer:   LessonAnswer{ChoiceIndex: intPtr(0)},
			want:     false,
		},
		{
			name:     "multiple choice missing field",
			question: models.MultipleChoiceQuestion{Options: []string{"a", "b"}, CorrectIndex: 0},
			answer:   LessonAnswer{Text: strPtr("a")},
			want:     false,
		},
		{
			name:     "true false correct",
			question: models.TrueFalseQuestion{Statement: "s", IsTrue: false},
			answer:   LessonAnswer{BoolValue: boolPtr(false)},
			want:     true,
		},
		{
			name:     "fill blank trims and ignores case",
			question: models.FillBlankQuestion{Sentence: "a ___ market rises", Answer: "bull"},
			answer:   LessonAnswer{Text: strPtr("  BULL ")},
			want:     true,
		},
		{
			name:     "fill blank wrong word",
			question: models.FillBlankQuestion{Sentence: "a ___ market rises", Answer: "bull"},
			answer:   LessonAnswer{Text: strPtr("bear")},
			want:     false,
		},
		{
			name:     "swipe bullish correct",
			question: models.SwipeQuestion{Scenario: "s", IsBullish: true},
			answer:   LessonAnswer{IsBullish: boolPtr(true)},
			want:     true,
		},
		{
			name:     "pattern recognition uses catalog direction",
			question: models.PatternRecognitionQuestion{PatternKey: "hammer"},
			answer:   LessonAnswer{IsBullish: boolPtr(true)},
			want:     true,
		},
		{
			name:     "pattern recognition unknown key is incorrect",
			question: models.PatternRecognitionQuestion{PatternKey: "nosuch"},
			answer:   LessonAnswer{IsBullish: boolPtr(true)},
			want:     false,
		},
		{
			name:     "pattern naming matches catalog name",
			question: models.PatternNamingQuestion{PatternKey: "doji", Options: []string{"Doji", "Hammer"}},
			answer:   LessonAnswer{Text: strPtr("doji")},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckAnswer(tt.question, tt.answer); got != tt.want {
				t.Errorf("CheckAnswer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLessonPlayerPassBoundary(t *testing.T) {
	// 70% is an inclusive cutoff: 6/10 fails, 7/10 passes.
	tests := []struct {
		name       string
		total      int
		correct    int
		wantPassed bool
	}{
		{"6 of 10 fails", 10, 6, false},
		{"7 of 10 passes", 10, 7, true},
		{"10 of 10 passes", 10, 10, true},
		{"2 of 3 fails", 3, 2, false},
		{"3 of 3 passes", 3, 3, true},
		{"7 of 10 exactly at threshold", 10, 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions := make([]models.Question, tt.total)
			for i := range questions {
				questions[i] = models.TrueFalseQuestion{Statement: "s", IsTrue: true}
			}

			player := NewLessonPlayer(questions)
			for i := 0; i < tt.total; i++ {
				answer := boolPtr(i < tt.correct)
				if _, err := player.Submit(LessonAnswer{BoolValue: answer}); err != nil {
					t.Fatalf("Submit() error = %v", err)
				}
			}

			if !player.Terminal() {
				t.Fatal("player not terminal after all questions")
			}

			passed, correct, total := player.Result()
			if passed != tt.wantPassed || correct != tt.correct || total != tt.total {
				t.Errorf("Result() = (%v, %d, %d), want (%v, %d, %d)",
					passed, correct, total, tt.wantPassed, tt.correct, tt.total)
			}
		})
	}
}

func TestLessonPlayerRejectsSubmitAfterTerminal(t *testing.T) {
	player := NewLessonPlayer([]models.Question{
		models.TrueFalseQuestion{Statement: "s", IsTrue: true},
	})

	if _, err := player.Submit(LessonAnswer{BoolValue: boolPtr(true)}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := player.Submit(LessonAnswer{BoolValue: boolPtr(true)}); err != ErrGameOver {
		t.Errorf("Submit() after terminal error = %v, want ErrGameOver", err)
	}
}
