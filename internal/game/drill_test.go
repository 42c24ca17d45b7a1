package game

import (
	"math/rand"
	"strings"
	"testing"
)

func TestPatternDrillStreakAndBonus(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	drill := NewPatternDrill(DrillRecognition, rng)

	// Seven correct answers in a row: bonus exactly at streak 5.
	for i := 1; i <= 7; i++ {
		round := drill.Current()
		correct, bonus := drill.AnswerRecognition(round.Pattern.IsBullish)
		if !correct {
			t.Fatalf("answer %d scored incorrect", i)
		}

		wantBonus := 0
		if i == 5 {
			wantBonus = DrillStreakBonusXP
		}
		if bonus != wantBonus {
			t.Errorf("answer %d: bonus = %d, want %d", i, bonus, wantBonus)
		}
		drill.Advance()
	}

	correct, total, streak, best := drill.Tally()
	if correct != 7 || total != 7 || streak != 7 || best != 7 {
		t.Errorf("Tally() = (%d, %d, %d, %d), want (7, 7, 7, 7)", correct, total, streak, best)
	}
}

func TestPatternDrillStreakResetsOnMiss(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	drill := NewPatternDrill(DrillRecognition, rng)

	for i := 0; i < 3; i++ {
		round := drill.Current()
		drill.AnswerRecognition(round.Pattern.IsBullish)
		drill.Advance()
	}

	round := drill.Current()
	correct, bonus := drill.AnswerRecognition(!round.Pattern.IsBullish)
	if correct || bonus != 0 {
		t.Errorf("wrong answer scored (%v, %d), want (false, 0)", correct, bonus)
	}

	_, _, streak, best := drill.Tally()
	if streak != 0 {
		t.Errorf("streak = %d, want 0 after a miss", streak)
	}
	if best != 3 {
		t.Errorf("bestStreak = %d, want 3", best)
	}
}

func TestPatternDrillNeverRepeatsPattern(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	drill := NewPatternDrill(DrillMixed, rng)

	prev := drill.Current().Pattern.Key
	for i := 0; i < 50; i++ {
		round := drill.Current()
		if round.Kind == DrillKindRecognition {
			drill.AnswerRecognition(true)
		} else {
			drill.AnswerNaming(round.Options[0])
		}
		drill.Advance()

		next := drill.Current().Pattern.Key
		if next == prev {
			t.Fatalf("round %d repeated pattern %q", i, next)
		}
		prev = next
	}
}

func TestPatternDrillNamingOptions(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	drill := NewPatternDrill(DrillNaming, rng)

	for i := 0; i < 20; i++ {
		round := drill.Current()
		if round.Kind != DrillKindNaming {
			t.Fatalf("round %d kind = %q, want naming", i, round.Kind)
		}
		if len(round.Options) != drillNamingOptions {
			t.Fatalf("round %d has %d options, want %d", i, len(round.Options), drillNamingOptions)
		}

		found := false
		for _, opt := range round.Options {
			if opt == round.Pattern.Name {
				found = true
			}
		}
		if !found {
			t.Fatalf("round %d options %v missing correct name %q", i, round.Options, round.Pattern.Name)
		}

		drill.AnswerNaming(round.Pattern.Name)
		drill.Advance()
	}
}

func TestPatternDrillNamingComparison(t *testing.T) {
	rng := rand.New(rand.NewSource(15))
	drill := NewPatternDrill(DrillNaming, rng)

	round := drill.Current()
	sloppy := "  " + strings.ToUpper(round.Pattern.Name) + " "
	if correct, _ := drill.AnswerNaming(sloppy); !correct {
		t.Errorf("AnswerNaming(%q) = false, want case-insensitive trimmed match", sloppy)
	}
}
