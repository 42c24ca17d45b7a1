package game

import (
	"math/rand"
	"testing"
)

func TestNewChartChallengeRounds(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	challenge := NewChartChallenge(rng)

	_, total := challenge.Tally()
	if total != ChartRounds {
		t.Fatalf("round count = %d, want %d", total, ChartRounds)
	}

	for i := 0; i < total; i++ {
		round, ok := challenge.Current()
		if !ok {
			t.Fatalf("Current() not ok at round %d", i)
		}
		if len(round.Candles) != ChartCandleCount {
			t.Errorf("round %d: %d candles, want %d", i, len(round.Candles), ChartCandleCount)
		}

		// The next candle continues from the last close in the expected
		// direction.
		last := round.Candles[len(round.Candles)-1].Close
		if round.NextCandle.Open != last {
			t.Errorf("round %d: next candle opens at %v, want %v", i, round.NextCandle.Open, last)
		}
		movedUp := round.NextCandle.Close > round.NextCandle.Open
		if movedUp != (round.Direction == DirectionUp) {
			t.Errorf("round %d: next candle direction does not match %q", i, round.Direction)
		}

		if _, err := challenge.Answer(round.Direction); err != nil {
			t.Fatalf("Answer() error = %v", err)
		}
		if err := challenge.Advance(); err != nil {
			t.Fatalf("Advance() error = %v", err)
		}
	}

	if !challenge.Terminal() {
		t.Error("challenge not terminal after all rounds")
	}
	correct, _ := challenge.Tally()
	if correct != ChartRounds {
		t.Errorf("correct = %d, want %d when always matching", correct, ChartRounds)
	}
}

func TestChartChallengeAnswerOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	challenge := NewChartChallenge(rng)

	if err := challenge.Advance(); err != ErrNotAnswered {
		t.Errorf("Advance() before answer error = %v, want ErrNotAnswered", err)
	}

	if _, err := challenge.Answer(DirectionUp); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if _, err := challenge.Answer(DirectionDown); err != ErrAlreadyAnswered {
		t.Errorf("second Answer() error = %v, want ErrAlreadyAnswered", err)
	}
}

func TestGenerateCandlesContinuity(t *testing.T) {
	rng := rand.New(rand.NewSource(23))

	for _, trend := range []Trend{TrendUp, TrendDown, TrendSideways} {
		candles := GenerateCandles(rng, 8, 150, trend)
		if len(candles) != 8 {
			t.Fatalf("trend %q: %d candles, want 8", trend, len(candles))
		}

		price := 150.0
		for i, c := range candles {
			if c.Open != price {
				t.Errorf("trend %q candle %d: open = %v, want %v", trend, i, c.Open, price)
			}
			if c.High < c.Open || c.High < c.Close {
				t.Errorf("trend %q candle %d: high %v below body", trend, i, c.High)
			}
			if c.Low > c.Open || c.Low > c.Close {
				t.Errorf("trend %q candle %d: low %v above body", trend, i, c.Low)
			}
			price = c.Close
		}
	}
}
