package game

import (
	"math/rand"
	"time"
)

// Chart challenge tuning values
const (
	ChartRounds       = 10
	ChartCandleCount  = 8
	ChartAdvanceDelay = 2 * time.Second
	ChartXPPerCorrect = 3
)

// ChartRound is one predict-the-next-candle round. The expected direction
// is fixed when the round is generated.
type ChartRound struct {
	Candles    []Candle
	NextCandle Candle
	Direction  Direction
}

// ChartChallenge is a session of procedurally generated candle-prediction
// rounds.
type ChartChallenge struct {
	rounds       []ChartRound
	currentIndex int
	correctCount int
	answered     bool
	terminal     bool
}

// NewChartChallenge generates all rounds up front. Each round shows a
// synthetic history with a random trend and asks for the direction of the
// next candle, which is an independent coin flip.
func NewChartChallenge(rng *rand.Rand) *ChartChallenge {
	trends := []Trend{TrendUp, TrendDown, TrendSideways}

	rounds := make([]ChartRound, 0, ChartRounds)
	for i := 0; i < ChartRounds; i++ {
		trend := trends[rng.Intn(len(trends))]
		startPrice := 100 + rng.Float64()*100
		candles := GenerateCandles(rng, ChartCandleCount, startPrice, trend)
		lastPrice := candles[len(candles)-1].Close

		direction := DirectionUp
		if rng.Float64() < 0.5 {
			direction = DirectionDown
		}

		rounds = append(rounds, ChartRound{
			Candles:    candles,
			NextCandle: nextCandle(rng, lastPrice, direction),
			Direction:  direction,
		})
	}

	return &ChartChallenge{rounds: rounds}
}

// Current returns the active round, or false when the challenge is over
func (c *ChartChallenge) Current() (ChartRound, bool) {
	if c.terminal {
		return ChartRound{}, false
	}
	return c.rounds[c.currentIndex], true
}

// Answer scores a direction call for the current round
func (c *ChartChallenge) Answer(direction Direction) (bool, error) {
	if c.terminal {
		return false, ErrGameOver
	}
	if c.answered {
		return false, ErrAlreadyAnswered
	}

	c.answered = true
	correct := direction == c.rounds[c.currentIndex].Direction
	if correct {
		c.correctCount++
	}
	return correct, nil
}

// Advance moves to the next round after the reveal delay
func (c *ChartChallenge) Advance() error {
	if c.terminal {
		return ErrGameOver
	}
	if !c.answered {
		return ErrNotAnswered
	}

	c.answered = false
	c.currentIndex++
	if c.currentIndex >= len(c.rounds) {
		c.terminal = true
	}
	return nil
}

// Terminal reports whether all rounds are done
func (c *ChartChallenge) Terminal() bool { return c.terminal }

// Index returns the zero-based current round index
func (c *ChartChallenge) Index() int { return c.currentIndex }

// Tally returns the final (or running) score
func (c *ChartChallenge) Tally() (correct, total int) {
	return c.correctCount, len(c.rounds)
}
