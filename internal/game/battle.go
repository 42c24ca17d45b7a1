package game

import (
	"math/rand"
	"time"
)

// Battle tuning values
const (
	BattleRounds        = 5
	BattleRoundDuration = 10 * time.Second
	BattleAdvanceDelay  = 2 * time.Second
	BattleWinXP         = 50
	BattleLossXP        = 15

	// The simulated opponent answers each round correctly with this fixed,
	// independent probability. It is not adaptive.
	BattleOpponentAccuracy = 0.7
)

// BattleRound is one price-prediction round against the opponent
type BattleRound struct {
	Symbol     string
	StartPrice float64
	EndPrice   float64
	Direction  Direction
}

// battleRoundTable is the fixed pool battles sample from
var battleRoundTable = []BattleRound{
	{Symbol: "BTC", StartPrice: 42150, EndPrice: 43200, Direction: DirectionUp},
	{Symbol: "ETH", StartPrice: 2280, EndPrice: 2195, Direction: DirectionDown},
	{Symbol: "AAPL", StartPrice: 178.50, EndPrice: 182.30, Direction: DirectionUp},
	{Symbol: "TSLA", StartPrice: 248.00, EndPrice: 235.50, Direction: DirectionDown},
	{Symbol: "NVDA", StartPrice: 485.00, EndPrice: 502.00, Direction: DirectionUp},
}

// TradeBattle is a head-to-head prediction session against a simulated
// opponent, with coins staked on the outcome.
type TradeBattle struct {
	rounds        []BattleRound
	stakes        int
	rng           *rand.Rand
	currentIndex  int
	myScore       int
	opponentScore int
	answered      bool
	terminal      bool
	roundDeadline time.Time
}

// NewTradeBattle shuffles the round pool and starts the first round timer
func NewTradeBattle(rng *rand.Rand, stakes int, now time.Time) *TradeBattle {
	rounds := make([]BattleRound, len(battleRoundTable))
	copy(rounds, battleRoundTable)
	rng.Shuffle(len(rounds), func(i, j int) {
		rounds[i], rounds[j] = rounds[j], rounds[i]
	})

	n := BattleRounds
	if n > len(rounds) {
		n = len(rounds)
	}

	return &TradeBattle{
		rounds:        rounds[:n],
		stakes:        stakes,
		rng:           rng,
		roundDeadline: now.Add(BattleRoundDuration),
	}
}

// Current returns the active round, or false when the battle is over
func (b *TradeBattle) Current() (BattleRound, bool) {
	if b.terminal {
		return BattleRound{}, false
	}
	return b.rounds[b.currentIndex], true
}

// Answer scores a direction call for the current round and rolls the
// opponent's independent answer. A call after the round deadline counts as
// unanswered and is scored incorrect, not rejected.
func (b *TradeBattle) Answer(direction Direction, now time.Time) (bool, error) {
	if b.terminal {
		return false, ErrGameOver
	}
	if b.answered {
		return false, ErrAlreadyAnswered
	}
	if !now.Before(b.roundDeadline) {
		b.scoreRound(false)
		return false, nil
	}

	correct := direction == b.rounds[b.currentIndex].Direction
	b.scoreRound(correct)
	return correct, nil
}

// Timeout force-resolves the current round as unanswered once its deadline
// has passed. It is a no-op before the deadline or after an answer.
func (b *TradeBattle) Timeout(now time.Time) {
	if b.terminal || b.answered || now.Before(b.roundDeadline) {
		return
	}
	b.scoreRound(false)
}

func (b *TradeBattle) scoreRound(correct bool) {
	b.answered = true
	if correct {
		b.myScore++
	}
	if b.rng.Float64() < BattleOpponentAccuracy {
		b.opponentScore++
	}
}

// Advance starts the next round timer, or ends the battle after the last
// round. Each scored round advances exactly once.
func (b *TradeBattle) Advance(now time.Time) error {
	if b.terminal {
		return ErrGameOver
	}
	if !b.answered {
		return ErrNotAnswered
	}

	b.answered = false
	b.currentIndex++
	if b.currentIndex >= len(b.rounds) {
		b.terminal = true
		return nil
	}
	b.roundDeadline = now.Add(BattleRoundDuration)
	return nil
}

// RoundTimeRemaining reports the countdown for the active round
func (b *TradeBattle) RoundTimeRemaining(now time.Time) time.Duration {
	remaining := b.roundDeadline.Sub(now)
	if remaining < 0 || b.terminal {
		return 0
	}
	return remaining
}

// Terminal reports whether the battle is over
func (b *TradeBattle) Terminal() bool { return b.terminal }

// Index returns the zero-based current round index
func (b *TradeBattle) Index() int { return b.currentIndex }

// Stakes returns the coins staked on this battle
func (b *TradeBattle) Stakes() int { return b.stakes }

// Scores returns the running (or final) scores
func (b *TradeBattle) Scores() (mine, opponent int) {
	return b.myScore, b.opponentScore
}

// Won reports whether the player beat the opponent outright
func (b *TradeBattle) Won() bool { return b.myScore > b.opponentScore }

// Tied reports whether the battle ended level
func (b *TradeBattle) Tied() bool { return b.myScore == b.opponentScore }

// CoinsWon is the payout on victory: double the stakes, winner takes all
func (b *TradeBattle) CoinsWon() int {
	if !b.Won() {
		return 0
	}
	return b.stakes * 2
}
