package game

import (
	"math/rand"
	"strings"
	"time"
)

// Drill tuning values
const (
	DrillAdvanceDelay  = 2 * time.Second
	DrillStreakStep    = 5
	DrillStreakBonusXP = 25
	drillNamingOptions = 4
)

// DrillMode selects which question kinds a drill serves
type DrillMode string

const (
	DrillRecognition DrillMode = "recognition"
	DrillNaming      DrillMode = "naming"
	DrillMixed       DrillMode = "mixed"
)

// DrillKind is the kind of the current round
type DrillKind string

const (
	DrillKindRecognition DrillKind = "recognition"
	DrillKindNaming      DrillKind = "naming"
)

// DrillRound is one pattern question served by the drill
type DrillRound struct {
	Kind            DrillKind
	Pattern         Pattern
	ShowPatternName bool
	Options         []string
}

// PatternDrill is an endless pattern practice session. No hearts are at
// stake; the only economy side effect is a bonus XP emission each time the
// streak reaches a multiple of DrillStreakStep.
type PatternDrill struct {
	mode       DrillMode
	rng        *rand.Rand
	current    DrillRound
	correct    int
	total      int
	streak     int
	bestStreak int
}

// NewPatternDrill starts a drill in the given mode
func NewPatternDrill(mode DrillMode, rng *rand.Rand) *PatternDrill {
	d := &PatternDrill{mode: mode, rng: rng}
	catalog := Patterns()
	d.current = d.buildRound(catalog[rng.Intn(len(catalog))])
	return d
}

// Current returns the active round
func (d *PatternDrill) Current() DrillRound {
	return d.current
}

// AnswerRecognition scores a bullish/bearish call on the current pattern.
// The returned bonus is non-zero each time the streak hits a multiple of
// DrillStreakStep.
func (d *PatternDrill) AnswerRecognition(bullish bool) (correct bool, bonusXP int) {
	correct = bullish == d.current.Pattern.IsBullish
	return correct, d.record(correct)
}

// AnswerNaming scores a pattern-name choice, compared case-insensitively
// with whitespace trimmed.
func (d *PatternDrill) AnswerNaming(name string) (correct bool, bonusXP int) {
	correct = strings.EqualFold(strings.TrimSpace(name), d.current.Pattern.Name)
	return correct, d.record(correct)
}

func (d *PatternDrill) record(correct bool) int {
	d.total++
	if !correct {
		d.streak = 0
		return 0
	}

	d.correct++
	d.streak++
	if d.streak > d.bestStreak {
		d.bestStreak = d.streak
	}
	if d.streak%DrillStreakStep == 0 {
		return DrillStreakBonusXP
	}
	return 0
}

// Advance picks the next round. The next pattern is never the one just
// shown.
func (d *PatternDrill) Advance() {
	available := make([]Pattern, 0, len(patternCatalog)-1)
	for _, p := range Patterns() {
		if p.Key != d.current.Pattern.Key {
			available = append(available, p)
		}
	}
	d.current = d.buildRound(available[d.rng.Intn(len(available))])
}

func (d *PatternDrill) buildRound(p Pattern) DrillRound {
	kind := DrillKindRecognition
	switch d.mode {
	case DrillNaming:
		kind = DrillKindNaming
	case DrillMixed:
		if d.rng.Float64() < 0.5 {
			kind = DrillKindNaming
		}
	}

	round := DrillRound{Kind: kind, Pattern: p}
	if kind == DrillKindRecognition {
		round.ShowPatternName = d.rng.Float64() < 0.5
		return round
	}

	round.Options = d.namingOptions(p)
	return round
}

// namingOptions builds three distractor names plus the correct one, shuffled
func (d *PatternDrill) namingOptions(p Pattern) []string {
	others := make([]string, 0, len(patternCatalog)-1)
	for _, other := range Patterns() {
		if other.Key != p.Key {
			others = append(others, other.Name)
		}
	}
	d.rng.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})

	options := append(others[:drillNamingOptions-1:drillNamingOptions-1], p.Name)
	d.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// Tally returns the running score and streaks
func (d *PatternDrill) Tally() (correct, total, streak, bestStreak int) {
	return d.correct, d.total, d.streak, d.bestStreak
}
