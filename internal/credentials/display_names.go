package credentials

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// Word lists for generating market-themed leaderboard names
var adjectives = []string{
	"Swift", "Bold", "Calm", "Sharp", "Lucky", "Steady", "Quick", "Clever",
	"Brave", "Patient", "Golden", "Silver", "Rapid", "Quiet", "Fearless", "Savvy",
	"Nimble", "Stoic", "Keen", "Mighty", "Cosmic", "Prime", "Dynamic", "Epic",
	"Rising", "Soaring", "Blazing", "Frosty", "Electric", "Turbo", "Zen", "Daring",
}

var nouns = []string{
	"Bull", "Bear", "Wolf", "Hawk", "Eagle", "Shark", "Fox", "Tiger",
	"Whale", "Falcon", "Lion", "Panther", "Owl", "Raven", "Cobra", "Lynx",
	"Trader", "Chartist", "Scalper", "Investor", "Candle", "Breakout", "Rally", "Signal",
	"Momentum", "Hedger", "Analyst", "Maverick", "Pioneer", "Strategist", "Navigator", "Voyager",
}

// GenerateDisplayName returns a random leaderboard name in the format
// "AdjectiveNounNN", e.g. "SwiftBull42".
func GenerateDisplayName() (string, error) {
	adjective, err := randomElement(adjectives)
	if err != nil {
		return "", err
	}

	noun, err := randomElement(nouns)
	if err != nil {
		return "", err
	}

	num, err := rand.Int(rand.Reader, big.NewInt(100))
	if err != nil {
		return "", err
	}

	return adjective + noun + strconv.FormatInt(num.Int64(), 10), nil
}

// randomElement picks a random element from a string slice
func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}

	return slice[num.Int64()], nil
}
