package economy

import "time"

const (
	// MaxHearts is the cap on the attempt-limiting resource.
	MaxHearts = 5

	// HeartRefillInterval is how long it takes to regenerate one heart.
	HeartRefillInterval = time.Hour

	// HeartsRefillCost is the coin price of an instant full refill.
	HeartsRefillCost = 250
)

// RegenerateHearts computes how many hearts have accrued since lastUpdate.
// A nil lastUpdate means there is no backlog and nothing accrues. Output is
// clamped to MaxHearts. When any heart accrues the baseline resets to now,
// so partial progress toward the next heart is dropped rather than carried.
func RegenerateHearts(hearts int, lastUpdate *time.Time, now time.Time) (int, time.Time) {
	if hearts >= MaxHearts {
		if lastUpdate != nil {
			return hearts, *lastUpdate
		}
		return hearts, now
	}

	base := now
	if lastUpdate != nil {
		base = *lastUpdate
	}

	elapsed := now.Sub(base)
	if elapsed < 0 {
		elapsed = 0
	}

	heartsToAdd := int(elapsed / HeartRefillInterval)
	if heartsToAdd <= 0 {
		return hearts, base
	}

	newHearts := hearts + heartsToAdd
	if newHearts > MaxHearts {
		newHearts = MaxHearts
	}

	return newHearts, now
}

// TimeUntilNextHeart returns how long until the next heart regenerates, or
// false when hearts are already full. A nil lastUpdate means a full interval
// remains.
func TimeUntilNextHeart(hearts int, lastUpdate *time.Time, now time.Time) (time.Duration, bool) {
	if hearts >= MaxHearts {
		return 0, false
	}
	if lastUpdate == nil {
		return HeartRefillInterval, true
	}

	elapsed := now.Sub(*lastUpdate)
	if elapsed < 0 {
		elapsed = 0
	}

	return HeartRefillInterval - (elapsed % HeartRefillInterval), true
}
