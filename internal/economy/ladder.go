package economy

import "math"

// DefaultXPThreshold is the XP needed to advance from level 1 to level 2.
const DefaultXPThreshold = 2000

// LevelGrowthFactor is how much the XP threshold grows per level-up.
const LevelGrowthFactor = 1.2

// ApplyXP adds delta XP and resolves any level-ups. Overflow rolls into
// consecutive level-ups; each level-up multiplies the threshold by
// LevelGrowthFactor, floored to an integer. The returned xp is always
// strictly below the returned threshold.
func ApplyXP(xp, level, threshold, delta int) (newXP, newLevel, newThreshold int) {
	if delta < 0 {
		delta = 0
	}

	newXP = xp + delta
	newLevel = level
	newThreshold = threshold

	for newXP >= newThreshold {
		newXP -= newThreshold
		newLevel++
		newThreshold = int(math.Floor(float64(newThreshold) * LevelGrowthFactor))
	}

	return newXP, newLevel, newThreshold
}
