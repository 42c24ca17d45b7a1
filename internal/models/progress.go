package models

import (
	"time"

	"tradeup/internal/economy"
)

// UserProgress is the per-user progress and economy row. There is exactly
// one per user identity; anonymous sessions keep an equivalent structure in
// device-local storage.
type UserProgress struct {
	UserID           string
	XP               int
	XPToNextLevel    int
	Level            int
	Streak           int
	Hearts           int
	Coins            int
	LessonsCompleted int
	DailyGoal        int
	DailyProgress    int
	LastHeartUpdate  *time.Time
	LastActivityDate *time.Time
	IsPremium        bool
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DefaultProgress returns the progress row created on first access.
func DefaultProgress(userID string) *UserProgress {
	return &UserProgress{
		UserID:        userID,
		XP:            0,
		XPToNextLevel: economy.DefaultXPThreshold,
		Level:         1,
		Streak:        0,
		Hearts:        economy.MaxHearts,
		Coins:         0,
		DailyGoal:     3,
		DailyProgress: 0,
	}
}

// ProgressUpdate is a partial update of UserProgress. Only non-nil fields
// are merged and written.
type ProgressUpdate struct {
	XP               *int
	XPToNextLevel    *int
	Level            *int
	Streak           *int
	Hearts           *int
	Coins            *int
	LessonsCompleted *int
	DailyGoal        *int
	DailyProgress    *int
	LastHeartUpdate  *time.Time
	LastActivityDate *time.Time
	IsPremium        *bool
}

// Apply merges the update into p in place.
func (u ProgressUpdate) Apply(p *UserProgress) {
	if u.XP != nil {
		p.XP = *u.XP
	}
	if u.XPToNextLevel != nil {
		p.XPToNextLevel = *u.XPToNextLevel
	}
	if u.Level != nil {
		p.Level = *u.Level
	}
	if u.Streak != nil {
		p.Streak = *u.Streak
	}
	if u.Hearts != nil {
		p.Hearts = *u.Hearts
	}
	if u.Coins != nil {
		p.Coins = *u.Coins
	}
	if u.LessonsCompleted != nil {
		p.LessonsCompleted = *u.LessonsCompleted
	}
	if u.DailyGoal != nil {
		p.DailyGoal = *u.DailyGoal
	}
	if u.DailyProgress != nil {
		p.DailyProgress = *u.DailyProgress
	}
	if u.LastHeartUpdate != nil {
		p.LastHeartUpdate = u.LastHeartUpdate
	}
	if u.LastActivityDate != nil {
		p.LastActivityDate = u.LastActivityDate
	}
	if u.IsPremium != nil {
		p.IsPremium = *u.IsPremium
	}
}

// IntPtr is a convenience for building partial updates.
func IntPtr(v int) *int { return &v }

// BoolPtr is a convenience for building partial updates.
func BoolPtr(v bool) *bool { return &v }

// TimePtr is a convenience for building partial updates.
func TimePtr(v time.Time) *time.Time { return &v }
