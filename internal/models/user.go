package models

import "time"

// User represents an account in the system
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	DisplayName   string
	OAuthProvider string
	OAuthSubject  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session represents an authenticated session backing a refresh token
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// LeaderboardEntry is one row of the XP leaderboard
type LeaderboardEntry struct {
	Rank        int
	DisplayName string
	Level       int
	XP          int
	Streak      int
}
