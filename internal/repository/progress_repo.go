package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"tradeup/internal/database"
	"tradeup/internal/models"
)

// ErrVersionConflict is returned when a progress write lost a race with a
// concurrent writer. Callers should reload and retry.
var ErrVersionConflict = errors.New("progress row was modified concurrently")

// ProgressRepository abstracts persistence of user progress so the same
// service logic can run against the database for signed-in users and
// against local files for anonymous users.
type ProgressRepository interface {
	// Get returns the progress row for a user, or nil if none exists yet.
	Get(userID string) (*models.UserProgress, error)

	// Create inserts a fresh progress row. The row's Version is set to 1.
	Create(progress *models.UserProgress) error

	// Save writes the row back. The write only succeeds if the stored
	// version still matches progress.Version; on success the version is
	// incremented both in storage and on the passed struct.
	Save(progress *models.UserProgress) error

	// Delete removes the progress row.
	Delete(userID string) error
}

// SQLProgressRepository is the database-backed ProgressRepository used for
// signed-in users.
type SQLProgressRepository struct {
	db *database.DB
}

// NewSQLProgressRepository creates a new database-backed progress repository
func NewSQLProgressRepository(db *database.DB) *SQLProgressRepository {
	return &SQLProgressRepository{db: db}
}

const progressColumns = `
	user_id, xp, xp_to_next_level, level, streak, hearts, coins,
	lessons_completed, daily_goal, daily_progress,
	last_heart_update, last_activity_date, is_premium, version,
	created_at, updated_at
`

// Get returns the progress row for a user, or nil if none exists yet
func (r *SQLProgressRepository) Get(userID string) (*models.UserProgress, error) {
	query := "SELECT " + progressColumns + " FROM user_progress WHERE user_id = ?"

	progress := &models.UserProgress{}
	err := r.db.QueryRow(query, userID).Scan(
		&progress.UserID,
		&progress.XP,
		&progress.XPToNextLevel,
		&progress.Level,
		&progress.Streak,
		&progress.Hearts,
		&progress.Coins,
		&progress.LessonsCompleted,
		&progress.DailyGoal,
		&progress.DailyProgress,
		&progress.LastHeartUpdate,
		&progress.LastActivityDate,
		&progress.IsPremium,
		&progress.Version,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	return progress, nil
}

// Create inserts a fresh progress row
func (r *SQLProgressRepository) Create(progress *models.UserProgress) error {
	query := `
		INSERT INTO user_progress (
			user_id, xp, xp_to_next_level, level, streak, hearts, coins,
			lessons_completed, daily_goal, daily_progress,
			last_heart_update, last_activity_date, is_premium, version
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`
	_, err := r.db.Exec(query,
		progress.UserID,
		progress.XP,
		progress.XPToNextLevel,
		progress.Level,
		progress.Streak,
		progress.Hearts,
		progress.Coins,
		progress.LessonsCompleted,
		progress.DailyGoal,
		progress.DailyProgress,
		progress.LastHeartUpdate,
		progress.LastActivityDate,
		progress.IsPremium,
	)
	if err != nil {
		return fmt.Errorf("failed to create progress: %w", err)
	}

	progress.Version = 1
	return nil
}

// Save writes the row back, guarded by the optimistic version check
func (r *SQLProgressRepository) Save(progress *models.UserProgress) error {
	query := `
		UPDATE user_progress
		SET xp = ?, xp_to_next_level = ?, level = ?, streak = ?, hearts = ?,
		    coins = ?, lessons_completed = ?, daily_goal = ?, daily_progress = ?,
		    last_heart_update = ?, last_activity_date = ?, is_premium = ?,
		    version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND version = ?
	`
	result, err := r.db.Exec(query,
		progress.XP,
		progress.XPToNextLevel,
		progress.Level,
		progress.Streak,
		progress.Hearts,
		progress.Coins,
		progress.LessonsCompleted,
		progress.DailyGoal,
		progress.DailyProgress,
		progress.LastHeartUpdate,
		progress.LastActivityDate,
		progress.IsPremium,
		progress.UserID,
		progress.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check save result: %w", err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}

	progress.Version++
	return nil
}

// Delete removes the progress row
func (r *SQLProgressRepository) Delete(userID string) error {
	query := "DELETE FROM user_progress WHERE user_id = ?"
	_, err := r.db.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	return nil
}

// Leaderboard returns the top users. The xp column only holds progress
// inside the current level and resets on level-up, so level ranks first
// and xp breaks ties within a level.
func (r *SQLProgressRepository) Leaderboard(limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT u.display_name, p.level, p.xp, p.streak
		FROM user_progress p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.level DESC, p.xp DESC, u.display_name ASC
		LIMIT ?
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	rank := 0
	for rows.Next() {
		rank++
		entry := models.LeaderboardEntry{Rank: rank}
		if err := rows.Scan(&entry.DisplayName, &entry.Level, &entry.XP, &entry.Streak); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
