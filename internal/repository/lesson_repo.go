package repository

import (
	"database/sql"
	"fmt"
	"time"

	"tradeup/internal/database"
	"tradeup/internal/models"
)

// LessonRepository handles database operations for lesson content and
// per-user completion records
type LessonRepository struct {
	db *database.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *database.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// UpsertLesson inserts or replaces a lesson. Content is stored as the raw
// question JSON; it is validated before writing.
func (r *LessonRepository) UpsertLesson(lesson *models.Lesson, contentJSON []byte) error {
	questions, err := models.DecodeQuestions(contentJSON)
	if err != nil {
		return fmt.Errorf("invalid lesson content for %s: %w", lesson.ID, err)
	}
	lesson.Content = questions

	// Portable upsert: try the update first, insert when nothing matched
	updateQuery := `
		UPDATE lessons
		SET module_id = ?, title = ?, description = ?, difficulty = ?,
		    order_index = ?, xp_reward = ?, coin_reward = ?, is_premium = ?, content = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(updateQuery,
		lesson.ModuleID, lesson.Title, lesson.Description, lesson.Difficulty,
		lesson.OrderIndex, lesson.XPReward, lesson.CoinReward, lesson.IsPremium,
		string(contentJSON), lesson.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected > 0 {
		return nil
	}

	insertQuery := `
		INSERT INTO lessons (id, module_id, title, description, difficulty,
			order_index, xp_reward, coin_reward, is_premium, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(insertQuery,
		lesson.ID, lesson.ModuleID, lesson.Title, lesson.Description, lesson.Difficulty,
		lesson.OrderIndex, lesson.XPReward, lesson.CoinReward, lesson.IsPremium,
		string(contentJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert lesson: %w", err)
	}
	return nil
}

// GetLesson retrieves a lesson by ID with its questions decoded
func (r *LessonRepository) GetLesson(id string) (*models.Lesson, error) {
	query := `
		SELECT id, module_id, title, description, difficulty, order_index,
		       xp_reward, coin_reward, is_premium, content, created_at
		FROM lessons
		WHERE id = ?
	`
	lesson := &models.Lesson{}
	var content string
	err := r.db.QueryRow(query, id).Scan(
		&lesson.ID,
		&lesson.ModuleID,
		&lesson.Title,
		&lesson.Description,
		&lesson.Difficulty,
		&lesson.OrderIndex,
		&lesson.XPReward,
		&lesson.CoinReward,
		&lesson.IsPremium,
		&content,
		&lesson.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	lesson.Content, err = models.DecodeQuestions([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("lesson %s: %w", id, err)
	}

	return lesson, nil
}

// ListLessons retrieves all lessons in curriculum order. Question content is
// not decoded; use GetLesson for a playable lesson.
func (r *LessonRepository) ListLessons() ([]models.Lesson, error) {
	query := `
		SELECT id, module_id, title, description, difficulty, order_index,
		       xp_reward, coin_reward, is_premium, created_at
		FROM lessons
		ORDER BY module_id, order_index
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var lesson models.Lesson
		if err := rows.Scan(
			&lesson.ID,
			&lesson.ModuleID,
			&lesson.Title,
			&lesson.Description,
			&lesson.Difficulty,
			&lesson.OrderIndex,
			&lesson.XPReward,
			&lesson.CoinReward,
			&lesson.IsPremium,
			&lesson.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	return lessons, rows.Err()
}

// GetCompletion retrieves the completion record for a (user, lesson) pair
func (r *LessonRepository) GetCompletion(userID, lessonID string) (*models.LessonCompletion, error) {
	query := `
		SELECT id, user_id, lesson_id, completed, score, completed_at, created_at
		FROM lesson_progress
		WHERE user_id = ? AND lesson_id = ?
	`
	completion := &models.LessonCompletion{}
	err := r.db.QueryRow(query, userID, lessonID).Scan(
		&completion.ID,
		&completion.UserID,
		&completion.LessonID,
		&completion.Completed,
		&completion.Score,
		&completion.CompletedAt,
		&completion.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get completion: %w", err)
	}

	return completion, nil
}

// RecordCompletion upserts a completion record. A lesson that was already
// passed stays passed; the stored score only improves.
func (r *LessonRepository) RecordCompletion(id, userID, lessonID string, passed bool, score int, completedAt time.Time) error {
	existing, err := r.GetCompletion(userID, lessonID)
	if err != nil {
		return err
	}

	if existing == nil {
		query := `
			INSERT INTO lesson_progress (id, user_id, lesson_id, completed, score, completed_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		var at *time.Time
		if passed {
			at = &completedAt
		}
		_, err := r.db.Exec(query, id, userID, lessonID, passed, score, at)
		if err != nil {
			return fmt.Errorf("failed to record completion: %w", err)
		}
		return nil
	}

	completed := existing.Completed || passed
	if score < existing.Score {
		score = existing.Score
	}
	at := existing.CompletedAt
	if passed && at == nil {
		at = &completedAt
	}

	query := `
		UPDATE lesson_progress
		SET completed = ?, score = ?, completed_at = ?
		WHERE user_id = ? AND lesson_id = ?
	`
	_, err = r.db.Exec(query, completed, score, at, userID, lessonID)
	if err != nil {
		return fmt.Errorf("failed to update completion: %w", err)
	}
	return nil
}

// ListCompletions retrieves all completion records for a user
func (r *LessonRepository) ListCompletions(userID string) ([]models.LessonCompletion, error) {
	query := `
		SELECT id, user_id, lesson_id, completed, score, completed_at, created_at
		FROM lesson_progress
		WHERE user_id = ?
		ORDER BY created_at
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	var completions []models.LessonCompletion
	for rows.Next() {
		var c models.LessonCompletion
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.LessonID,
			&c.Completed,
			&c.Score,
			&c.CompletedAt,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		completions = append(completions, c)
	}

	return completions, rows.Err()
}
