package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tradeup/internal/models"
)

// LocalProgressRepository is a file-backed ProgressRepository for anonymous
// users. Each user ID maps to one JSON file in the configured directory.
// Anonymous progress never migrates into the database; signing in starts a
// fresh server-side row.
type LocalProgressRepository struct {
	dir string
	mu  sync.Mutex
}

// NewLocalProgressRepository creates a file-backed progress repository
// rooted at dir. The directory is created on first write.
func NewLocalProgressRepository(dir string) *LocalProgressRepository {
	return &LocalProgressRepository{dir: dir}
}

// localProgressRecord is the on-disk JSON shape
type localProgressRecord struct {
	UserID           string     `json:"userId"`
	XP               int        `json:"xp"`
	XPToNextLevel    int        `json:"xpToNextLevel"`
	Level            int        `json:"level"`
	Streak           int        `json:"streak"`
	Hearts           int        `json:"hearts"`
	Coins            int        `json:"coins"`
	LessonsCompleted int        `json:"lessonsCompleted"`
	DailyGoal        int        `json:"dailyGoal"`
	DailyProgress    int        `json:"dailyProgress"`
	LastHeartUpdate  *time.Time `json:"lastHeartUpdate,omitempty"`
	LastActivityDate *time.Time `json:"lastActivityDate,omitempty"`
	IsPremium        bool       `json:"isPremium"`
	Version          int64      `json:"version"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (r *LocalProgressRepository) path(userID string) string {
	return filepath.Join(r.dir, userID+".json")
}

func (r *LocalProgressRepository) read(userID string) (*localProgressRecord, error) {
	data, err := os.ReadFile(r.path(userID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}

	record := &localProgressRecord{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("failed to decode progress file: %w", err)
	}
	return record, nil
}

// write replaces the file atomically so a crash never leaves a half-written
// record behind.
func (r *LocalProgressRepository) write(record *localProgressRecord) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create progress directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	tmp := r.path(record.UserID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write progress file: %w", err)
	}
	if err := os.Rename(tmp, r.path(record.UserID)); err != nil {
		return fmt.Errorf("failed to replace progress file: %w", err)
	}
	return nil
}

// Get returns the progress row for a user, or nil if none exists yet
func (r *LocalProgressRepository) Get(userID string) (*models.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := r.read(userID)
	if err != nil || record == nil {
		return nil, err
	}

	return &models.UserProgress{
		UserID:           record.UserID,
		XP:               record.XP,
		XPToNextLevel:    record.XPToNextLevel,
		Level:            record.Level,
		Streak:           record.Streak,
		Hearts:           record.Hearts,
		Coins:            record.Coins,
		LessonsCompleted: record.LessonsCompleted,
		DailyGoal:        record.DailyGoal,
		DailyProgress:    record.DailyProgress,
		LastHeartUpdate:  record.LastHeartUpdate,
		LastActivityDate: record.LastActivityDate,
		IsPremium:        record.IsPremium,
		Version:          record.Version,
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
	}, nil
}

// Create inserts a fresh progress row
func (r *LocalProgressRepository) Create(progress *models.UserProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.read(progress.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("progress already exists for %s", progress.UserID)
	}

	now := time.Now()
	progress.Version = 1
	progress.CreatedAt = now
	progress.UpdatedAt = now
	return r.write(recordFromProgress(progress))
}

// Save writes the row back, guarded by the optimistic version check
func (r *LocalProgressRepository) Save(progress *models.UserProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.read(progress.UserID)
	if err != nil {
		return err
	}
	if existing == nil || existing.Version != progress.Version {
		return ErrVersionConflict
	}

	progress.Version++
	progress.UpdatedAt = time.Now()
	if err := r.write(recordFromProgress(progress)); err != nil {
		progress.Version--
		return err
	}
	return nil
}

// Delete removes the progress row
func (r *LocalProgressRepository) Delete(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(r.path(userID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete progress file: %w", err)
	}
	return nil
}

func recordFromProgress(p *models.UserProgress) *localProgressRecord {
	return &localProgressRecord{
		UserID:           p.UserID,
		XP:               p.XP,
		XPToNextLevel:    p.XPToNextLevel,
		Level:            p.Level,
		Streak:           p.Streak,
		Hearts:           p.Hearts,
		Coins:            p.Coins,
		LessonsCompleted: p.LessonsCompleted,
		DailyGoal:        p.DailyGoal,
		DailyProgress:    p.DailyProgress,
		LastHeartUpdate:  p.LastHeartUpdate,
		LastActivityDate: p.LastActivityDate,
		IsPremium:        p.IsPremium,
		Version:          p.Version,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
