package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"tradeup/internal/config"
	"tradeup/internal/database"
	"tradeup/internal/models"
	"tradeup/internal/repository"
)

// lessonFile is the on-disk shape of one lesson content file
type lessonFile struct {
	ID          string          `json:"id"`
	ModuleID    string          `json:"moduleId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Difficulty  string          `json:"difficulty"`
	OrderIndex  int             `json:"orderIndex"`
	XPReward    int             `json:"xpReward"`
	CoinReward  int             `json:"coinReward"`
	IsPremium   bool            `json:"isPremium"`
	Questions   json.RawMessage `json:"questions"`
}

func main() {
	dir := flag.String("dir", "./content/lessons", "Directory of lesson JSON files")
	flag.Parse()

	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	lessonRepo := repository.NewLessonRepository(db)

	count, err := seedLessons(lessonRepo, *dir)
	if err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
	log.Printf("Seeded %d lessons from %s", count, *dir)
}

func seedLessons(repo *repository.LessonRepository, dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("failed to list lesson files: %w", err)
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("no lesson files found in %s", dir)
	}
	sort.Strings(paths)

	count := 0
	for _, path := range paths {
		lesson, contentJSON, err := loadLessonFile(path)
		if err != nil {
			return count, fmt.Errorf("failed to load %s: %w", path, err)
		}
		if err := repo.UpsertLesson(lesson, contentJSON); err != nil {
			return count, fmt.Errorf("failed to store %s: %w", path, err)
		}
		log.Printf("Loaded lesson %s (%s)", lesson.ID, lesson.Title)
		count++
	}
	return count, nil
}

func loadLessonFile(path string) (*models.Lesson, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var file lessonFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse lesson file: %w", err)
	}
	if file.ID == "" || file.Title == "" {
		return nil, nil, fmt.Errorf("lesson file needs an id and a title")
	}
	if len(file.Questions) == 0 {
		return nil, nil, fmt.Errorf("lesson %s has no questions", file.ID)
	}

	// Validate the question payload before it hits the store
	questions, err := models.DecodeQuestions(file.Questions)
	if err != nil {
		return nil, nil, fmt.Errorf("lesson %s has invalid questions: %w", file.ID, err)
	}

	lesson := &models.Lesson{
		ID:          file.ID,
		ModuleID:    file.ModuleID,
		Title:       file.Title,
		Description: file.Description,
		Difficulty:  file.Difficulty,
		OrderIndex:  file.OrderIndex,
		XPReward:    file.XPReward,
		CoinReward:  file.CoinReward,
		IsPremium:   file.IsPremium,
		Content:     questions,
	}
	return lesson, file.Questions, nil
}
