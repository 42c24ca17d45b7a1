package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"tradeup/internal/economy"
	"tradeup/internal/models"
	"tradeup/internal/repository"
)

var (
	ErrNoHearts          = errors.New("no hearts remaining")
	ErrHeartsFull        = errors.New("hearts already full")
	ErrInsufficientCoins = errors.New("not enough coins")
)

// saveRetries bounds the optimistic concurrency retry loop. Conflicts are
// already rare because writes for one user are serialized in-process; the
// retries cover multi-replica deployments sharing one database.
const saveRetries = 3

// ProgressService owns all reads and writes of user progress. Every
// mutation runs under a per-user lock and an optimistic version check, so
// two concurrent reward writes can never lose an update.
type ProgressService struct {
	repo repository.ProgressRepository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewProgressService creates a progress service on top of a repository
func NewProgressService(repo repository.ProgressRepository) *ProgressService {
	return &ProgressService{
		repo:  repo,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *ProgressService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// loadOrCreate fetches the progress row, creating the default row on first
// access. Heart regeneration is applied before the row is returned.
func (s *ProgressService) loadOrCreate(userID string, now time.Time) (*models.UserProgress, error) {
	progress, err := s.repo.Get(userID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = models.DefaultProgress(userID)
		if err := s.repo.Create(progress); err != nil {
			return nil, err
		}
	}

	hearts, baseline := economy.RegenerateHearts(progress.Hearts, progress.LastHeartUpdate, now)
	if hearts != progress.Hearts {
		progress.Hearts = hearts
		progress.LastHeartUpdate = &baseline
	}
	return progress, nil
}

// mutate runs fn against the current progress row and saves the result.
// The per-user lock serializes writers in this process; the version check
// catches writers on other replicas, in which case the row is reloaded and
// fn re-applied.
func (s *ProgressService) mutate(userID string, now time.Time, fn func(p *models.UserProgress) error) (*models.UserProgress, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	for attempt := 0; attempt < saveRetries; attempt++ {
		progress, err := s.loadOrCreate(userID, now)
		if err != nil {
			return nil, err
		}

		if err := fn(progress); err != nil {
			return nil, err
		}

		err = s.repo.Save(progress)
		if err == nil {
			return progress, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("progress update for %s kept conflicting", userID)
}

// GetProgress returns the user's progress with hearts regenerated. Accrued
// hearts are persisted so the regeneration baseline advances.
func (s *ProgressService) GetProgress(userID string, now time.Time) (*models.UserProgress, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	progress, err := s.repo.Get(userID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = models.DefaultProgress(userID)
		if err := s.repo.Create(progress); err != nil {
			return nil, err
		}
		return progress, nil
	}

	hearts, baseline := economy.RegenerateHearts(progress.Hearts, progress.LastHeartUpdate, now)
	if hearts == progress.Hearts {
		return progress, nil
	}

	progress.Hearts = hearts
	progress.LastHeartUpdate = &baseline
	if err := s.repo.Save(progress); err != nil {
		// A conflict here just means another writer already persisted the
		// regeneration; the values we computed are still current.
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
	}
	return progress, nil
}

// TimeUntilNextHeart reports how long until the user's next heart accrues
func (s *ProgressService) TimeUntilNextHeart(userID string, now time.Time) (time.Duration, bool, error) {
	progress, err := s.GetProgress(userID, now)
	if err != nil {
		return 0, false, err
	}
	d, ok := economy.TimeUntilNextHeart(progress.Hearts, progress.LastHeartUpdate, now)
	return d, ok, nil
}

// AddXP grants experience, rolling the level up as thresholds are crossed.
// Earning XP counts as daily activity for streak purposes.
func (s *ProgressService) AddXP(userID string, delta int, now time.Time) (*models.UserProgress, error) {
	return s.mutate(userID, now, func(p *models.UserProgress) error {
		p.XP, p.Level, p.XPToNextLevel = economy.ApplyXP(p.XP, p.Level, p.XPToNextLevel, delta)
		touchActivity(p, now)
		return nil
	})
}

// AddCoins credits the coin balance
func (s *ProgressService) AddCoins(userID string, delta int, now time.Time) (*models.UserProgress, error) {
	if delta < 0 {
		return nil, fmt.Errorf("coin credit must be positive, got %d", delta)
	}
	return s.mutate(userID, now, func(p *models.UserProgress) error {
		p.Coins += delta
		return nil
	})
}

// SpendCoins debits the coin balance, failing if the user cannot afford it
func (s *ProgressService) SpendCoins(userID string, cost int, now time.Time) (*models.UserProgress, error) {
	if cost < 0 {
		return nil, fmt.Errorf("coin cost must be positive, got %d", cost)
	}
	return s.mutate(userID, now, func(p *models.UserProgress) error {
		if p.Coins < cost {
			return ErrInsufficientCoins
		}
		p.Coins -= cost
		return nil
	})
}

// LoseHeart removes one heart. Dropping below full starts the
// regeneration timer. At zero hearts the state is left untouched and
// ErrNoHearts is returned; callers that want a silent floor ignore it.
func (s *ProgressService) LoseHeart(userID string, now time.Time) (*models.UserProgress, error) {
	return s.mutate(userID, now, func(p *models.UserProgress) error {
		if p.Hearts <= 0 {
			return ErrNoHearts
		}
		if p.Hearts == economy.MaxHearts {
			p.LastHeartUpdate = &now
		}
		p.Hearts--
		return nil
	})
}

// BuyHeartsRefill spends coins to restore hearts to full
func (s *ProgressService) BuyHeartsRefill(userID string, now time.Time) (*models.UserProgress, error) {
	return s.mutate(userID, now, func(p *models.UserProgress) error {
		if p.Hearts >= economy.MaxHearts {
			return ErrHeartsFull
		}
		if p.Coins < economy.HeartsRefillCost {
			return ErrInsufficientCoins
		}
		p.Coins -= economy.HeartsRefillCost
		p.Hearts = economy.MaxHearts
		p.LastHeartUpdate = nil
		return nil
	})
}

// CompleteLesson records a finished lesson in the counters and advances
// the daily goal and streak. Daily progress never exceeds the goal, so
// finishing extra lessons past the goal only grows the lifetime counter.
func (s *ProgressService) CompleteLesson(userID string, now time.Time) (*models.UserProgress, error) {
	return s.mutate(userID, now, func(p *models.UserProgress) error {
		touchActivity(p, now)
		p.LessonsCompleted++
		if p.DailyProgress < p.DailyGoal {
			p.DailyProgress++
		}
		return nil
	})
}

// SetDailyGoal changes the lessons-per-day target
func (s *ProgressService) SetDailyGoal(userID string, goal int, now time.Time) (*models.UserProgress, error) {
	if goal < 1 {
		return nil, fmt.Errorf("daily goal must be at least 1, got %d", goal)
	}
	return s.mutate(userID, now, func(p *models.UserProgress) error {
		p.DailyGoal = goal
		return nil
	})
}

// SetPremium flips the premium entitlement flag
func (s *ProgressService) SetPremium(userID string, premium bool, now time.Time) (*models.UserProgress, error) {
	return s.mutate(userID, now, func(p *models.UserProgress) error {
		p.IsPremium = premium
		return nil
	})
}

// touchActivity maintains the daily streak. Activity on consecutive
// calendar days extends the streak, a second activity on the same day
// leaves it unchanged, and a gap restarts it at 1. Crossing into a new
// day also resets the daily goal counter.
func touchActivity(p *models.UserProgress, now time.Time) {
	if p.LastActivityDate == nil {
		p.Streak = 1
		p.LastActivityDate = &now
		return
	}

	switch daysBetween(*p.LastActivityDate, now) {
	case 0:
		// Same day, streak unchanged
	case 1:
		p.Streak++
		p.DailyProgress = 0
	default:
		p.Streak = 1
		p.DailyProgress = 0
	}
	p.LastActivityDate = &now
}

// daysBetween counts UTC calendar day boundaries crossed between a and b.
// Both timestamps are mapped onto the UTC calendar first, so the streak
// day rollover is the same no matter what zone the server clock or the
// stored timestamp carries.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start) / (24 * time.Hour))
}
