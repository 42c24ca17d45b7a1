package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"tradeup/internal/economy"
	"tradeup/internal/models"
	"tradeup/internal/repository"
)

// fakeProgressStore is an in-memory ProgressRepository with the same
// optimistic versioning behavior as the real adapters
type fakeProgressStore struct {
	mu   sync.Mutex
	rows map[string]*models.UserProgress

	// conflictsToInject makes the next N Save calls fail with
	// ErrVersionConflict before applying
	conflictsToInject int
	saves             int
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{rows: make(map[string]*models.UserProgress)}
}

func (f *fakeProgressStore) Get(userID string) (*models.UserProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[userID]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (f *fakeProgressStore) Create(progress *models.UserProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	progress.Version = 1
	copied := *progress
	f.rows[progress.UserID] = &copied
	return nil
}

func (f *fakeProgressStore) Save(progress *models.UserProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++

	if f.conflictsToInject > 0 {
		f.conflictsToInject--
		// Simulate another replica's write by bumping the stored version
		f.rows[progress.UserID].Version++
		return repository.ErrVersionConflict
	}

	stored, ok := f.rows[progress.UserID]
	if !ok || stored.Version != progress.Version {
		return repository.ErrVersionConflict
	}
	progress.Version++
	copied := *progress
	f.rows[progress.UserID] = &copied
	return nil
}

func (f *fakeProgressStore) Delete(userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, userID)
	return nil
}

func TestGetProgressCreatesDefaults(t *testing.T) {
	svc := NewProgressService(newFakeProgressStore())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p, err := svc.GetProgress("u1", now)
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if p.Hearts != 5 || p.Level != 1 || p.XP != 0 || p.XPToNextLevel != 2000 {
		t.Errorf("defaults = hearts %d level %d xp %d threshold %d",
			p.Hearts, p.Level, p.XP, p.XPToNextLevel)
	}
	if p.Coins != 0 || p.DailyGoal != 3 {
		t.Errorf("defaults = coins %d dailyGoal %d, want 0/3", p.Coins, p.DailyGoal)
	}
}

func TestAddXPLevelsUp(t *testing.T) {
	svc := NewProgressService(newFakeProgressStore())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p, err := svc.AddXP("u1", 2500, now)
	if err != nil {
		t.Fatalf("AddXP() error = %v", err)
	}
	if p.Level != 2 {
		t.Errorf("Level = %d, want 2", p.Level)
	}
	if p.XP != 500 {
		t.Errorf("XP = %d, want 500", p.XP)
	}
	if p.XPToNextLevel != 2400 {
		t.Errorf("XPToNextLevel = %d, want 2400", p.XPToNextLevel)
	}
	if p.Streak != 1 {
		t.Errorf("Streak = %d, want 1 after first activity", p.Streak)
	}
}

func TestSpendCoins(t *testing.T) {
	svc := NewProgressService(newFakeProgressStore())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if _, err := svc.AddCoins("u1", 100, now); err != nil {
		t.Fatalf("AddCoins() error = %v", err)
	}

	p, err := svc.SpendCoins("u1", 60, now)
	if err != nil {
		t.Fatalf("SpendCoins() error = %v", err)
	}
	if p.Coins != 40 {
		t.Errorf("Coins = %d, want 40", p.Coins)
	}

	_, err = svc.SpendCoins("u1", 60, now)
	if !errors.Is(err, ErrInsufficientCoins) {
		t.Errorf("SpendCoins() error = %v, want ErrInsufficientCoins", err)
	}
}

func TestLoseHeartStartsRegenTimer(t *testing.T) {
	svc := NewProgressService(newFakeProgressStore())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p, err := svc.LoseHeart("u1", now)
	if err != nil {
		t.Fatalf("LoseHeart() error = %v", err)
	}
	if p.Hearts != 4 {
		t.Errorf("Hearts = %d, want 4", p.Hearts)
	}
	if p.LastHeartUpdate == nil || !p.LastHeartUpdate.Equal(now) {
		t.Errorf("LastHeartUpdate = %v, want %v", p.LastHeartUpdate, now)
	}

	// One hour later the heart is back
	p, err = svc.GetProgress("u1", now.Add(economy.HeartRefillInterval))
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if p.Hearts != 5 {
		t.Errorf("Hearts after refill interval = %d, want 5", p.Hearts)
	}
}

func TestLoseHeartAtZero(t *testing.T) {
	svc := NewProgressService(newFakeProgressStore())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if _, err := svc.LoseHeart("u1", now); err != nil {
			t.Fatalf("LoseHeart() #%d error = %v", i+1, err)
		}
	}

	_, err := svc.LoseHeart("u1", now)
	if !errors.Is(err, ErrNoHearts) {
		t.Errorf("LoseHeart() at zero error = %v, want ErrNoHearts", err)
	}
}

func TestBuyHeartsRefill(t *testing.T) {
	svc := NewProgressService(newFakeProgressStore())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Full hearts cannot be refilled
	if _, err := svc.BuyHeartsRefill("u1", now); !errors.Is(err, ErrHeartsFull) {
		t.Errorf("BuyHeartsRefill() at full error = %v, want ErrHeartsFull", err)
	}

	if _, err := svc.LoseHeart("u1", now); err != nil {
		t.Fatalf("LoseHeart() error = %v", err)
	}

	// Broke users cannot refill
	if _, err := svc.BuyHeartsRefill("u1", now); !errors.Is(err, ErrInsufficientCoins) {
		t.Errorf("BuyHeartsRefill() broke error = %v, want ErrInsufficientCoins", err)
	}

	if _, err := svc.AddCoins("u1", economy.HeartsRefillCost+10, now); err != nil {
		t.Fatalf("AddCoins() error = %v", err)
	}

	p, err := svc.BuyHeartsRefill("u1", now)
	if err != nil {
		t.Fatalf("BuyHeartsRefill() error = %v", err)
	}
	if p.Hearts != economy.MaxHearts {
		t.Errorf("Hearts = %d, want %d", p.Hearts, economy.MaxHearts)
	}
	if p.Coins != 10 {
		t.Errorf("Coins = %d, want 10", p.Coins)
	}
}

func TestDailyStreak(t *testing.T) {
	svc := NewProgressService(newFakeProgressStore())
	day1 := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
	day5 := time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)

	p, _ := svc.CompleteLesson("u1", day1)
	if p.Streak != 1 || p.DailyProgress != 1 {
		t.Errorf("day1 = streak %d daily %d, want 1/1", p.Streak, p.DailyProgress)
	}

	// Second lesson the same evening
	p, _ = svc.CompleteLesson("u1", day1.Add(time.Hour))
	if p.Streak != 1 || p.DailyProgress != 2 {
		t.Errorf("day1 again = streak %d daily %d, want 1/2", p.Streak, p.DailyProgress)
	}

	// Next morning extends the streak and resets the daily counter
	p, _ = svc.CompleteLesson("u1", day2)
	if p.Streak != 2 || p.DailyProgress != 1 {
		t.Errorf("day2 = streak %d daily %d, want 2/1", p.Streak, p.DailyProgress)
	}

	// A gap restarts the streak
	p, _ = svc.CompleteLesson("u1", day5)
	if p.Streak != 1 || p.DailyProgress != 1 {
		t.Errorf("day5 = streak %d daily %d, want 1/1", p.Streak, p.DailyProgress)
	}
	if p.LessonsCompleted != 4 {
		t.Errorf("LessonsCompleted = %d, want 4", p.LessonsCompleted)
	}
}

func TestDailyProgressClampsAtGoal(t *testing.T) {
	svc := NewProgressService(newFakeProgressStore())
	day := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	// Five lessons against the default goal of three
	var p *models.UserProgress
	for i := 0; i < 5; i++ {
		var err error
		p, err = svc.CompleteLesson("u1", day.Add(time.Duration(i)*time.Hour))
		if err != nil {
			t.Fatalf("CompleteLesson() #%d error = %v", i+1, err)
		}
		if p.DailyProgress > p.DailyGoal {
			t.Fatalf("DailyProgress = %d exceeds DailyGoal = %d", p.DailyProgress, p.DailyGoal)
		}
	}
	if p.DailyProgress != p.DailyGoal {
		t.Errorf("DailyProgress = %d, want clamped at goal %d", p.DailyProgress, p.DailyGoal)
	}
	if p.LessonsCompleted != 5 {
		t.Errorf("LessonsCompleted = %d, want 5 (lifetime counter keeps growing)", p.LessonsCompleted)
	}

	// The next day starts a fresh counter
	p, err := svc.CompleteLesson("u1", day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("CompleteLesson() error = %v", err)
	}
	if p.DailyProgress != 1 {
		t.Errorf("DailyProgress = %d, want 1 after day rollover", p.DailyProgress)
	}
}

func TestStreakUsesUTCCalendar(t *testing.T) {
	svc := NewProgressService(newFakeProgressStore())

	// Both activities fall on June 1 in UTC; the second is expressed in a
	// +10 zone where its wall clock already reads June 2.
	first := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	second := time.Date(2025, 6, 2, 4, 0, 0, 0, time.FixedZone("UTC+10", 10*3600))

	p, err := svc.CompleteLesson("u1", first)
	if err != nil {
		t.Fatalf("CompleteLesson() error = %v", err)
	}
	if p.Streak != 1 || p.DailyProgress != 1 {
		t.Fatalf("first = streak %d daily %d, want 1/1", p.Streak, p.DailyProgress)
	}

	p, err = svc.CompleteLesson("u1", second)
	if err != nil {
		t.Fatalf("CompleteLesson() error = %v", err)
	}
	if p.Streak != 1 {
		t.Errorf("Streak = %d, want 1 (same UTC day regardless of zone)", p.Streak)
	}
	if p.DailyProgress != 2 {
		t.Errorf("DailyProgress = %d, want 2 (same-day counter not reset)", p.DailyProgress)
	}
}

func TestMutateRetriesOnVersionConflict(t *testing.T) {
	store := newFakeProgressStore()
	svc := NewProgressService(store)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Seed the row
	if _, err := svc.GetProgress("u1", now); err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}

	store.conflictsToInject = 2
	p, err := svc.AddCoins("u1", 25, now)
	if err != nil {
		t.Fatalf("AddCoins() error = %v", err)
	}
	if p.Coins != 25 {
		t.Errorf("Coins = %d, want 25 (exactly one credit applied)", p.Coins)
	}
}

func TestConcurrentRewardsDoNotLoseUpdates(t *testing.T) {
	svc := NewProgressService(newFakeProgressStore())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	const writers = 20
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.AddCoins("u1", 5, now); err != nil {
				t.Errorf("AddCoins() error = %v", err)
			}
		}()
	}
	wg.Wait()

	p, err := svc.GetProgress("u1", now)
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if p.Coins != writers*5 {
		t.Errorf("Coins = %d, want %d", p.Coins, writers*5)
	}
}

func TestSetPremiumAndDailyGoal(t *testing.T) {
	svc := NewProgressService(newFakeProgressStore())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p, err := svc.SetPremium("u1", true, now)
	if err != nil {
		t.Fatalf("SetPremium() error = %v", err)
	}
	if !p.IsPremium {
		t.Error("IsPremium = false, want true")
	}

	p, err = svc.SetDailyGoal("u1", 5, now)
	if err != nil {
		t.Fatalf("SetDailyGoal() error = %v", err)
	}
	if p.DailyGoal != 5 {
		t.Errorf("DailyGoal = %d, want 5", p.DailyGoal)
	}

	if _, err := svc.SetDailyGoal("u1", 0, now); err == nil {
		t.Error("SetDailyGoal(0) succeeded, want error")
	}
}
