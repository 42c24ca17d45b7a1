package economy

import (
	"testing"
	"time"
)

func TestRegenerateHearts(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	past := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name       string
		hearts     int
		lastUpdate *time.Time
		want       int
		wantReset  bool // true when the baseline should move to now
	}{
		{
			name:       "full hearts unchanged",
			hearts:     5,
			lastUpdate: past(10 * time.Hour),
			want:       5,
		},
		{
			name:       "no last update means no backlog",
			hearts:     2,
			lastUpdate: nil,
			want:       2,
		},
		{
			name:       "under one interval adds nothing",
			hearts:     3,
			lastUpdate: past(59 * time.Minute),
			want:       3,
		},
		{
			name:       "one full interval adds one heart",
			hearts:     3,
			lastUpdate: past(time.Hour),
			want:       4,
			wantReset:  true,
		},
		{
			name:       "150 minutes at 2 hearts yields 4",
			hearts:     2,
			lastUpdate: past(150 * time.Minute),
			want:       4,
			wantReset:  true,
		},
		{
			name:       "multiple intervals accumulate",
			hearts:     0,
			lastUpdate: past(3 * time.Hour),
			want:       3,
			wantReset:  true,
		},
		{
			name:       "accrual clamps at max",
			hearts:     2,
			lastUpdate: past(48 * time.Hour),
			want:       5,
			wantReset:  true,
		},
		{
			name:       "clock skew treated as zero elapsed",
			hearts:     1,
			lastUpdate: past(-time.Hour),
			want:       1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotUpdate := RegenerateHearts(tt.hearts, tt.lastUpdate, now)
			if got != tt.want {
				t.Errorf("RegenerateHearts() hearts = %d, want %d", got, tt.want)
			}
			if got < 0 || got > MaxHearts {
				t.Errorf("RegenerateHearts() hearts = %d, outside [0, %d]", got, MaxHearts)
			}
			if tt.wantReset && !gotUpdate.Equal(now) {
				t.Errorf("RegenerateHearts() lastUpdate = %v, want baseline reset to %v", gotUpdate, now)
			}
			if !tt.wantReset && tt.lastUpdate != nil && tt.hearts < MaxHearts && !gotUpdate.Equal(*tt.lastUpdate) {
				t.Errorf("RegenerateHearts() lastUpdate = %v, want unchanged %v", gotUpdate, *tt.lastUpdate)
			}
		})
	}
}

func TestRegenerateHeartsExactIntervals(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	// For every starting count below max and k full intervals elapsed, the
	// result is min(max, hearts+k).
	for hearts := 0; hearts < MaxHearts; hearts++ {
		for k := 0; k <= 8; k++ {
			last := now.Add(-time.Duration(k) * HeartRefillInterval)
			got, _ := RegenerateHearts(hearts, &last, now)

			want := hearts + k
			if want > MaxHearts {
				want = MaxHearts
			}
			if got != want {
				t.Errorf("RegenerateHearts(%d, now-%dh) = %d, want %d", hearts, k, got, want)
			}
		}
	}
}

func TestTimeUntilNextHeart(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("full hearts has no next heart", func(t *testing.T) {
		if _, ok := TimeUntilNextHeart(MaxHearts, nil, now); ok {
			t.Error("TimeUntilNextHeart() ok = true, want false at max hearts")
		}
	})

	t.Run("missing last update is a full interval", func(t *testing.T) {
		d, ok := TimeUntilNextHeart(2, nil, now)
		if !ok || d != HeartRefillInterval {
			t.Errorf("TimeUntilNextHeart() = %v, %v; want %v, true", d, ok, HeartRefillInterval)
		}
	})

	t.Run("remainder of the current interval", func(t *testing.T) {
		last := now.Add(-150 * time.Minute)
		d, ok := TimeUntilNextHeart(2, &last, now)
		if !ok || d != 30*time.Minute {
			t.Errorf("TimeUntilNextHeart() = %v, %v; want 30m, true", d, ok)
		}
	})

	t.Run("exact boundary yields a full interval", func(t *testing.T) {
		last := now.Add(-2 * time.Hour)
		d, ok := TimeUntilNextHeart(1, &last, now)
		if !ok || d != HeartRefillInterval {
			t.Errorf("TimeUntilNextHeart() = %v, %v; want %v, true", d, ok, HeartRefillInterval)
		}
	})
}
