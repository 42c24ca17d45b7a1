package credentials

import (
	"testing"

	"tradeup/internal/validation"
)

func TestGenerateDisplayName(t *testing.T) {
	seen := make(map[string]bool)
	duplicates := 0

	for i := 0; i < 200; i++ {
		name, err := GenerateDisplayName()
		if err != nil {
			t.Fatalf("GenerateDisplayName() error = %v", err)
		}
		if name == "" {
			t.Fatal("GenerateDisplayName() returned empty string")
		}
		if err := validation.ValidateName(name); err != nil {
			t.Errorf("generated name %q fails validation: %v", name, err)
		}
		if seen[name] {
			duplicates++
		}
		seen[name] = true
	}

	// 32 adjectives x 32 nouns x 100 suffixes gives plenty of headroom;
	// heavy duplication would mean the randomness is broken
	if duplicates > 20 {
		t.Errorf("got %d duplicate names out of 200", duplicates)
	}
}
