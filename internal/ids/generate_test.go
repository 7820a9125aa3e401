package ids

import (
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	id := Generate("buy milk", 8)

	if len(id) != 8 {
		t.Fatalf("expected ID length 8, got %d: %q", len(id), id)
	}

	for _, c := range id {
		if !((c >= 'a' && c <= 'z') || (c >= '2' && c <= '7')) {
			t.Errorf("ID contains invalid character %q: %q", c, id)
		}
	}
}

func TestGenerate_NonPositiveLength(t *testing.T) {
	if id := Generate("buy milk", 0); id != "" {
		t.Fatalf("expected empty ID, got %q", id)
	}
}

func TestGenerateWithTimestamp(t *testing.T) {
	timestamp := time.Date(2024, 3, 2, 9, 12, 0, 0, time.UTC)

	id1 := GenerateWithTimestamp("buy milk", timestamp, 8)
	id2 := GenerateWithTimestamp("buy milk", timestamp, 8)
	if id1 != id2 {
		t.Errorf("same inputs should produce same ID: got %q and %q", id1, id2)
	}

	id3 := GenerateWithTimestamp("buy milk", timestamp.Add(time.Nanosecond), 8)
	if id1 == id3 {
		t.Error("different timestamps should produce different IDs")
	}
}

func TestGenerateUnique_SkipsTakenIDs(t *testing.T) {
	timestamp := time.Date(2024, 3, 2, 9, 12, 0, 0, time.UTC)
	first := GenerateWithTimestamp("buy milk", timestamp, 8)

	id := GenerateUnique("buy milk", timestamp, 8, func(candidate string) bool {
		return candidate == first
	})
	if id == first {
		t.Fatalf("expected a fresh ID, got the taken one %q", id)
	}
	if id != GenerateWithTimestamp("buy milk", timestamp.Add(time.Nanosecond), 8) {
		t.Fatalf("expected the next timestamp's ID, got %q", id)
	}
}
