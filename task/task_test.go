package task

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTask_Remaining(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	if _, ok := (Task{}).Remaining(now); ok {
		t.Fatal("task without deadline should report no remaining time")
	}

	task := Task{Deadline: TimePtr(now.Add(90 * time.Second))}
	remaining, ok := task.Remaining(now)
	if !ok || remaining != 90*time.Second {
		t.Fatalf("expected 90s remaining, got %v (ok=%v)", remaining, ok)
	}
}

func TestTask_Overdue(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline *time.Time
		want     bool
	}{
		{name: "no deadline", deadline: nil, want: false},
		{name: "future", deadline: TimePtr(now.Add(time.Second)), want: false},
		{name: "exactly now", deadline: TimePtr(now), want: true},
		{name: "past", deadline: TimePtr(now.Add(-time.Minute)), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Task{Deadline: tt.deadline}).Overdue(now); got != tt.want {
				t.Fatalf("Overdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateTasks(t *testing.T) {
	if err := ValidateTasks([]Task{{ID: "a", Name: "x"}, {ID: "b", Name: "y"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateTasks([]Task{{ID: "", Name: "x"}}); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	if err := ValidateTasks([]Task{{ID: "a", Name: " "}}); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := ValidateTasks([]Task{{ID: "a", Name: "x"}, {ID: "a", Name: "y"}}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if err := ValidateTasks([]Task{{ID: "a", Name: strings.Repeat("x", MaxNameLength+100)}}); err != nil {
		t.Fatalf("stored names over the input limit should be valid: %v", err)
	}
	if err := ValidateName(strings.Repeat("x", MaxNameLength)); err != nil {
		t.Fatalf("name at max length should be valid: %v", err)
	}
}

func TestGenerateID_AvoidsExisting(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	first := GenerateID("same", now, nil)
	second := GenerateID("same", now, []Task{{ID: first}})
	if first == second {
		t.Fatalf("expected a different ID, got %q twice", first)
	}
	if len(second) != 8 {
		t.Fatalf("expected 8-character ID, got %q", second)
	}
}

func TestPrefixLengths(t *testing.T) {
	lengths := PrefixLengths([]Task{{ID: "abc12345"}, {ID: "abd12345"}, {ID: "zzz00000"}})
	if lengths["abc12345"] != 3 || lengths["abd12345"] != 3 || lengths["zzz00000"] != 1 {
		t.Fatalf("unexpected prefix lengths: %v", lengths)
	}
}
