package task

import (
	"errors"
	"testing"
	"time"
)

func TestStore_Add(t *testing.T) {
	clock := newTestClock()
	p := &memPersister{}
	store := openTestStore(t, p, clock)

	deadline := clock.now.Add(2 * time.Hour)
	added, err := store.Add("  Buy milk  ", AddOptions{Deadline: &deadline, Note: "two litres\r\n"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if len(added.ID) != 8 {
		t.Fatalf("expected 8-character ID, got %q", added.ID)
	}
	if added.Name != "Buy milk" {
		t.Fatalf("expected trimmed name, got %q", added.Name)
	}
	if added.Note != "two litres" {
		t.Fatalf("expected normalized note, got %q", added.Note)
	}
	if added.Deadline == nil || !added.Deadline.Equal(deadline) {
		t.Fatalf("expected deadline %v, got %v", deadline, added.Deadline)
	}
	if added.Notified {
		t.Fatal("new task should not be notified")
	}
	if !added.CreatedAt.Equal(clock.now) || !added.UpdatedAt.Equal(clock.now) {
		t.Fatalf("unexpected timestamps: %v %v", added.CreatedAt, added.UpdatedAt)
	}

	if p.saves != 1 || len(p.tasks) != 1 || p.tasks[0].ID != added.ID {
		t.Fatalf("expected task to be persisted, got %+v", p.tasks)
	}
}

func TestStore_Add_Validation(t *testing.T) {
	store := openTestStore(t, &memPersister{}, newTestClock())

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty", input: "", want: ErrEmptyName},
		{name: "blank", input: "   \t", want: ErrEmptyName},
		{name: "too long", input: string(make([]byte, MaxNameLength+1)), want: ErrNameTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Add(tt.input, AddOptions{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected error to wrap ErrInvalid, got %v", err)
			}
		})
	}

	tasks, err := store.List(ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks after failed adds, got %d", len(tasks))
	}
}

func TestStore_Add_SameNameSameInstantGetsDistinctIDs(t *testing.T) {
	store := openTestStore(t, &memPersister{}, newTestClock())

	a, err := store.Add("dup", AddOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	b, err := store.Add("dup", AddOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct IDs, both %q", a.ID)
	}
}

func TestStore_Add_ReturnsCopy(t *testing.T) {
	clock := newTestClock()
	store := openTestStore(t, &memPersister{}, clock)

	deadline := clock.now.Add(time.Hour)
	added, err := store.Add("copy", AddOptions{Deadline: &deadline})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	added.Name = "mutated"
	*added.Deadline = deadline.Add(time.Hour)

	found, err := store.Find(added.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Name != "copy" || !found.Deadline.Equal(deadline) {
		t.Fatalf("store state changed through returned task: %+v", found)
	}
}

func TestStore_Update(t *testing.T) {
	clock := newTestClock()
	store := openTestStore(t, &memPersister{}, clock)

	deadline := clock.now.Add(time.Hour)
	added, err := store.Add("draft", AddOptions{Deadline: &deadline, Note: "keep"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := store.MarkNotified([]string{added.ID}); err != nil {
		t.Fatalf("mark notified: %v", err)
	}

	clock.Advance(time.Minute)
	updated, err := store.Update(added.ID, UpdateOptions{Name: StringPtr("final")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "final" {
		t.Fatalf("expected name final, got %q", updated.Name)
	}
	if updated.Note != "keep" {
		t.Fatalf("note should be untouched, got %q", updated.Note)
	}
	if updated.Deadline == nil || !updated.Deadline.Equal(deadline) {
		t.Fatalf("deadline should be untouched, got %v", updated.Deadline)
	}
	if updated.Notified {
		t.Fatal("update should reset notified")
	}
	if !updated.UpdatedAt.Equal(clock.now) {
		t.Fatalf("expected UpdatedAt %v, got %v", clock.now, updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(added.CreatedAt) {
		t.Fatal("CreatedAt should not change")
	}
}

func TestStore_Update_Deadline(t *testing.T) {
	clock := newTestClock()
	store := openTestStore(t, &memPersister{}, clock)

	added, err := store.Add("deadline", AddOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	deadline := clock.now.Add(3 * time.Hour)
	updated, err := store.Update(added.ID, UpdateOptions{Deadline: &deadline})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Deadline == nil || !updated.Deadline.Equal(deadline) {
		t.Fatalf("expected deadline %v, got %v", deadline, updated.Deadline)
	}

	cleared, err := store.Update(added.ID, UpdateOptions{ClearDeadline: true})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if cleared.Deadline != nil {
		t.Fatalf("expected deadline cleared, got %v", cleared.Deadline)
	}

	_, err = store.Update(added.ID, UpdateOptions{Deadline: &deadline, ClearDeadline: true})
	if !errors.Is(err, ErrConflictingDeadline) {
		t.Fatalf("expected ErrConflictingDeadline, got %v", err)
	}
}

func TestStore_Update_EmptyName(t *testing.T) {
	store := openTestStore(t, &memPersister{}, newTestClock())

	added, err := store.Add("named", AddOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err = store.Update(added.ID, UpdateOptions{Name: StringPtr(" ")})
	if !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}

	found, err := store.Find(added.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Name != "named" {
		t.Fatalf("name changed after failed update: %q", found.Name)
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	store := openTestStore(t, &memPersister{}, newTestClock())

	_, err := store.Update("zzzzzzzz", UpdateOptions{Name: StringPtr("x")})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestStore_Remove(t *testing.T) {
	p := &memPersister{tasks: []Task{
		{ID: "aaaaaaaa", Name: "one"},
		{ID: "bbbbbbbb", Name: "two"},
		{ID: "cccccccc", Name: "three"},
	}}
	store := openTestStore(t, p, newTestClock())

	if _, err := store.Remove("bb"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected a prefix to be rejected with ErrTaskNotFound, got %v", err)
	}

	removed, err := store.Remove("bbbbbbbb")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.ID != "bbbbbbbb" {
		t.Fatalf("removed wrong task: %+v", removed)
	}

	tasks, err := store.List(ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "aaaaaaaa" || tasks[1].ID != "cccccccc" {
		t.Fatalf("unexpected tasks after remove: %+v", tasks)
	}
	if len(p.tasks) != 2 {
		t.Fatalf("expected removal to be persisted, got %+v", p.tasks)
	}

	if _, err := store.Remove("bbbbbbbb"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestStore_Remove_TwiceDoesNotHitPrefixMatch(t *testing.T) {
	p := &memPersister{tasks: []Task{
		{ID: "1", Name: "one"},
		{ID: "12", Name: "twelve"},
	}}
	store := openTestStore(t, p, newTestClock())

	removed, err := store.Remove("1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.ID != "1" {
		t.Fatalf("removed wrong task: %+v", removed)
	}

	if _, err := store.Remove("1"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound on second remove, got %v", err)
	}
	if _, err := store.Update("1", UpdateOptions{Name: StringPtr("x")}); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound on update of removed id, got %v", err)
	}

	tasks, err := store.List(ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "12" || tasks[0].Name != "twelve" {
		t.Fatalf("expected task 12 to survive untouched, got %+v", tasks)
	}
}

func TestStore_Add_DoesNotReuseRemovedID(t *testing.T) {
	clock := newTestClock()
	store := openTestStore(t, &memPersister{}, clock)

	first, err := store.Add("same", AddOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := store.Remove(first.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	second, err := store.Add("same", AddOptions{})
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("expected a fresh ID after remove, got %q twice", first.ID)
	}
}

func TestStore_Add_DoesNotReuseLoadedIDs(t *testing.T) {
	clock := newTestClock()
	scratch := openTestStore(t, &memPersister{}, clock)
	earlier, err := scratch.Add("same", AddOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	p := &memPersister{tasks: []Task{{ID: earlier.ID, Name: "same"}}}
	store := openTestStore(t, p, clock)
	added, err := store.Add("same", AddOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID == earlier.ID {
		t.Fatalf("expected ID distinct from loaded task, got %q", added.ID)
	}
}

func TestStore_Find_Prefix(t *testing.T) {
	p := &memPersister{tasks: []Task{
		{ID: "abc12345", Name: "one"},
		{ID: "abd12345", Name: "two"},
	}}
	store := openTestStore(t, p, newTestClock())

	found, err := store.Find("ABC")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != "abc12345" {
		t.Fatalf("expected abc12345, got %s", found.ID)
	}

	if _, err := store.Find("ab"); !errors.Is(err, ErrAmbiguousTaskIDPrefix) {
		t.Fatalf("expected ErrAmbiguousTaskIDPrefix, got %v", err)
	}
	if _, err := store.Find("zz"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestStore_MarkNotified(t *testing.T) {
	p := &memPersister{tasks: []Task{
		{ID: "aaaaaaaa", Name: "one"},
		{ID: "bbbbbbbb", Name: "two", Notified: true},
	}}
	store := openTestStore(t, p, newTestClock())

	changed, err := store.MarkNotified([]string{"aaaaaaaa", "bbbbbbbb", "gone0000"})
	if err != nil {
		t.Fatalf("mark notified: %v", err)
	}
	if len(changed) != 1 || changed[0].ID != "aaaaaaaa" || !changed[0].Notified {
		t.Fatalf("expected only aaaaaaaa to change, got %+v", changed)
	}
	if p.saves != 1 {
		t.Fatalf("expected one save, got %d", p.saves)
	}

	changed, err = store.MarkNotified([]string{"aaaaaaaa"})
	if err != nil {
		t.Fatalf("mark notified again: %v", err)
	}
	if len(changed) != 0 {
		t.Fatalf("expected no changes, got %+v", changed)
	}
	if p.saves != 1 {
		t.Fatalf("expected no additional save, got %d", p.saves)
	}
}

func TestStore_MarkNotified_RequiresExactIDs(t *testing.T) {
	p := &memPersister{tasks: []Task{{ID: "aaaaaaaa", Name: "one"}}}
	store := openTestStore(t, p, newTestClock())

	changed, err := store.MarkNotified([]string{"aaaa"})
	if err != nil {
		t.Fatalf("mark notified: %v", err)
	}
	if len(changed) != 0 {
		t.Fatalf("prefix should not match, got %+v", changed)
	}
}

func TestStore_List_Filters(t *testing.T) {
	clock := newTestClock()
	now := clock.now
	p := &memPersister{tasks: []Task{
		{ID: "past0000", Name: "File taxes", Deadline: TimePtr(now.Add(-time.Hour))},
		{ID: "soon0000", Name: "Call mom", Deadline: TimePtr(now.Add(time.Hour)), Note: "about the TRIP"},
		{ID: "late0000", Name: "Renew passport", Deadline: TimePtr(now.Add(48 * time.Hour))},
		{ID: "none0000", Name: "Someday trip"},
	}}
	store := openTestStore(t, p, clock)

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{name: "all", filter: ListFilter{}, want: []string{"past0000", "soon0000", "late0000", "none0000"}},
		{name: "overdue", filter: ListFilter{Overdue: true}, want: []string{"past0000"}},
		{name: "pending", filter: ListFilter{Pending: true}, want: []string{"soon0000", "late0000"}},
		{name: "range", filter: ListFilter{From: now.Add(-2 * time.Hour), To: now.Add(2 * time.Hour)}, want: []string{"past0000", "soon0000"}},
		{name: "range end exclusive", filter: ListFilter{From: now, To: now.Add(time.Hour)}, want: nil},
		{name: "query matches name and note", filter: ListFilter{Query: "trip"}, want: []string{"soon0000", "none0000"}},
		{name: "now override", filter: ListFilter{Overdue: true, Now: now.Add(2 * time.Hour)}, want: []string{"past0000", "soon0000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := store.List(tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(tasks) != len(tt.want) {
				t.Fatalf("expected %v, got %+v", tt.want, tasks)
			}
			for i := range tasks {
				if tasks[i].ID != tt.want[i] {
					t.Fatalf("expected %v, got %+v", tt.want, tasks)
				}
			}
		})
	}

	if _, err := store.List(ListFilter{Overdue: true, Pending: true}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for exclusive filters, got %v", err)
	}
}

func TestSortByDeadline(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []Task{
		{ID: "none1"},
		{ID: "late", Deadline: TimePtr(now.Add(2 * time.Hour))},
		{ID: "none2"},
		{ID: "early", Deadline: TimePtr(now.Add(time.Hour))},
	}
	SortByDeadline(tasks)

	want := []string{"early", "late", "none1", "none2"}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, tasks[i].ID)
		}
	}
}
