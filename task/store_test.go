package task

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestOpen_RequiresPersister(t *testing.T) {
	if _, err := Open(OpenOptions{}); err == nil {
		t.Fatal("expected error without persister")
	}
}

func TestOpen_LoadsPersistedTasks(t *testing.T) {
	clock := newTestClock()
	p := &memPersister{tasks: []Task{
		{ID: "aaaaaaaa", Name: "first"},
		{ID: "bbbbbbbb", Name: "second"},
	}}
	store := openTestStore(t, p, clock)

	tasks, err := store.List(ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 || tasks[0].Name != "first" || tasks[1].Name != "second" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
}

func TestOpen_CorruptStateStartsEmpty(t *testing.T) {
	p := &memPersister{loadErr: fmt.Errorf("%w: unexpected end of JSON input", ErrCorruptState)}
	store := openTestStore(t, p, newTestClock())

	tasks, err := store.List(ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty list, got %d tasks", len(tasks))
	}
	if p.saves != 0 {
		t.Fatalf("corrupt state should not be rewritten on open, got %d saves", p.saves)
	}
}

func TestOpen_StrictLoadSurfacesCorruptState(t *testing.T) {
	p := &memPersister{loadErr: fmt.Errorf("%w: bad", ErrCorruptState)}
	_, err := Open(OpenOptions{Persister: p, StrictLoad: true, Logger: log.New(io.Discard)})
	if !errors.Is(err, ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
}

func TestOpen_RepairsPersistedTasks(t *testing.T) {
	var logs bytes.Buffer
	p := &memPersister{tasks: []Task{
		{ID: "aaaaaaaa", Name: "one"},
		{ID: "aaaaaaaa", Name: "two"},
		{ID: "", Name: "three"},
		{ID: "cccccccc", Name: "  "},
	}}
	store, err := Open(OpenOptions{Persister: p, StrictLoad: true, Logger: log.New(&logs)})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	tasks, err := store.List(ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks after dropping the blank one, got %+v", tasks)
	}
	if tasks[0].ID != "aaaaaaaa" || tasks[0].Name != "one" {
		t.Fatalf("expected first task untouched, got %+v", tasks[0])
	}
	if tasks[1].Name != "two" || tasks[1].ID == "" || tasks[1].ID == "aaaaaaaa" {
		t.Fatalf("expected duplicate to get a fresh ID, got %+v", tasks[1])
	}
	if tasks[2].Name != "three" || tasks[2].ID == "" || tasks[2].ID == tasks[1].ID {
		t.Fatalf("expected missing ID to be assigned, got %+v", tasks[2])
	}
	if err := ValidateTasks(tasks); err != nil {
		t.Fatalf("repaired tasks are invalid: %v", err)
	}
	if got := strings.Count(logs.String(), "repaired stored task"); got != 3 {
		t.Fatalf("expected 3 repair warnings, got %d:\n%s", got, logs.String())
	}
	if p.saves != 0 {
		t.Fatalf("open should not save, got %d saves", p.saves)
	}
}

func TestOpen_KeepsOverlongStoredNames(t *testing.T) {
	long := strings.Repeat("x", MaxNameLength+1)
	p := &memPersister{tasks: []Task{
		{ID: "1", Name: "keep me"},
		{ID: "2", Name: long},
	}}
	store := openTestStore(t, p, newTestClock())

	tasks, err := store.List(ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 || tasks[0].Name != "keep me" || tasks[1].Name != long {
		t.Fatalf("expected both stored tasks to load, got %d tasks", len(tasks))
	}

	if _, err := store.Update("2", UpdateOptions{Note: StringPtr("still editable")}); err != nil {
		t.Fatalf("update without renaming: %v", err)
	}
	if _, err := store.Update("2", UpdateOptions{Name: StringPtr(long)}); !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("expected new names to be length-checked, got %v", err)
	}
}

func TestOpen_OtherLoadErrorsFail(t *testing.T) {
	p := &memPersister{loadErr: errors.New("connection refused")}
	_, err := Open(OpenOptions{Persister: p, Logger: log.New(io.Discard)})
	if err == nil {
		t.Fatal("expected load error")
	}
}

func TestStore_Close(t *testing.T) {
	p := &memPersister{}
	store := openTestStore(t, p, newTestClock())

	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !p.closed {
		t.Fatal("expected persister to be closed")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, err := store.Add("late", AddOptions{}); !errors.Is(err, ErrStoreClosed) {
		t.Fatalf("expected ErrStoreClosed, got %v", err)
	}
	if _, err := store.List(ListFilter{}); !errors.Is(err, ErrStoreClosed) {
		t.Fatalf("expected ErrStoreClosed, got %v", err)
	}
}

func TestStore_FailedSaveLeavesStateUnchanged(t *testing.T) {
	p := &memPersister{}
	store := openTestStore(t, p, newTestClock())

	kept, err := store.Add("kept", AddOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	p.saveErr = errSaveFailed

	if _, err := store.Add("lost", AddOptions{}); !errors.Is(err, errSaveFailed) {
		t.Fatalf("expected save error, got %v", err)
	}
	if _, err := store.Update(kept.ID, UpdateOptions{Name: StringPtr("renamed")}); !errors.Is(err, errSaveFailed) {
		t.Fatalf("expected save error, got %v", err)
	}
	if _, err := store.Remove(kept.ID); !errors.Is(err, errSaveFailed) {
		t.Fatalf("expected save error, got %v", err)
	}

	tasks, err := store.List(ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Name != "kept" {
		t.Fatalf("expected only the original task, got %+v", tasks)
	}
}

func TestStore_ConcurrentAdds(t *testing.T) {
	p := &memPersister{}
	store := openTestStore(t, p, newTestClock())

	const n = 20
	errs := make(chan error, n)
	for i := range n {
		go func() {
			_, err := store.Add(fmt.Sprintf("task %d", i), AddOptions{})
			errs <- err
		}()
	}
	for range n {
		if err := <-errs; err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	tasks, err := store.List(ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != n {
		t.Fatalf("expected %d tasks, got %d", n, len(tasks))
	}
	if err := ValidateTasks(tasks); err != nil {
		t.Fatalf("invalid tasks after concurrent adds: %v", err)
	}
	if len(p.tasks) != n {
		t.Fatalf("expected %d persisted tasks, got %d", n, len(p.tasks))
	}
}
