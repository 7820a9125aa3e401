package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	internalstrings "github.com/amonks/taskpad/internal/strings"
	"github.com/amonks/taskpad/task"
)

// Field aliases accepted in legacy arrays, in priority order.
var (
	legacyNameKeys     = []string{"name", "text", "title"}
	legacyDeadlineKeys = []string{"deadline", "date", "dueDate"}
	legacyNoteKeys     = []string{"note", "notes", "description"}
)

// decodeLegacy migrates a bare array of task objects. Entries without a
// usable name are dropped. Numeric ids are kept as their decimal string and,
// being millisecond timestamps, also supply the creation time.
func decodeLegacy(data []byte) ([]task.Task, error) {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %w", task.ErrCorruptState, err)
	}

	tasks := make([]task.Task, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, entry := range entries {
		if entry == nil {
			continue
		}
		name := strings.TrimSpace(firstString(entry, legacyNameKeys))
		if name == "" {
			continue
		}

		t := task.Task{
			Name: name,
			Note: firstString(entry, legacyNoteKeys),
		}

		id, created := legacyID(entry["id"])
		if id == "" || seen[id] {
			id = task.GenerateID(name, time.Unix(0, int64(i)), tasks)
		}
		t.ID = id
		seen[id] = true
		t.CreatedAt = created
		t.UpdatedAt = created

		if raw := firstString(entry, legacyDeadlineKeys); raw != "" {
			if deadline, err := time.Parse(time.RFC3339, raw); err == nil {
				t.Deadline = &deadline
			}
		}
		if raw, ok := entry["notified"]; ok {
			var notified bool
			if json.Unmarshal(raw, &notified) == nil {
				t.Notified = notified
			}
		}

		tasks = append(tasks, t)
	}
	return tasks, nil
}

func firstString(entry map[string]json.RawMessage, keys []string) string {
	for _, key := range keys {
		raw, ok := entry[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		if !internalstrings.IsBlank(s) {
			return s
		}
	}
	return ""
}

func legacyID(raw json.RawMessage) (string, time.Time) {
	if len(raw) == 0 {
		return "", time.Time{}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), time.Time{}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return "", time.Time{}
	}
	ms, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return n.String(), time.Time{}
	}
	id := strconv.FormatInt(ms, 10)
	if ms <= 0 {
		return id, time.Time{}
	}
	return id, time.UnixMilli(ms).UTC()
}
