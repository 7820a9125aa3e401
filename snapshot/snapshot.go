// Package snapshot persists the task list as a single JSON blob.
//
// The blob is a versioned envelope:
//
//	{"version": 1, "tasks": [...]}
//
// Older installs wrote a bare JSON array of {id, text, date} objects. Those
// are migrated on load and rewritten in the envelope on the next save.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/amonks/taskpad/internal/blob"
	"github.com/amonks/taskpad/task"
)

// Version is the envelope version written by Save.
const Version = 1

type envelope struct {
	Version int         `json:"version"`
	Tasks   []task.Task `json:"tasks"`
}

// Adapter implements task.Persister on top of a blob store.
type Adapter struct {
	blobs blob.Store
	key   string
}

var _ task.Persister = (*Adapter)(nil)

// New returns an adapter storing tasks under blob.KeyTasks.
func New(blobs blob.Store) *Adapter {
	return &Adapter{blobs: blobs, key: blob.KeyTasks}
}

// Load returns the persisted task list. A missing blob yields an empty list;
// an undecodable one yields an error wrapping task.ErrCorruptState.
func (a *Adapter) Load() ([]task.Task, error) {
	data, err := a.blobs.Get(a.key)
	if errors.Is(err, blob.ErrNotFound) {
		return []task.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s blob: %w", a.key, err)
	}
	return Decode(data)
}

// Save replaces the persisted task list.
func (a *Adapter) Save(tasks []task.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	if err := a.blobs.Put(a.key, data); err != nil {
		return fmt.Errorf("write %s blob: %w", a.key, err)
	}
	return nil
}

// Encode serializes tasks into the current envelope.
func Encode(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(envelope{Version: Version, Tasks: tasks})
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses either the current envelope or a legacy bare array.
func Decode(data []byte) ([]task.Task, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty blob", task.ErrCorruptState)
	}

	switch trimmed[0] {
	case '[':
		return decodeLegacy(trimmed)
	case '{':
		return decodeEnvelope(trimmed)
	default:
		return nil, fmt.Errorf("%w: unexpected leading %q", task.ErrCorruptState, trimmed[0])
	}
}

func decodeEnvelope(data []byte) ([]task.Task, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", task.ErrCorruptState, err)
	}
	if env.Version < 1 {
		return nil, fmt.Errorf("%w: missing version", task.ErrCorruptState)
	}
	if env.Version > Version {
		return nil, fmt.Errorf("%w: version %d is newer than supported version %d", task.ErrCorruptState, env.Version, Version)
	}
	if env.Tasks == nil {
		env.Tasks = []task.Task{}
	}
	return env.Tasks, nil
}
