package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/taskpad/internal/ids"
)

// GenerateID creates an 8-character base32 ID from a name and timestamp,
// skipping any ID already present in existing.
func GenerateID(name string, timestamp time.Time, existing []Task) string {
	taken := make(map[string]bool, len(existing))
	for _, t := range existing {
		taken[strings.ToLower(t.ID)] = true
	}
	return ids.GenerateUnique(name, timestamp, ids.DefaultLength, func(id string) bool {
		return taken[id]
	})
}

// ResolveID returns the full ID of the task matching id or a unique prefix of it.
func ResolveID(tasks []Task, id string) (string, error) {
	all := make([]string, 0, len(tasks))
	for _, t := range tasks {
		all = append(all, t.ID)
	}

	match, found, ambiguous := ids.MatchPrefix(all, id)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousTaskIDPrefix, id)
	}
	return match, nil
}

// PrefixLengths returns the shortest unique prefix length for each task ID,
// keyed by lowercased ID.
func PrefixLengths(tasks []Task) map[string]int {
	all := make([]string, 0, len(tasks))
	for _, t := range tasks {
		all = append(all, t.ID)
	}
	return ids.UniquePrefixLengths(all)
}
