// Package theme stores the user's light/dark preference.
package theme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amonks/taskpad/internal/blob"
	"github.com/amonks/taskpad/internal/validation"
)

// Theme is a terminal color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// All lists the known themes.
var All = []Theme{Light, Dark}

// ErrUnknownTheme is returned by Parse for unrecognized names.
var ErrUnknownTheme = errors.New("unknown theme")

// Parse returns the theme named by s.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", validation.FormatInvalidValueError(ErrUnknownTheme, Theme(s), All)
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// IsDark reports whether t is the dark theme.
func (t Theme) IsDark() bool {
	return t == Dark
}

func (t Theme) String() string {
	return string(t)
}

// Load returns the saved theme, or Light when none is saved or the saved
// value is unrecognized.
func Load(blobs blob.Store) (Theme, error) {
	data, err := blobs.Get(blob.KeyTheme)
	if errors.Is(err, blob.ErrNotFound) {
		return Light, nil
	}
	if err != nil {
		return Light, fmt.Errorf("read theme: %w", err)
	}
	t, err := Parse(string(data))
	if err != nil {
		return Light, nil
	}
	return t, nil
}

// Save persists t.
func Save(blobs blob.Store, t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}
	if err := blobs.Put(blob.KeyTheme, []byte(t)); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	return nil
}

// Toggle flips the saved theme and returns the new one.
func Toggle(blobs blob.Store) (Theme, error) {
	current, err := Load(blobs)
	if err != nil {
		return current, err
	}
	next := current.Toggle()
	if err := Save(blobs, next); err != nil {
		return current, err
	}
	return next, nil
}
