package theme

import (
	"errors"
	"strings"
	"testing"

	"github.com/amonks/taskpad/internal/blob"
)

func TestLoad_DefaultsToLight(t *testing.T) {
	got, err := Load(blob.NewMemory())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != Light {
		t.Fatalf("expected light, got %s", got)
	}
}

func TestLoad_UnrecognizedIsLight(t *testing.T) {
	blobs := blob.NewMemory()
	if err := blobs.Put(blob.KeyTheme, []byte("sepia")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := Load(blobs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != Light {
		t.Fatalf("expected light, got %s", got)
	}
}

func TestSaveAndToggle(t *testing.T) {
	blobs := blob.NewDir(t.TempDir())

	if err := Save(blobs, Dark); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := blobs.Get(blob.KeyTheme)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(raw) != "dark" {
		t.Fatalf("expected literal dark, got %q", raw)
	}

	next, err := Toggle(blobs)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if next != Light {
		t.Fatalf("expected light after toggle, got %s", next)
	}
	loaded, err := Load(blobs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != Light {
		t.Fatalf("expected persisted light, got %s", loaded)
	}
}

func TestSave_RejectsUnknown(t *testing.T) {
	err := Save(blob.NewMemory(), Theme("neon"))
	if !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
	if !strings.Contains(err.Error(), "valid: light, dark") {
		t.Fatalf("expected valid themes in error, got %q", err.Error())
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Theme
		wantErr bool
	}{
		{input: "dark", want: Dark},
		{input: " LIGHT ", want: Light},
		{input: "", wantErr: true},
		{input: "blue", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("Parse(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("Parse(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}
