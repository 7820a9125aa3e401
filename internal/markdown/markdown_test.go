package markdown

import (
	"strings"
	"testing"

	"github.com/amonks/taskpad/theme"
)

type panicRenderer struct{}

func (panicRenderer) Render(string) (string, error) {
	panic("boom")
}

func TestSafeRender_RecoversFromRendererPanic(t *testing.T) {
	key := rendererKey{width: 20, style: StylePlain}

	rendererMu.Lock()
	prev, hadPrev := renderers[key]
	renderers[key] = panicRenderer{}
	rendererMu.Unlock()

	defer func() {
		rendererMu.Lock()
		if hadPrev {
			renderers[key] = prev
		} else {
			delete(renderers, key)
		}
		rendererMu.Unlock()
	}()

	out := SafeRender(20, 0, StylePlain, []byte("hello\n"))
	if string(out) != "hello" {
		t.Fatalf("expected fallback to original markdown, got %q", string(out))
	}
}

func TestRender_Plain(t *testing.T) {
	out := string(Render(40, 2, StylePlain, []byte("# Groceries\n\n* milk\n* eggs\n")))

	if strings.Contains(out, "\x1b[") {
		t.Fatalf("plain style should not emit ANSI codes: %q", out)
	}
	for _, want := range []string{"Groceries", "- milk", "- eggs"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if line != "" && !strings.HasPrefix(line, "  ") {
			t.Fatalf("expected indented line, got %q", line)
		}
	}
}

func TestRender_Empty(t *testing.T) {
	if out := Render(40, 0, StylePlain, []byte("  \n\n")); out != nil {
		t.Fatalf("expected nil for blank input, got %q", out)
	}
	if out := Render(40, 0, StylePlain, nil); out != nil {
		t.Fatalf("expected nil for nil input, got %q", out)
	}
}

func TestStyleFor(t *testing.T) {
	if StyleFor(theme.Dark, false) != StylePlain {
		t.Fatal("expected plain without color")
	}
	if StyleFor(theme.Dark, true) != StyleDark {
		t.Fatal("expected dark style")
	}
	if StyleFor(theme.Light, true) != StyleLight {
		t.Fatal("expected light style")
	}
}
