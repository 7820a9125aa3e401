package main

import (
	"strings"

	"github.com/amonks/taskpad/internal/markdown"
	internalstrings "github.com/amonks/taskpad/internal/strings"
	"github.com/amonks/taskpad/internal/ui"
	"github.com/amonks/taskpad/theme"
	"github.com/muesli/reflow/wordwrap"
)

const lineWidth = 80

func renderMarkdownOrDash(value string, width int, th theme.Theme) string {
	if width < 1 {
		width = 1
	}
	style := markdown.StyleFor(th, ui.ColorEnabled())
	formatted := string(markdown.SafeRender(width, 0, style, []byte(value)))
	if strings.TrimSpace(formatted) == "" {
		return "-"
	}
	return formatted
}

// reflowParagraphs wraps each blank-line separated paragraph to width.
func reflowParagraphs(value string, width int) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	paragraphs := splitParagraphs(value)
	wrapped := make([]string, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		normalized := internalstrings.NormalizeWhitespace(paragraph)
		if normalized == "" {
			continue
		}
		wrapped = append(wrapped, wordwrap.String(normalized, width))
	}
	return strings.Join(wrapped, "\n\n")
}

func splitParagraphs(value string) []string {
	lines := strings.Split(value, "\n")
	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		paragraphs = append(paragraphs, strings.Join(current, " "))
		current = nil
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return paragraphs
}

// hangingIndent indents every line after the first by spaces.
func hangingIndent(value string, spaces int) string {
	lines := strings.Split(value, "\n")
	prefix := strings.Repeat(" ", spaces)
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
