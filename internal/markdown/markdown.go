// Package markdown renders task notes for the terminal with glamour.
package markdown

import (
	"strings"
	"sync"

	internalstrings "github.com/amonks/taskpad/internal/strings"
	"github.com/amonks/taskpad/theme"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Style selects a glamour style.
type Style string

const (
	// StylePlain emits no ANSI sequences.
	StylePlain Style = "plain"
	StyleLight Style = "light"
	StyleDark  Style = "dark"
)

// StyleFor returns the style for th, or StylePlain when color is off.
func StyleFor(th theme.Theme, color bool) Style {
	switch {
	case !color:
		return StylePlain
	case th.IsDark():
		return StyleDark
	default:
		return StyleLight
	}
}

type renderer interface {
	Render(string) (string, error)
}

type rendererKey struct {
	width int
	style Style
}

var (
	rendererMu sync.Mutex
	renderers  = map[rendererKey]renderer{}
)

// Render formats markdown text for terminal output. It falls back to the
// raw text when rendering fails.
func Render(width, indent int, style Style, input []byte) []byte {
	if len(input) == 0 {
		return nil
	}
	value := internalstrings.NormalizeNewlines(string(input))
	value = internalstrings.TrimTrailingNewlines(value)
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if width < 1 {
		width = 1
	}
	if indent < 0 {
		indent = 0
	}
	renderWidth := width - indent
	if renderWidth < 1 {
		renderWidth = 1
	}

	rendered := value
	if r := markdownRenderer(renderWidth, style); r != nil {
		formatted, err := r.Render(value)
		if err == nil {
			rendered = formatted
		}
	}
	rendered = internalstrings.TrimTrailingNewlines(rendered)
	if strings.TrimSpace(rendered) == "" {
		return nil
	}
	if indent <= 0 {
		return []byte(rendered)
	}
	return []byte(indentBlock(rendered, indent))
}

// SafeRender is Render, but a panicking renderer yields the trimmed input.
func SafeRender(width, indent int, style Style, input []byte) (out []byte) {
	defer func() {
		if recover() != nil {
			value := internalstrings.TrimTrailingNewlines(internalstrings.NormalizeNewlines(string(input)))
			out = []byte(indentBlock(value, indent))
		}
	}()
	return Render(width, indent, style, input)
}

func markdownRenderer(width int, style Style) renderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	key := rendererKey{width: width, style: style}
	if cached, ok := renderers[key]; ok {
		return cached
	}
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(styleConfig(style)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[key] = created
	return created
}

func styleConfig(style Style) ansi.StyleConfig {
	var cfg ansi.StyleConfig
	switch style {
	case StyleDark:
		cfg = styles.DarkStyleConfig
	case StyleLight:
		cfg = styles.LightStyleConfig
	default:
		cfg = styles.ASCIIStyleConfig
		cfg.Item.BlockPrefix = "- "
		cfg.ImageText.Format = "Image: {{.text}} ->"
	}
	// Notes are shown indented under a header; glamour's own margin doubles it.
	zero := uint(0)
	cfg.Document.Margin = &zero
	return cfg
}

func indentBlock(value string, spaces int) string {
	if spaces <= 0 {
		return value
	}
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
