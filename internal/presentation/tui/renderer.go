package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer turns step text (Markdown) into terminal output.
type Renderer func(string) (string, error)

// NewRenderer returns a glamour renderer wrapping at width.
// It falls back to the plain text if glamour cannot be initialized.
func NewRenderer(width int) Renderer {
	if width <= 0 {
		width = 60
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return PlainRenderer
	}

	return func(markdown string) (string, error) {
		out, err := r.Render(markdown)
		if err != nil {
			return "", err
		}
		return strings.Trim(out, "\n"), nil
	}
}

// PlainRenderer returns the text unchanged.
func PlainRenderer(text string) (string, error) {
	return text, nil
}
