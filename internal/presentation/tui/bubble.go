package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/oolestudio/tamashi/pkg/domain"
)

var (
	bubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#a78bfa")).
			Padding(0, 1)

	speakerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f472b6"))

	assetStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

// RenderBubble draws a step as a speech bubble: the speaker and its asset on
// top, the rendered text inside a rounded border, and the key hints below.
func RenderBubble(step domain.Step, width int, render Renderer) string {
	if render == nil {
		render = PlainRenderer
	}
	text, err := render(step.Text)
	if err != nil {
		text = step.Text
	}

	header := speakerStyle.Render(step.SpeakerName)
	if step.AssetRef != "" {
		header += " " + assetStyle.Render("("+step.AssetRef+")")
	}

	box := bubbleStyle
	if width > 4 {
		box = box.Width(width - 2)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		box.Render(text),
		hintStyle.Render(Hints(step)),
	)
}

// Hints lists the keys available on step.
func Hints(step domain.Step) string {
	next := "enter: next"
	if step.IsTerminal() {
		next = "enter: finish"
	}
	hints := []string{next, "r: restart"}
	if step.Dismissible {
		hints = append(hints, "esc: close")
	}
	return strings.Join(hints, " · ")
}
