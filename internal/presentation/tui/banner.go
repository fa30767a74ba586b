package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tamashi banner to w.
func PrintBanner(w io.Writer) {
	o := termenv.NewOutput(w)
	// A pastel gradient, matching the speech bubble border.
	lines := []struct{ text, color string }{
		{"  _                        _     _ ", "#818cf8"},
		{" | |_ __ _ _ __ ___   __ _| |__ (_)", "#a78bfa"},
		{" | __/ _` | '_ ` _ \\ / _` | '_ \\| |", "#c084fc"},
		{" | || (_| | | | | | | (_| | | | | |", "#e879f9"},
		{"  \\__\\__,_|_| |_| |_|\\__,_|_| |_|_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, o.String(l.text).Foreground(o.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Speaker styles a speaker name for line-mode output.
func Speaker(w io.Writer, name string) string {
	o := termenv.NewOutput(w)
	return o.String(name).Bold().Foreground(o.Color("#f472b6")).String()
}
