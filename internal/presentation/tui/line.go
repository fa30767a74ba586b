package tui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/oolestudio/tamashi/pkg/domain"
)

// RunLine plays a tutorial without a full-screen terminal: each view is
// printed as text and each input line is a command (empty or "n" advances,
// "r" restarts, "q" closes). It returns when the guide is hidden or the input ends.
func RunLine(in io.Reader, out io.Writer, ctrl Controller) error {
	scanner := bufio.NewScanner(in)
	for {
		v := ctrl.View()
		if !v.Visible || v.Step == nil {
			fmt.Fprintln(out, "(the guide is resting)")
			return nil
		}
		printStep(out, *v.Step)

		if !scanner.Scan() {
			return scanner.Err()
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "", "n", "next":
			ctrl.Advance()
		case "r", "reset":
			ctrl.Reset()
		case "q", "quit", "esc":
			if v.Step.Dismissible {
				ctrl.Dismiss()
			}
		default:
			fmt.Fprintln(out, "commands: [enter] next, r restart, q close")
		}
	}
}

func printStep(out io.Writer, step domain.Step) {
	fmt.Fprintf(out, "%s: %s\n", Speaker(out, step.SpeakerName), step.Text)
	fmt.Fprintf(out, "  [%s]\n", Hints(step))
}
