package graph

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/oolestudio/tamashi/pkg/domain"
	tgraph "github.com/oolestudio/tamashi/pkg/graph"
)

// labelWidth caps the step text shown under each ID.
const labelWidth = 32

// Overlay contains dynamic state data to visualize on the graph.
type Overlay struct {
	CurrentStepID string
	Visible       bool
}

// OverlayFromState highlights the state's current step.
func OverlayFromState(s *domain.State) *Overlay {
	if s == nil {
		return nil
	}
	return &Overlay{CurrentStepID: s.CurrentStepID, Visible: s.Visible}
}

// GenerateMermaid produces a Mermaid flowchart for a tutorial.
// It applies semantic styling:
// - Start step: ((Circle))
// - Terminal step: ([Stadium])
// - Non-dismissible step: {{Hexagon}}
// - Default: [Rectangle]
// Dangling NextStepIDs point at a red "missing" node. When an overlay is
// given, steps on the walk up to the current one are styled as visited.
func GenerateMermaid(t domain.Tutorial, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	path := tgraph.Walk(t.Steps, t.StartStepID)
	start := ""
	if len(path) > 0 {
		start = path[0]
	}

	known := make(map[string]bool, len(t.Steps))
	for _, s := range t.Steps {
		known[s.ID] = true
	}

	written := make(map[string]bool, len(t.Steps))
	var missing []string
	for _, s := range t.Steps {
		safeID := sanitizeMermaidID(s.ID)
		if written[safeID] {
			continue // last definition wins in the store, but one box is enough
		}
		written[safeID] = true

		opener, closer := "[", "]"
		switch {
		case s.ID == start:
			opener, closer = "((", "))"
		case s.IsTerminal():
			opener, closer = "([", "])"
		case !s.Dismissible:
			opener, closer = "{{", "}}"
		}

		label := s.ID
		if text := excerpt(s.Text); text != "" {
			label = fmt.Sprintf("%s <br/> %s", s.ID, text)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		if s.NextStepID == "" {
			continue
		}
		safeTo := sanitizeMermaidID(s.NextStepID)
		if !known[s.NextStepID] {
			safeTo = "missing_" + safeTo
			missing = append(missing, safeTo)
			fmt.Fprintf(&sb, "    %s -.-> %s[\"%s?\"]\n", safeID, safeTo, s.NextStepID)
			continue
		}
		fmt.Fprintf(&sb, "    %s --> %s\n", safeID, safeTo)
	}

	if len(missing) > 0 {
		sb.WriteString("\n    classDef missing fill:#ffcdd2,stroke:#c62828,stroke-dasharray:4,color:#000;\n")
		for _, id := range missing {
			fmt.Fprintf(&sb, "    class %s missing;\n", id)
		}
	}

	if overlay != nil && overlay.CurrentStepID != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef hidden fill:#eeeeee,stroke:#9e9e9e,stroke-width:4px,color:#000;\n")

		for _, id := range path {
			if id == overlay.CurrentStepID {
				break
			}
			fmt.Fprintf(&sb, "    class %s visited;\n", sanitizeMermaidID(id))
		}
		class := "current"
		if !overlay.Visible {
			class = "hidden"
		}
		fmt.Fprintf(&sb, "    class %s %s;\n", sanitizeMermaidID(overlay.CurrentStepID), class)
	}

	return sb.String()
}

func excerpt(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.ReplaceAll(text, "\"", "'")
	if utf8.RuneCountInString(text) <= labelWidth {
		return text
	}
	runes := []rune(text)
	return string(runes[:labelWidth-1]) + "…"
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
