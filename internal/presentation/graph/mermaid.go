package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/busybeaver/pkg/domain"
)

// Overlay marks run progress on the diagram.
type Overlay struct {
	Visited []domain.State
	Current domain.State
}

// GenerateMermaid renders a transition table as a Mermaid flowchart.
// Final states are drawn as circles; every edge is labelled
// "read → write, move". States with no outgoing or incoming transition still
// appear, so stuck machines are visible.
func GenerateMermaid(def *domain.Definition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, q := range def.States {
		opener, closer := "[", "]"
		if def.IsFinal(q) {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(string(q)), opener, escape(string(q)), closer)
	}

	for _, k := range def.Keys() {
		a := def.Table[k]
		label := fmt.Sprintf("%s → %s, %s", k.Symbol, a.Write, a.Move)
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n",
			sanitizeMermaidID(string(k.State)),
			escape(label),
			sanitizeMermaidID(string(a.Next)),
		)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, q := range overlay.Visited {
			id := sanitizeMermaidID(string(q))
			if id != "" && !seen[id] {
				seen[id] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", id)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(string(overlay.Current)))
		}
	}

	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

// sanitizeMermaidID maps a state name to a safe node ID. Mermaid IDs must not
// start with a digit, so every ID gets a prefix.
func sanitizeMermaidID(id string) string {
	if id == "" {
		return ""
	}
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_", "\"", "_")
	return "s_" + r.Replace(id)
}
