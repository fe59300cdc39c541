package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/busybeaver/internal/presentation/graph"
	"github.com/aretw0/busybeaver/pkg/catalog"
	"github.com/aretw0/busybeaver/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		def         *domain.Definition
		overlay     *graph.Overlay
		contains    []string
		notContains []string
	}{
		{
			name: "States and Shapes",
			def:  catalog.BusyBeaver2().Def,
			contains: []string{
				"graph TD",
				`s_A["A"]`,
				`s_B["B"]`,
				`s_HALT(("HALT"))`,
			},
			notContains: []string{"classDef"},
		},
		{
			name: "Edges",
			def:  catalog.BusyBeaver2().Def,
			contains: []string{
				`s_A -- "0 → 1, R" --> s_B`,
				`s_B -- "1 → 1, R" --> s_HALT`,
			},
		},
		{
			name: "Digit Names",
			def:  catalog.NoTransition().Def,
			contains: []string{
				`s_0["0"]`,
				`s_1(("1"))`,
			},
			notContains: []string{"-->"},
		},
		{
			name:    "Overlay",
			def:     catalog.BusyBeaver2().Def,
			overlay: &graph.Overlay{Visited: []domain.State{"A", "B", "A"}, Current: "HALT"},
			contains: []string{
				"class s_A visited;",
				"class s_B visited;",
				"class s_HALT current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(tt.def, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(out, unwanted) {
					t.Errorf("expected output not to contain %q, got:\n%s", unwanted, out)
				}
			}
			if tt.overlay != nil && strings.Count(out, "class s_A visited;") != 1 {
				t.Errorf("visited states must be deduplicated:\n%s", out)
			}
		})
	}
}
