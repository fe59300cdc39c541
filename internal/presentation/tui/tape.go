package tui

import (
	"os"
	"strings"

	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Profile returns the colour profile for f, or Ascii when f is not a terminal.
func Profile(f *os.File) termenv.Profile {
	if !term.IsTerminal(int(f.Fd())) {
		return termenv.Ascii
	}
	return termenv.NewOutput(f).EnvColorProfile()
}

// RenderTape draws the visited window of t. The head cell is bracketed and,
// on colour terminals, highlighted; blank cells are dimmed.
func RenderTape(t domain.Tape, p termenv.Profile) string {
	cells, head := t.Cells()

	var sb strings.Builder
	for i, s := range cells {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i == head {
			sb.WriteString(p.String("[" + string(s) + "]").Bold().Reverse().Foreground(p.Color("#facc15")).String())
			continue
		}
		cell := p.String(string(s))
		if s == t.Blank() {
			cell = cell.Faint()
		}
		sb.WriteString(cell.String())
	}
	return sb.String()
}
