package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the CLI banner.
func PrintBanner(w io.Writer, p termenv.Profile) {
	lines := []struct {
		text  string
		color string
	}{
		{" _                       _                              ", "#fde047"},
		{"| |__  _   _ ___ _   _  | |__   ___  __ ___   _____ _ __", "#facc15"},
		{"| '_ \\| | | / __| | | | | '_ \\ / _ \\/ _` \\ \\ / / _ \\ '__|", "#eab308"},
		{"| |_) | |_| \\__ \\ |_| | | |_) |  __/ (_| |\\ V /  __/ |  ", "#ca8a04"},
		{"|_.__/ \\__,_|___/\\__, | |_.__/ \\___|\\__,_| \\_/ \\___|_|  ", "#a16207"},
		{"                 |___/                                  ", "#854d0e"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
