package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the Tally ASCII banner.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _____     _ _       ", "#818cf8"},
		{" |_   _|_ _| | |_  _  ", "#a78bfa"},
		{"   | |/ _` | | | || | ", "#c084fc"},
		{"   |_|\\__,_|_|_|\\_, | ", "#e879f9"},
		{"                |__/  ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Highlight renders s in bold using the terminal's color profile.
func Highlight(s string) string {
	return termenv.String(s).Bold().Foreground(termenv.ColorProfile().Color("#a78bfa")).String()
}
