package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Recipe Decider banner to w.
// Colors are dropped when w is not a terminal.
func PrintBanner(w io.Writer) {
	o := termenv.NewOutput(w)
	lines := []struct {
		text, color string
	}{
		{"  ___         _            ___         _    _         ", "#fbbf24"},
		{" | _ \\___ __(_)_ __  ___  |   \\ ___ __(_)__| |___ _ _ ", "#f59e0b"},
		{" |   / -_) _| | '_ \\/ -_) | |) / -_) _| / _` / -_) '_|", "#f97316"},
		{" |_|_\\___\\__|_| .__/\\___| |___/\\___\\__|_\\__,_\\___|_|  ", "#ef4444"},
		{"              |_|                                     ", "#e11d48"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, o.String(l.text).Foreground(o.Color(l.color)))
	}
	fmt.Fprintln(w)
}
