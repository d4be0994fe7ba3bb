package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`                     _ _ _                 _    `, "#34d399"},
	{`  _ __ ___   ___  __| (_) |__   ___   ___ | | __`, "#2dd4bf"},
	{` | '_ ' _ \ / _ \/ _' | | '_ \ / _ \ / _ \| |/ /`, "#22d3ee"},
	{` | | | | | |  __/ (_| | | |_) | (_) | (_) |   < `, "#38bdf8"},
	{` |_| |_| |_|\___|\__,_|_|_.__/ \___/ \___/|_|\_\`, "#60a5fa"},
}

// PrintBanner writes the medibook banner to w, colored when the terminal supports it.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
