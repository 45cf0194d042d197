package cli

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the neobabu banner in a violet gradient.
func PrintBanner(w io.Writer, p termenv.Profile) {
	lines := []struct {
		text  string
		color string
	}{
		{`                  _           _          `, "#818cf8"},
		{`  _ __   ___  ___ | |__   __ _| |__  _   _ `, "#a78bfa"},
		{` | '_ \ / _ \/ _ \| '_ \ / _' | '_ \| | | |`, "#c084fc"},
		{` | | | |  __/ (_) | |_) | (_| | |_) | |_| |`, "#e879f9"},
		{` |_| |_|\___|\___/|_.__/ \__,_|_.__/ \__,_|`, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
