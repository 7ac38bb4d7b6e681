package text

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{" _     _                       ", "#34d399"},
	{"| |__ | | ___   ___  _ __ ___  ", "#2dd4bf"},
	{"| '_ \\| |/ _ \\ / _ \\| '_ ` _ \\ ", "#22d3ee"},
	{"| |_) | | (_) | (_) | | | | | |", "#38bdf8"},
	{"|_.__/|_|\\___/ \\___/|_| |_| |_|", "#60a5fa"},
}

// PrintBanner writes the bloom banner to w, colored for profile.
func PrintBanner(w io.Writer, profile termenv.Profile) {
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, profile.String(l.text).Foreground(profile.Color(l.color)))
	}
	fmt.Fprintln(w)
}
