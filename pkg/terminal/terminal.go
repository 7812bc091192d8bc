// Package terminal reports properties of the terminal attached to the
// process.
package terminal

import (
	"os"

	"golang.org/x/term"
)

const DefaultWidth = 80

// Width returns the width of the terminal on stdout or DefaultWidth if
// stdout is not a terminal.
func Width() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
