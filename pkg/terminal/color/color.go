// Package color emits ANSI escape sequences when Enabled.
package color

import (
	"fmt"
	"os"

	"github.com/brimdata/zscript/pkg/terminal"
)

// Enabled is true when stderr is a terminal.
var Enabled = terminal.IsTerminal(os.Stderr)

type Code int

const (
	Reset Code = 0
	Bold  Code = 1
	Red   Code = 31
	Green Code = 32
)

func (c Code) String() string {
	return fmt.Sprintf("\033[%dm", int(c))
}

// Colorize returns s surrounded by c and Reset or just s if color is not
// Enabled.
func (c Code) Colorize(s string) string {
	if !Enabled {
		return s
	}
	return c.String() + s + Reset.String()
}
