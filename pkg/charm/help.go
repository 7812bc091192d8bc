package charm

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brimdata/zscript/pkg/terminal"
	"github.com/brimdata/zscript/pkg/terminal/color"
	"github.com/kr/text"
)

// Help is a command that displays the help of the command named by its
// arguments.  Add it to a root Spec.
var Help = &Spec{
	Name:  "help",
	Usage: "help [command ...]",
	Short: "display help for a command",
	Long: `
For help on the top-level command, type "help".  For help on a command,
type "help command", and for a command nested further, type
"help cmd1 cmd2" and so forth.`,
	HiddenFlags: "v",
	New: func(parent Command, f *flag.FlagSet) (Command, error) {
		c := &HelpCommand{}
		f.BoolVar(&c.showHidden, "v", false, "show hidden commands and flags")
		return c, nil
	},
}

type HelpCommand struct {
	showHidden bool
}

func (c *HelpCommand) Run(args []string) error {
	p, err := search(Help.Root(), args, true)
	if err != nil {
		return err
	}
	displayHelp(os.Stderr, p, c.showHidden)
	return nil
}

const tab = "    "

func displayHelp(w io.Writer, p path, showHidden bool) {
	spec := p.last().spec
	section(w, "NAME", tab+spec.Name+" - "+spec.Short+"\n")
	section(w, "USAGE", wrap(spec.Usage))
	section(w, "OPTIONS", list(options(p, showHidden)))
	if commands := subcommands(spec, showHidden); len(commands) > 0 {
		section(w, "COMMANDS", list(commands))
	}
	if spec.Long != "" {
		section(w, "DESCRIPTION", wrap(spec.Long))
	}
}

func section(w io.Writer, heading, body string) {
	fmt.Fprintf(w, "%s\n%s\n", color.Bold.Colorize(heading), body)
}

func list(lines []string) string {
	return tab + strings.Join(lines, "\n"+tab) + "\n"
}

// wrap fills each paragraph of body to the width of the terminal.
func wrap(body string) string {
	width := terminal.Width() - len(tab) - 5
	var chunks []string
	for _, paragraph := range strings.Split(strings.TrimSpace(body), "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if len(paragraph) > width {
			paragraph = text.Wrap(paragraph, width)
		}
		chunks = append(chunks, text.Indent(paragraph, tab))
	}
	return strings.Join(chunks, "\n\n") + "\n"
}

// options lists the flags of the last command followed by those of the
// commands above it, which apply as well.
func options(p path, showHidden bool) []string {
	lines := p.last().options(showHidden)
	if len(lines) == 0 {
		lines = []string{"no flags for this command"}
	}
	for k := len(p) - 2; k >= 0; k-- {
		parent := p[k].options(showHidden)
		if len(parent) == 0 {
			continue
		}
		lines = append(lines, "", "["+p[:k+1].pathname()+" flags]")
		lines = append(lines, parent...)
	}
	return lines
}

func subcommands(spec *Spec, showHidden bool) []string {
	var lines []string
	for _, child := range spec.children {
		name := child.Name
		if child.Hidden {
			if !showHidden {
				continue
			}
			name = "[" + name + "]"
		}
		lines = append(lines, name+" - "+child.Short)
	}
	return lines
}
