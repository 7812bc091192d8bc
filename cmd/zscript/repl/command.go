package repl

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/cmd/zscript/root"
	"github.com/brimdata/zscript/compiler/ast"
	"github.com/brimdata/zscript/pkg/charm"
	"github.com/brimdata/zscript/pkg/repl"
	"github.com/brimdata/zscript/pkg/terminal/color"
	"github.com/brimdata/zscript/runtime"
)

var Cmd = &charm.Spec{
	Name:  "repl",
	Usage: "repl [options]",
	Short: "evaluate call trees interactively",
	Long: `
The repl command reads call trees from the terminal, one per line, in
YAML flow style or JSON, e.g.,

	{kind: Call, name: count, args: [{value: {kind: Literal, value: 3}}]}

and prints the value of each.  Functions loaded with -f and variables bound
with -var are visible to every tree.  Enter "quit" or end the input to exit.`,
	New: New,
}

type Command struct {
	*root.Command
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	return &Command{Command: parent.(*root.Command)}, nil
}

func (c *Command) Run(args []string) error {
	if len(args) != 0 {
		return charm.NeedHelp
	}
	rt, cleanup, err := c.Open()
	if err != nil {
		return err
	}
	defer cleanup()
	vars, err := c.RuntimeFlags.ParseVars()
	if err != nil {
		return err
	}
	return repl.Run(NewConsumer(rt, vars, os.Stdout))
}

// Consumer evaluates each line it is given as a call tree.
type Consumer struct {
	rt   *runtime.Runtime
	vars map[string]any
	w    io.Writer
}

func NewConsumer(rt *runtime.Runtime, vars map[string]any, w io.Writer) *Consumer {
	return &Consumer{rt: rt, vars: vars, w: w}
}

func (*Consumer) Prompt() string {
	return "zscript> "
}

func (c *Consumer) Consume(line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case "quit", "exit":
		return true
	}
	val, err := c.eval(line)
	if err != nil {
		fmt.Fprintln(c.w, color.Red.Colorize(err.Error()))
		return false
	}
	fmt.Fprintln(c.w, zscript.FormatValue(val))
	return false
}

func (c *Consumer) eval(line string) (any, error) {
	tree, err := ast.UnmarshalYAML([]byte(line))
	if err != nil {
		return nil, err
	}
	q, err := c.rt.NewQuery(tree, c.vars)
	if err != nil {
		return nil, err
	}
	return q.Eval()
}
