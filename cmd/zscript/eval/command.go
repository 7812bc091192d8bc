package eval

import (
	"flag"
	"fmt"
	"os"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/cli/runtimeflags"
	"github.com/brimdata/zscript/cmd/zscript/root"
	"github.com/brimdata/zscript/compiler/ast"
	"github.com/brimdata/zscript/pkg/charm"
	"github.com/brimdata/zscript/runtime"
)

var Cmd = &charm.Spec{
	Name:  "eval",
	Usage: "eval [options] [file ...]",
	Short: "evaluate call trees",
	Long: `
The eval command compiles the call tree in each file, evaluates the trees
concurrently, and prints each value on its own line in the order of the
files.  A file name of "-" reads standard input.  The -e flag gives a tree
on the command line, which is evaluated before those of the files.

Free variables of the trees are bound with -var.`,
	New: New,
}

type Command struct {
	*root.Command
	expr     string
	parallel int
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.StringVar(&c.expr, "e", "", "call tree in YAML or JSON")
	f.IntVar(&c.parallel, "P", 0, "maximum number of trees evaluated at once (0 means no limit)")
	return c, nil
}

func (c *Command) Run(args []string) error {
	if len(args) == 0 && c.expr == "" {
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
	var trees []ast.Expr
	if c.expr != "" {
		tree, err := ast.UnmarshalYAML([]byte(c.expr))
		if err != nil {
			return fmt.Errorf("-e: %w", err)
		}
		trees = append(trees, tree)
	}
	for _, path := range args {
		tree, err := runtimeflags.ReadTree(path)
		if err != nil {
			return err
		}
		trees = append(trees, tree)
	}
	queries := make([]*runtime.Query, 0, len(trees))
	for _, tree := range trees {
		q, err := rt.NewQuery(tree, vars)
		if err != nil {
			return err
		}
		queries = append(queries, q)
	}
	vals, err := runtime.EvalAll(rt.Context(), queries, c.parallel)
	if err != nil {
		return err
	}
	for _, val := range vals {
		fmt.Fprintln(os.Stdout, zscript.FormatValue(val))
	}
	return nil
}
