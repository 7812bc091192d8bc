package compile

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/brimdata/zscript/cli/runtimeflags"
	"github.com/brimdata/zscript/cmd/zscript/root"
	"github.com/brimdata/zscript/compiler"
	"github.com/brimdata/zscript/pkg/charm"
	"gopkg.in/yaml.v3"
)

var Cmd = &charm.Spec{
	Name:  "compile",
	Usage: "compile [options] file",
	Short: "print the compiled form of a call tree",
	Long: `
The compile command compiles the call tree in a file and prints the call
tree of the result.  Method-style calls become plain calls, default
arguments are filled in, and, with -fold, constant subtrees are replaced
by their values.  The output compiles to an equivalent tree.`,
	New: New,
}

type Command struct {
	*root.Command
	yaml bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.BoolVar(&c.yaml, "yaml", false, "print YAML instead of JSON")
	return c, nil
}

func (c *Command) Run(args []string) error {
	if len(args) != 1 {
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
	tree, err := runtimeflags.ReadTree(args[0])
	if err != nil {
		return err
	}
	q, err := rt.NewQuery(tree, vars)
	if err != nil {
		return err
	}
	out, err := compiler.Decompile(q.Expr())
	if err != nil {
		return err
	}
	if c.yaml {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(out)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "    ")
	return enc.Encode(out)
}
