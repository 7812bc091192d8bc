package doc

import (
	"flag"
	"fmt"
	"os"

	"github.com/brimdata/zscript/cmd/zscript/root"
	"github.com/brimdata/zscript/describe"
	"github.com/brimdata/zscript/method"
	"github.com/brimdata/zscript/pkg/charm"
)

var Cmd = &charm.Spec{
	Name:  "doc",
	Usage: "doc [options] [function ...]",
	Short: "document functions",
	Long: `
The doc command prints the documentation of the named functions or, with
no arguments, of every function, including those declared with -f.  The
output is Markdown unless -format html is given.`,
	New: New,
}

type Command struct {
	*root.Command
	format string
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.StringVar(&c.format, "format", "md", "output format [md,html]")
	return c, nil
}

func (c *Command) Run(args []string) error {
	rt, cleanup, err := c.Open()
	if err != nil {
		return err
	}
	defer cleanup()
	resolver := rt.Resolver()
	var fns []describe.Function
	if len(args) == 0 {
		fns = describe.All(resolver)
	}
	for _, name := range args {
		b, ok := resolver.Lookup(name)
		if !ok {
			if hint := method.Suggest(name, resolver.Names()); hint != "" {
				return fmt.Errorf("%s: no such function (did you mean %q?)", name, hint)
			}
			return fmt.Errorf("%s: no such function", name)
		}
		fns = append(fns, describe.Describe(name, b))
	}
	return describe.Render(os.Stdout, c.format, fns)
}
