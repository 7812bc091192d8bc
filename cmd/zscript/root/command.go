package root

import (
	"flag"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/cli"
	"github.com/brimdata/zscript/cli/logflags"
	"github.com/brimdata/zscript/cli/runtimeflags"
	"github.com/brimdata/zscript/method"
	"github.com/brimdata/zscript/pkg/charm"
	"github.com/brimdata/zscript/runtime"
	"go.uber.org/zap"
)

var Zscript = &charm.Spec{
	Name:  "zscript",
	Usage: "zscript <command> [options] [arguments...]",
	Short: "compile and evaluate call trees",
	Long: `
zscript compiles call trees into expression trees and evaluates them
against the builtin functions, the host libraries, and functions declared
in YAML files given with -f.

A call tree is a JSON or YAML document whose nodes are objects with a
"kind" field: Call, Ident, Literal, Lambda, Let, Apply, Conditional, and
List.`,
	New: New,
}

type Command struct {
	charm.Command
	cli.Flags
	LogFlags     logflags.Flags
	RuntimeFlags runtimeflags.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{}
	c.SetFlags(f)
	c.LogFlags.SetFlags(f)
	c.RuntimeFlags.SetFlags(f)
	return c, nil
}

func (c *Command) Run(args []string) error {
	if len(args) == 0 {
		return charm.NeedHelp
	}
	return charm.ErrNoRun
}

// Open initializes the command line flags and returns a runtime along with
// a function that releases its resources.
func (c *Command) Open() (*runtime.Runtime, func(), error) {
	ctx, cleanup, err := c.Init()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.LogFlags.Open()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	// A host library that cannot be adapted is a defect of the binary.
	if _, err := method.Reflected(); err != nil {
		logger.Fatal("Host libraries", zap.Error(err))
	}
	rctx := runtime.NewContext(ctx, zscript.NewContext(), logger)
	rt, err := c.RuntimeFlags.Open(rctx)
	if err != nil {
		rctx.Cancel()
		cleanup()
		return nil, nil, err
	}
	return rt, func() {
		rctx.Cancel()
		logger.Sync()
		cleanup()
	}, nil
}
