package main

import (
	"fmt"
	"os"

	"github.com/brimdata/zscript/cmd/zscript/compile"
	"github.com/brimdata/zscript/cmd/zscript/doc"
	"github.com/brimdata/zscript/cmd/zscript/eval"
	"github.com/brimdata/zscript/cmd/zscript/repl"
	"github.com/brimdata/zscript/cmd/zscript/root"
	"github.com/brimdata/zscript/pkg/charm"
	"github.com/brimdata/zscript/pkg/terminal/color"
)

func main() {
	zscript := root.Zscript
	zscript.Add(eval.Cmd)
	zscript.Add(compile.Cmd)
	zscript.Add(doc.Cmd)
	zscript.Add(repl.Cmd)
	zscript.Add(charm.Help)
	if err := zscript.ExecRoot(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, color.Red.Colorize(err.Error()))
		os.Exit(1)
	}
}
