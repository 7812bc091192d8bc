// Package runtimeflags holds the flags that configure a runtime.Runtime and
// the helpers that read call trees and variable values from the command
// line.
package runtimeflags

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/compiler/ast"
	"github.com/brimdata/zscript/runtime"
	"go.uber.org/multierr"
)

type Flags struct {
	Functions multiFlag
	Vars      multiFlag
	Fold      bool
	CacheSize int
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.Var(&f.Functions, "f", "YAML file of function declarations (may be repeated)")
	fs.Var(&f.Vars, "var", "variable binding name=value with a literal value (may be repeated)")
	fs.BoolVar(&f.Fold, "fold", false, "replace constant subexpressions with their values")
	fs.IntVar(&f.CacheSize, "cachesize", runtime.DefaultCacheSize, "number of compiled call trees to keep")
}

// Open returns a runtime with the functions of each -f file loaded.
func (f *Flags) Open(rctx *runtime.Context) (*runtime.Runtime, error) {
	rt, err := runtime.New(rctx, runtime.Config{Fold: f.Fold, CacheSize: f.CacheSize})
	if err != nil {
		return nil, err
	}
	for _, path := range f.Functions {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := rt.LoadFunctions(bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return rt, nil
}

// ParseVars returns the values of the -var flags.
func (f *Flags) ParseVars() (map[string]any, error) {
	vars := make(map[string]any, len(f.Vars))
	var err error
	for _, binding := range f.Vars {
		name, text, ok := strings.Cut(binding, "=")
		if !ok || name == "" {
			err = multierr.Append(err, fmt.Errorf("-var %q: expected name=value", binding))
			continue
		}
		val, parseErr := zscript.ParseValue(text)
		if parseErr != nil {
			err = multierr.Append(err, fmt.Errorf("-var %s: %w", name, parseErr))
			continue
		}
		vars[name] = val
	}
	return vars, err
}

// ReadTree reads a call tree from path, or from stdin if path is "-".
// Files ending in .json are JSON and any other file is YAML, of which JSON
// is a subset.
func ReadTree(path string) (ast.Expr, error) {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var tree ast.Expr
	if filepath.Ext(path) == ".json" {
		tree, err = ast.UnmarshalJSON(b)
	} else {
		tree, err = ast.UnmarshalYAML(b)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

type multiFlag []string

func (m multiFlag) String() string {
	return strings.Join(m, ",")
}

func (m *multiFlag) Set(s string) error {
	*m = append(*m, s)
	return nil
}
