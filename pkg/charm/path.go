package charm

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// path is the sequence of command instances from the root to the command
// being run.
type path []*instance

// parse instantiates the specs named by args and parses the flags of each
// one.  It returns the remaining arguments of the last command.
func parse(spec *Spec, args []string) (path, []string, error) {
	var p path
	var parent Command
	for {
		inst, err := newInstance(parent, spec)
		if err != nil {
			return nil, nil, err
		}
		p = append(p, inst)
		rest, err := parseFlags(inst.flags, args)
		if err != nil {
			return p, nil, err
		}
		if len(rest) == 0 {
			return p, rest, nil
		}
		child := spec.lookupSub(rest[0])
		if child == nil {
			return p, rest, nil
		}
		parent, spec, args = inst.command, child, rest[1:]
	}
}

// parseHelp is like parse but ignores flag errors so that help can be shown
// for a command line that does not parse.
func parseHelp(spec *Spec, args []string) (path, error) {
	var names []string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			names = append(names, arg)
		}
	}
	return search(spec, names, false)
}

// search instantiates the specs named by names without parsing flags.  A
// name that is not a sub-command ends the search or, if strict, is an
// error.
func search(spec *Spec, names []string, strict bool) (path, error) {
	root, err := newInstance(nil, spec)
	if err != nil {
		return nil, err
	}
	p := path{root}
	for k, name := range names {
		child := spec.lookupSub(name)
		if child == nil {
			if !strict {
				break
			}
			return nil, fmt.Errorf("no such command: %s", strings.Join(names[:k+1], " "))
		}
		inst, err := newInstance(p.last().command, child)
		if err != nil {
			return nil, err
		}
		p = append(p, inst)
		spec = child
	}
	return p, nil
}

func parseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, NeedHelp
		}
		return nil, err
	}
	return fs.Args(), nil
}

func (p path) run(args []string) error {
	err := p.last().command.Run(args)
	if err == ErrNoRun {
		if len(args) == 0 {
			return fmt.Errorf("%q: requires a sub-command: %s", p.pathname(), p.subCommands())
		}
		return fmt.Errorf("%q: no such sub-command %q: options are: %s", p.pathname(), args[0], p.subCommands())
	}
	return err
}

func (p path) last() *instance {
	return p[len(p)-1]
}

func (p path) pathname() string {
	names := make([]string, 0, len(p))
	for _, inst := range p {
		names = append(names, inst.spec.Name)
	}
	return strings.Join(names, " ")
}

func (p path) subCommands() string {
	var names []string
	for _, spec := range p.last().spec.children {
		if !spec.Hidden {
			names = append(names, spec.Name)
		}
	}
	return strings.Join(names, " ")
}
