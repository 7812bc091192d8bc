// Package charm is a minimalist CLI framework inspired by cobra and
// urfave/cli.  A command line is matched against a tree of Specs.  Each
// Spec on the path from the root is instantiated with its own flag set and
// the deepest one is run with the remaining arguments.
package charm

import (
	"errors"
	"flag"
	"os"
)

var (
	// NeedHelp is returned by a Run method to display the help of its
	// command.
	NeedHelp = errors.New("help")
	// ErrNoRun is returned by a Run method of a command that only groups
	// sub-commands.
	ErrNoRun = errors.New("no run method")
)

type Constructor func(Command, *flag.FlagSet) (Command, error)

type Command interface {
	Run([]string) error
}

type Spec struct {
	Name  string
	Usage string
	Short string
	Long  string
	New   Constructor
	// Hidden hides this command from help.
	Hidden bool
	// HiddenFlags is a comma-separated list of flags hidden from help.
	HiddenFlags string
	// RedactedFlags is a comma-separated list of flags whose default
	// values are not shown in help.
	RedactedFlags string
	children      []*Spec
	parent        *Spec
}

func (s *Spec) Add(child *Spec) {
	s.children = append(s.children, child)
	child.parent = s
}

func (s *Spec) Root() *Spec {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

func (s *Spec) lookupSub(name string) *Spec {
	for _, child := range s.children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// ExecRoot runs the command line args against the tree rooted at s.
func (s *Spec) ExecRoot(args []string) error {
	p, rest, err := parse(s, args)
	if err == nil {
		err = p.run(rest)
	}
	if err == NeedHelp {
		p, err := parseHelp(s, args)
		if err != nil {
			return err
		}
		displayHelp(os.Stderr, p, false)
		return nil
	}
	return err
}
