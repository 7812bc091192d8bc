package charm

import (
	"bytes"
	"flag"
	"strconv"
	"testing"

	"github.com/brimdata/zscript/pkg/terminal/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rootCommand struct {
	verbose bool
}

func (*rootCommand) Run(args []string) error {
	if len(args) == 0 {
		return NeedHelp
	}
	return ErrNoRun
}

type leafCommand struct {
	parent *rootCommand
	n      int
	ran    *[]string
}

func (c *leafCommand) Run(args []string) error {
	if c.parent.verbose {
		args = append([]string{"verbose"}, args...)
	}
	*c.ran = append(args, strconv.Itoa(c.n))
	return nil
}

func newTree(ran *[]string) *Spec {
	root := &Spec{
		Name:  "tool",
		Usage: "tool <command>",
		Short: "a tool",
		New: func(_ Command, f *flag.FlagSet) (Command, error) {
			c := &rootCommand{}
			f.BoolVar(&c.verbose, "v", false, "verbose")
			return c, nil
		},
	}
	root.Add(&Spec{
		Name:  "leaf",
		Usage: "leaf [-n n] args",
		Short: "a leaf",
		Long:  "The leaf command records its arguments.",
		New: func(parent Command, f *flag.FlagSet) (Command, error) {
			c := &leafCommand{parent: parent.(*rootCommand), ran: ran}
			f.IntVar(&c.n, "n", 1, "a number")
			return c, nil
		},
	})
	root.Add(&Spec{
		Name:   "secret",
		Short:  "hidden",
		Hidden: true,
		New: func(Command, *flag.FlagSet) (Command, error) {
			return &rootCommand{}, nil
		},
	})
	return root
}

func TestExec(t *testing.T) {
	var ran []string
	root := newTree(&ran)
	require.NoError(t, root.ExecRoot([]string{"-v", "leaf", "-n", "3", "a", "b"}))
	assert.Equal(t, []string{"verbose", "a", "b", "3"}, ran)

	err := root.ExecRoot([]string{"nosuch"})
	assert.EqualError(t, err, `"tool": no such sub-command "nosuch": options are: leaf`)

	err = root.ExecRoot([]string{"leaf", "-bogus"})
	assert.Error(t, err)
}

func TestHelp(t *testing.T) {
	color.Enabled = false
	var ran []string
	root := newTree(&ran)
	p, err := parseHelp(root, []string{"-v", "leaf", "file"})
	require.NoError(t, err)
	require.Len(t, p, 2)

	var b bytes.Buffer
	displayHelp(&b, p, false)
	out := b.String()
	assert.Contains(t, out, "NAME\n    leaf - a leaf\n")
	assert.Contains(t, out, `-n a number (default "1")`)
	assert.Contains(t, out, "[tool flags]")
	assert.Contains(t, out, "The leaf command records its arguments.")

	b.Reset()
	p, err = search(root, nil, true)
	require.NoError(t, err)
	displayHelp(&b, p, false)
	assert.Contains(t, b.String(), "leaf - a leaf")
	assert.NotContains(t, b.String(), "secret")

	_, err = search(root, []string{"leaf", "nosuch"}, true)
	assert.EqualError(t, err, "no such command: leaf nosuch")
}
