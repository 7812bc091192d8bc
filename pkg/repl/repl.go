// Package repl is a simple read-eval-print loop.  It calls the Consumer
// to do all the eval work.
package repl

import (
	"errors"
	"io"

	"github.com/peterh/liner"
)

type Consumer interface {
	// Consume handles one line of input and returns true when the loop
	// should stop.
	Consume(line string) bool
	Prompt() string
}

// Run executes the REPL until the Consumer asks to stop or the input ends.
func Run(c Consumer) error {
	l := liner.NewLiner()
	defer l.Close()
	l.SetMultiLineMode(true)
	l.SetCtrlCAborts(true)
	for {
		line, err := l.Prompt(c.Prompt())
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return err
		}
		if c.Consume(line) {
			return nil
		}
		l.AppendHistory(line)
	}
}
