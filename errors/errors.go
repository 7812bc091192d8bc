// Package zse provides the structured errors returned by the zscript
// compiler and runtime.  An Error carries a Kind plus the positional
// placeholders (function name, argument name, expected and actual counts,
// legal names, offending value) needed to render it through an external
// message catalog.  Error() renders the built-in English template.
package zse

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// A Kind represents a class of error.  Kinds that return true from
// IsCompile are raised while building an expression tree; the others
// are raised during evaluation or at startup.
type Kind int

const (
	Other Kind = iota
	TooFewArguments
	TooManyArguments
	MissingArgument
	UnknownArgument
	NoNamedArguments
	PositionalAfterNamed
	AmbiguousArgument
	NotLiteral
	NoSuchFunction
	NoSuchVariable
	Invalid
	Ambiguous
	Conversion
	Type
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other error"
	case TooFewArguments:
		return "too few arguments"
	case TooManyArguments:
		return "too many arguments"
	case MissingArgument:
		return "mandatory argument missing"
	case UnknownArgument:
		return "unknown argument"
	case NoNamedArguments:
		return "function accepts no named arguments"
	case PositionalAfterNamed:
		return "positional arguments must precede named arguments"
	case AmbiguousArgument:
		return "ambiguous argument"
	case NotLiteral:
		return "argument must be a literal"
	case NoSuchFunction:
		return "no such function"
	case NoSuchVariable:
		return "no such variable"
	case Invalid:
		return "invalid expression"
	case Ambiguous:
		return "ambiguous function registration"
	case Conversion:
		return "argument conversion failed"
	case Type:
		return "incompatible type"
	}
	return "unknown error kind"
}

// Template returns the English message template for the kind.  The
// template refers to the placeholders returned by Error.Placeholders
// by position: 1 function, 2 argument, 3 expected count, 4 actual count,
// 5 legal names, 6 value.
func (k Kind) Template() string {
	switch k {
	case TooFewArguments:
		return "%[1]s(): too few arguments (expected %[3]d, got %[4]d)"
	case TooManyArguments:
		return "%[1]s(): too many arguments (expected %[3]d, got %[4]d)"
	case MissingArgument:
		return "%[1]s(): mandatory argument missing: %[2]s"
	case UnknownArgument:
		return "%[1]s(): unknown argument %[2]q (legal names: %[5]s)"
	case NoNamedArguments:
		return "%[1]s(): function accepts no named arguments (got %[2]q)"
	case PositionalAfterNamed:
		return "%[1]s(): positional arguments must precede named arguments"
	case AmbiguousArgument:
		return "%[1]s(): ambiguous argument %[2]q"
	case NotLiteral:
		return "%[1]s(): argument %[2]q must be a literal"
	case NoSuchFunction:
		return "%[1]s(): no such function"
	case NoSuchVariable:
		return "%[2]s: no such variable"
	case Ambiguous:
		return "%[1]s(): ambiguous function registration"
	case Conversion:
		return "%[1]s(): argument %[2]q: cannot convert %[6]s"
	case Type:
		return "%[1]s(): incompatible value %[6]s"
	}
	return "%[1]s: " + k.String()
}

func (k Kind) IsCompile() bool {
	return k >= TooFewArguments && k <= Invalid
}

type Error struct {
	Kind     Kind
	Func     string
	Arg      string
	Expected int
	Actual   int
	Legal    []string
	Value    string
	// Hint is an optional suggestion such as a similarly named function.
	Hint string
	// Src is the offending sub-expression, if known.
	Src any
	Err error
}

// Placeholders returns the positional arguments of the kind's template.
func (e *Error) Placeholders() []any {
	return []any{e.Func, e.Arg, e.Expected, e.Actual, strings.Join(e.Legal, ", "), e.Value}
}

func (e *Error) Error() string {
	var b strings.Builder
	switch {
	case e.Kind == Other:
		if e.Func != "" {
			b.WriteString(e.Func)
			b.WriteString(": ")
		}
	case e.Func == "" && e.Arg == "":
		b.WriteString(e.Kind.String())
	default:
		fmt.Fprintf(&b, e.Kind.Template(), e.Placeholders()...)
	}
	if e.Hint != "" {
		fmt.Fprintf(&b, " (did you mean %q?)", e.Hint)
	}
	if e.Err != nil {
		if b.Len() != 0 && e.Kind != Other {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	if b.Len() == 0 {
		return "no error"
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns just the Err.Error() string, if present, or the Kind
// string description.
func (e *Error) Message() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

// KindOf returns the Kind of the first *Error in err's chain or Other.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Function E generates an error from any mix of:
//   - a Kind
//   - an existing error
//   - a string and optional formatting verbs, like fmt.Errorf (including support
//     for the `%w` verb).
//
// The string & format verbs must be last in the arguments, if present.
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("no args to zse.E")
	}
	e := &Error{}
	for i, arg := range args {
		switch arg := arg.(type) {
		case Kind:
			e.Kind = arg
		case error:
			e.Err = arg
		case string:
			e.Err = fmt.Errorf(arg, args[i+1:]...)
			return e
		default:
			_, file, line, _ := runtime.Caller(1)
			return fmt.Errorf("unknown type %T value %v in zse.E call at %v:%v", arg, arg, file, line)
		}
	}
	return e
}
