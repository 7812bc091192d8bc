package ast

import "github.com/brimdata/zscript"

// The constructors below build call trees from Go code.  They fill in the
// Kind fields so that the resulting trees serialize exactly as decoded ones.

func NewCall(name string, args ...Arg) *Call {
	return &Call{Kind: "Call", Name: name, Args: args}
}

// NewMethod builds a method-style call whose receiver is self.
func NewMethod(self Expr, name string, args ...Arg) *Call {
	return &Call{Kind: "Call", Name: name, Self: self, Args: args}
}

// Pos returns a positional argument.
func Pos(e Expr) Arg {
	return Arg{Value: e}
}

// Named returns a named argument.
func Named(name string, e Expr) Arg {
	return Arg{Name: name, Value: e}
}

// Args returns positional arguments for each expression.
func Args(exprs ...Expr) []Arg {
	args := make([]Arg, 0, len(exprs))
	for _, e := range exprs {
		args = append(args, Pos(e))
	}
	return args
}

// Lit returns a literal for a primitive Go value.  Go ints are
// formatted as int64 literals.
func Lit(val any) *Literal {
	switch v := val.(type) {
	case int:
		val = int64(v)
	}
	return &Literal{Kind: "Literal", Value: zscript.FormatValue(val)}
}

func NewIdent(name string) *Ident {
	return &Ident{Kind: "Ident", Name: name}
}

func NewLambda(param string, body Expr) *Lambda {
	return &Lambda{Kind: "Lambda", Param: param, Body: body}
}

func NewLet(name string, value, body Expr) *Let {
	return &Let{Kind: "Let", Name: name, Value: value, Body: body}
}

func NewApply(fn, arg Expr) *Apply {
	return &Apply{Kind: "Apply", Func: fn, Arg: arg}
}

func NewConditional(cond, then, els Expr) *Conditional {
	return &Conditional{Kind: "Conditional", Cond: cond, Then: then, Else: els}
}

func NewList(elems ...Expr) *List {
	return &List{Kind: "List", Elems: elems}
}

// FuncName returns the function name of a call tree node, or a short
// description of other nodes, for use in diagnostics.
func FuncName(e Expr) string {
	switch e := e.(type) {
	case *Call:
		return e.Name
	case *Lambda:
		return "lambda"
	case *Let:
		return "let"
	case *Apply:
		return "apply"
	case *Conditional:
		return "if"
	case *List:
		return "list"
	case *Ident:
		return e.Name
	case *Literal:
		return e.Value
	}
	return "?"
}
