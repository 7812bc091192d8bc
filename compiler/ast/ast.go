// Package ast declares the types used to represent a parsed zscript call
// tree.  The tree is produced by an external parser, or decoded from its
// JSON or YAML serialization, and consumed by the compiler.
package ast

type Expr interface {
	ExprAST()
}

type (
	// Apply applies a function value to a single argument.
	Apply struct {
		Kind string `json:"kind" unpack:""`
		Func Expr   `json:"func"`
		Arg  Expr   `json:"arg"`
	}
	// Call invokes the function Name.  Self is the optional receiver of
	// a method-style call.
	Call struct {
		Kind string `json:"kind" unpack:""`
		Name string `json:"name"`
		Self Expr   `json:"self,omitempty"`
		Args []Arg  `json:"args"`
	}
	Conditional struct {
		Kind string `json:"kind" unpack:""`
		Cond Expr   `json:"cond"`
		Then Expr   `json:"then"`
		Else Expr   `json:"else"`
	}
	// Ident refers to a variable bound by an enclosing Lambda or Let.
	Ident struct {
		Kind string `json:"kind" unpack:""`
		Name string `json:"name"`
	}
	Lambda struct {
		Kind  string `json:"kind" unpack:""`
		Param string `json:"param"`
		Body  Expr   `json:"body"`
	}
	Let struct {
		Kind  string `json:"kind" unpack:""`
		Name  string `json:"name"`
		Value Expr   `json:"value"`
		Body  Expr   `json:"body"`
	}
	List struct {
		Kind  string `json:"kind" unpack:""`
		Elems []Expr `json:"elems"`
	}
	// Literal holds the text form of a primitive value, e.g., 1, 2.5,
	// "hello", true, or null.
	Literal struct {
		Kind  string `json:"kind" unpack:""`
		Value string `json:"value"`
	}
)

// Arg is a call-site argument.  An empty Name means the argument is
// positional.
type Arg struct {
	Name  string `json:"name,omitempty"`
	Value Expr   `json:"value"`
}

func (*Apply) ExprAST()       {}
func (*Call) ExprAST()        {}
func (*Conditional) ExprAST() {}
func (*Ident) ExprAST()       {}
func (*Lambda) ExprAST()      {}
func (*Let) ExprAST()         {}
func (*List) ExprAST()        {}
func (*Literal) ExprAST()     {}
