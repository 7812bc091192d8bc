package expr

import (
	"github.com/brimdata/zscript"
	zse "github.com/brimdata/zscript/errors"
)

// Evaluator is a node of a compiled expression tree.  Trees are immutable
// once built and may be evaluated concurrently as long as each evaluation
// uses its own Context.
type Evaluator interface {
	// Token identifies the operation for tree rewriting and serialization.
	Token() string
	// Children returns the receiver, if any, followed by the arguments.
	Children() []Evaluator
	Self() (Evaluator, bool)
	Args() []Evaluator
	// Type returns the inferred static type of the result or nil if unknown.
	Type() zscript.Type
	Eval(*Context) (any, error)
	// SideEffectFree is false for nodes whose result depends on mutable
	// external state.  Such nodes are never folded.
	SideEffectFree() bool
	// Copy returns a node of the same kind with the given children.
	Copy(children []Evaluator) Evaluator
}

// CompileTimeEvaluator is implemented by nodes that restrict constant
// folding beyond SideEffectFree.  The argument values are those of the
// already folded children.
type CompileTimeEvaluator interface {
	CanEvalAtCompileTime(args []any) bool
}

// CanFold returns true if e is side-effect free, all of its children are
// literals, and e accepts evaluation at compile time for those values.
func CanFold(e Evaluator) bool {
	if _, ok := e.(*Literal); ok || !e.SideEffectFree() {
		return false
	}
	children := e.Children()
	vals := make([]any, 0, len(children))
	for _, child := range children {
		lit, ok := child.(*Literal)
		if !ok {
			return false
		}
		vals = append(vals, lit.Value())
	}
	if c, ok := e.(CompileTimeEvaluator); ok {
		return c.CanEvalAtCompileTime(vals)
	}
	return true
}

// node holds the children of a node and implements the accessors of
// Evaluator that derive from them.
type node struct {
	children []Evaluator
	hasSelf  bool
}

func newNode(self Evaluator, args []Evaluator) node {
	if self == nil {
		return node{children: append([]Evaluator(nil), args...)}
	}
	children := make([]Evaluator, 0, len(args)+1)
	children = append(children, self)
	return node{children: append(children, args...), hasSelf: true}
}

func (n *node) Children() []Evaluator {
	return n.children
}

func (n *node) Self() (Evaluator, bool) {
	if n.hasSelf {
		return n.children[0], true
	}
	return nil, false
}

func (n *node) Args() []Evaluator {
	if n.hasSelf {
		return n.children[1:]
	}
	return n.children
}

// split is the inverse of Children for a replacement set of children.
func (n *node) split(children []Evaluator) (Evaluator, []Evaluator) {
	if n.hasSelf {
		return children[0], children[1:]
	}
	return nil, children
}

func childTypes(children []Evaluator) []zscript.Type {
	types := make([]zscript.Type, 0, len(children))
	for _, child := range children {
		types = append(types, child.Type())
	}
	return types
}

// EvalAll evaluates exprs in order, stopping at the first error.
func EvalAll(ectx *Context, exprs []Evaluator) ([]any, error) {
	vals := make([]any, 0, len(exprs))
	for _, e := range exprs {
		val, err := e.Eval(ectx)
		if err != nil {
			return nil, err
		}
		vals = append(vals, val)
	}
	return vals, nil
}

// EvalBool evaluates e and requires a Boolean result.
func EvalBool(ectx *Context, e Evaluator, op string) (bool, error) {
	val, err := e.Eval(ectx)
	if err != nil {
		return false, err
	}
	b, ok := val.(bool)
	if !ok {
		return false, &zse.Error{Kind: zse.Type, Func: op, Value: zscript.FormatValue(val)}
	}
	return b, nil
}
