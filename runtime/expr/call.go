package expr

import (
	"github.com/brimdata/zscript"
)

// Function is the runtime behavior of a Call node.  Call receives the
// values of the node's children in order, so the receiver of a method-style
// call, if any, is args[0].
type Function interface {
	Call(ectx *Context, args []any) (any, error)
	// ResultType infers the result type from the static types of the
	// children.  It returns nil if the type is unknown.
	ResultType(args []zscript.Type) zscript.Type
}

// Impure is implemented by functions whose result depends on state other
// than their arguments.  Calls to such functions are never folded.
type Impure interface {
	Impure() bool
}

// Call is the generic node for an operation whose children are all
// evaluated eagerly before the operation runs.
type Call struct {
	node
	token string
	fn    Function
}

var _ Evaluator = (*Call)(nil)

func NewCall(token string, fn Function, self Evaluator, args []Evaluator) *Call {
	return &Call{node: newNode(self, args), token: token, fn: fn}
}

func (c *Call) Token() string      { return c.token }
func (c *Call) Function() Function { return c.fn }
func (c *Call) Type() zscript.Type { return c.fn.ResultType(childTypes(c.children)) }

func (c *Call) SideEffectFree() bool {
	if f, ok := c.fn.(Impure); ok {
		return !f.Impure()
	}
	return true
}

func (c *Call) CanEvalAtCompileTime(args []any) bool {
	if f, ok := c.fn.(CompileTimeEvaluator); ok {
		return f.CanEvalAtCompileTime(args)
	}
	return true
}

func (c *Call) Copy(children []Evaluator) Evaluator {
	self, args := c.split(children)
	return NewCall(c.token, c.fn, self, args)
}

func (c *Call) Eval(ectx *Context) (any, error) {
	args, err := EvalAll(ectx, c.children)
	if err != nil {
		return nil, err
	}
	return c.fn.Call(ectx, args)
}

// List evaluates its children into a list value.
type List struct {
	node
	zctx *zscript.Context
}

var _ Evaluator = (*List)(nil)

func NewList(zctx *zscript.Context, elems []Evaluator) *List {
	return &List{node: newNode(nil, elems), zctx: zctx}
}

func (*List) Token() string        { return "list" }
func (*List) SideEffectFree() bool { return true }

func (l *List) Type() zscript.Type {
	if len(l.children) == 0 {
		return l.zctx.LookupTypeList(nil)
	}
	var typ zscript.Type = zscript.TypeNull
	for _, child := range l.children {
		if typ = zscript.Unify(typ, child.Type()); typ == nil {
			return nil
		}
	}
	return l.zctx.LookupTypeList(typ)
}

func (l *List) Copy(children []Evaluator) Evaluator {
	return NewList(l.zctx, children)
}

func (l *List) Eval(ectx *Context) (any, error) {
	vals, err := EvalAll(ectx, l.children)
	if err != nil {
		return nil, err
	}
	return vals, nil
}
