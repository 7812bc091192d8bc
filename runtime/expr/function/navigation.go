package function

import (
	"fmt"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/compiler/ast"
	zse "github.com/brimdata/zscript/errors"
	"github.com/brimdata/zscript/method"
	"github.com/brimdata/zscript/runtime/expr"
)

// Invoke is the dynamic path of invoke.  The named function is resolved
// and built from the unevaluated arguments each time the node is
// evaluated, so it evaluates its arguments exactly as a direct call would.
// The function is unknown until then, so Invoke is never folded.
type Invoke struct {
	env  *method.Env
	name expr.Evaluator
	args []expr.Evaluator
}

var _ expr.Evaluator = (*Invoke)(nil)

func NewInvoke(env *method.Env, name expr.Evaluator, args []expr.Evaluator) *Invoke {
	return &Invoke{env: env, name: name, args: append([]expr.Evaluator(nil), args...)}
}

func (*Invoke) Token() string                { return "invoke" }
func (*Invoke) Self() (expr.Evaluator, bool) { return nil, false }
func (*Invoke) Type() zscript.Type           { return nil }
func (*Invoke) SideEffectFree() bool         { return false }

func (i *Invoke) Children() []expr.Evaluator {
	return append([]expr.Evaluator{i.name}, i.args...)
}

func (i *Invoke) Args() []expr.Evaluator {
	return i.Children()
}

func (i *Invoke) Copy(children []expr.Evaluator) expr.Evaluator {
	return NewInvoke(i.env, children[0], children[1:])
}

func (i *Invoke) Eval(ectx *expr.Context) (any, error) {
	val, err := i.name.Eval(ectx)
	if err != nil {
		return nil, err
	}
	name, ok := val.(string)
	if !ok {
		return nil, typeError("invoke", val)
	}
	b, err := lookup(i.env, name)
	if err != nil {
		return nil, err
	}
	e, err := method.Apply(i.env, ast.NewCall(name), name, b, nil, method.Positional(i.args...))
	if err != nil {
		return nil, err
	}
	return e.Eval(ectx)
}

// TypeOf returns the name of the type of its argument.
type TypeOf struct {
	zctx *zscript.Context
}

func newTypeOf(zctx *zscript.Context) expr.Function {
	return &TypeOf{zctx}
}

func (t *TypeOf) Call(_ *expr.Context, args []any) (any, error) {
	typ := zscript.TypeOf(t.zctx, args[0])
	if typ == nil {
		return "unknown", nil
	}
	return typ.String(), nil
}

func (*TypeOf) ResultType([]zscript.Type) zscript.Type {
	return zscript.TypeString
}

func buildNew(env *method.Env, src ast.Expr, args []expr.Evaluator) (expr.Evaluator, error) {
	val, err := method.Literal("new", "type", args[0])
	if err != nil {
		return nil, err
	}
	name, ok := val.(string)
	if !ok {
		return nil, &zse.Error{Kind: zse.Invalid, Func: "new", Arg: "type", Src: src, Err: fmt.Errorf("type name must be a string")}
	}
	typ := env.Zctx.LookupTypeDef(name)
	if typ == nil {
		return nil, &zse.Error{Kind: zse.Invalid, Func: "new", Arg: "type", Src: src, Err: fmt.Errorf("no such type %q", name)}
	}
	return expr.NewCall("new", &NewObject{typ}, nil, args), nil
}

// NewObject creates an object, optionally setting fields from a map of field
// names to values.  Every call creates a distinct object so NewObject is never
// evaluated at compile time.
type NewObject struct {
	typ *zscript.TypeObject
}

func (n *NewObject) Call(_ *expr.Context, args []any) (any, error) {
	obj := zscript.NewObject(n.typ)
	switch fields := args[1].(type) {
	case nil:
	case zscript.Map:
		for k, v := range fields {
			name, ok := k.(string)
			if !ok {
				return nil, typeError("new", k)
			}
			if err := obj.Set(name, v); err != nil {
				return nil, &zse.Error{Func: "new", Err: err}
			}
		}
	default:
		return nil, typeError("new", args[1])
	}
	return obj, nil
}

func (n *NewObject) ResultType([]zscript.Type) zscript.Type { return n.typ }
func (*NewObject) Impure() bool                             { return true }
