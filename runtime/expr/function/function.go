// Package function implements the builtin functions of zscript and
// registers them with a method.Registry.
package function

import (
	"errors"
	"fmt"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/compiler/ast"
	zse "github.com/brimdata/zscript/errors"
	"github.com/brimdata/zscript/method"
	"github.com/brimdata/zscript/runtime/expr"
)

var (
	ErrDivideByZero = errors.New("divide by zero")
	ErrNotFunction  = errors.New("not a function")
)

// builtin builds an expr.Call of a fresh instance of its function.
type builtin struct {
	name string
	desc *method.Descriptor
	doc  *method.Doc
	init func(zctx *zscript.Context) expr.Function
}

var (
	_ method.Builder    = (*builtin)(nil)
	_ method.Documenter = (*builtin)(nil)
)

func (b *builtin) Descriptor() *method.Descriptor { return b.desc }
func (b *builtin) Doc() *method.Doc               { return b.doc }

func (b *builtin) Build(env *method.Env, src ast.Expr, self expr.Evaluator, args []expr.Evaluator) (expr.Evaluator, error) {
	if self != nil {
		return nil, &zse.Error{Kind: zse.Invalid, Func: b.name, Src: src, Err: fmt.Errorf("%s takes no receiver", b.name)}
	}
	return expr.NewCall(b.name, b.init(env.Zctx), nil, args), nil
}

func fn(name, label string, desc *method.Descriptor, init func(*zscript.Context) expr.Function) *builtin {
	return &builtin{name: name, desc: desc, doc: &method.Doc{Label: label}, init: init}
}

// node returns a Builder for a function that builds its own node.
func node(label string, desc *method.Descriptor, build func(env *method.Env, src ast.Expr, args []expr.Evaluator) (expr.Evaluator, error)) *method.Func {
	return &method.Func{
		Desc:          desc,
		Documentation: &method.Doc{Label: label},
		BuildFn: func(env *method.Env, src ast.Expr, self expr.Evaluator, args []expr.Evaluator) (expr.Evaluator, error) {
			if self != nil {
				name := ast.FuncName(src)
				return nil, &zse.Error{Kind: zse.Invalid, Func: name, Src: src, Err: fmt.Errorf("%s takes no receiver", name)}
			}
			return build(env, src, args)
		},
	}
}

func stateless(f expr.Function) func(*zscript.Context) expr.Function {
	return func(*zscript.Context) expr.Function { return f }
}

// New returns a registry holding the builtin functions.
func New() *method.Registry {
	r := method.NewRegistry()
	x := method.Required("x")
	xs := method.Required("xs")
	f := method.Required("f")
	ab := method.Method(method.Required("a"), method.Required("b"))
	for _, b := range []*builtin{
		fn("add", "Sum of two numbers", ab, stateless(&Arith{"add", opAdd})),
		fn("sub", "Difference of two numbers", ab, stateless(&Arith{"sub", opSub})),
		fn("mul", "Product of two numbers", ab, stateless(&Arith{"mul", opMul})),
		fn("div", "Quotient of two numbers", ab, stateless(&Arith{"div", opDiv})),
		fn("mod", "Remainder of two numbers", ab, stateless(&Arith{"mod", opMod})),
		fn("neg", "Negation of a number", method.Method(x), stateless(&Neg{})),
		fn("min", "Smallest of the non-null arguments", method.VariadicMethod(1), stateless(&Reducer{"min", opMin})),
		fn("max", "Largest of the non-null arguments", method.VariadicMethod(1), stateless(&Reducer{"max", opMax})),
		fn("eq", "Equality", ab, stateless(&Compare{"eq"})),
		fn("ne", "Inequality", ab, stateless(&Compare{"ne"})),
		fn("lt", "Less than", ab, stateless(&Compare{"lt"})),
		fn("le", "Less than or equal", ab, stateless(&Compare{"le"})),
		fn("gt", "Greater than", ab, stateless(&Compare{"gt"})),
		fn("ge", "Greater than or equal", ab, stateless(&Compare{"ge"})),
		fn("not", "Logical negation", method.Method(x), stateless(&Not{})),
		fn("concat", "Concatenation of strings or of lists", method.VariadicMethod(0), stateless(&Concat{})),
		fn("len", "Length of a string or a collection", method.Method(x), stateless(&Len{})),
		fn("upper", "Upper case of a string", method.Method(method.Required("s")), stateless(&Case{"upper"})),
		fn("lower", "Lower case of a string", method.Method(method.Required("s")), stateless(&Case{"lower"})),
		fn("count", "List of n consecutive integers", method.Method(method.Required("n"), method.WithDefault("from", int64(0))), newCount),
		fn("set", "Set of the arguments", method.Variadic(0), newSetOf),
		fn("mapOf", "Map of alternating keys and values", method.Variadic(0), newMapOf),
		fn("size", "Number of elements of a collection", method.Method(x), stateless(&Size{})),
		fn("map", "Apply f to each element", method.Method(xs, f), newMap),
		fn("flatMap", "Apply f to each element and splice nested results", method.Method(xs, f), newFlatMap),
		fn("foreach", "Call f for each element and return xs", method.Method(xs, f), stateless(&Foreach{})),
		fn("filter", "Elements for which f is true", method.Method(xs, f), stateless(&Filter{})),
		fn("sort", "Stable sort, optionally by key", method.Method(xs, method.WithDefault("key", nil)), stateless(&Sort{})),
		fn("transpose", "Columns of a list of rows", method.Method(method.Required("rows"), method.WithDefault("combiner", nil)), newTranspose),
		fn("typeof", "Name of the type of a value", method.Method(x), newTypeOf),
		fn("copy", "Deep copy of a value graph", method.Method(method.Required("root"), method.WithDefault("filter", nil), method.WithDefault("construct", nil)), stateless(&Copy{})),
		fn("now", "Current time", method.NewDescriptor(), stateless(&Now{})),
		fn("random", "Random number in [0,1)", method.NewDescriptor(), stateless(&Random{})),
	} {
		r.MustRegister(b.name, b)
	}
	r.MustRegister("if", node("Conditional", method.Method(method.Required("cond"), method.Required("then"), method.WithDefault("else", nil)), buildIf))
	r.MustRegister("and", node("Short-circuit conjunction", ab, buildAnd))
	r.MustRegister("or", node("Short-circuit disjunction", ab, buildOr))
	r.MustRegister("default", node("Value unless null, else fallback", method.Method(method.Required("value"), method.Required("fallback")), buildDefault))
	r.MustRegister("list", node("List of the arguments", method.VariadicMethod(0), buildList))
	r.MustRegister("get", node("Element of an object, map, or list", method.Method(method.Required("object"), method.Required("field")), buildGet))
	r.MustRegister("invoke", node("Call a function by name", method.Variadic(1), buildInvoke))
	r.MustRegister("new", node("New object of a named type", method.NewDescriptor(method.Required("type"), method.WithDefault("fields", nil)), buildNew))
	return r
}

func typeError(fn string, val any) error {
	return &zse.Error{Kind: zse.Type, Func: fn, Value: zscript.FormatValue(val)}
}

func toFunction(fn string, val any) (zscript.Function, error) {
	f, ok := val.(zscript.Function)
	if !ok {
		return nil, &zse.Error{Kind: zse.Type, Func: fn, Value: zscript.FormatValue(val), Err: ErrNotFunction}
	}
	return f, nil
}

// optionalFunction is like toFunction but a null value is no function.
func optionalFunction(fn string, val any) (zscript.Function, error) {
	if val == nil {
		return nil, nil
	}
	return toFunction(fn, val)
}
