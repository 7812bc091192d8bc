// Package method resolves function names to the builders that construct
// expression nodes.  A Builder declares the shape of its parameters with a
// Descriptor, which unifies the positional and named arguments of a call
// site into canonical positional form before the builder runs.
//
// Builders are found through a Resolver.  A Registry holds builders
// registered explicitly while the reflective resolver (see Reflected)
// exposes the exported methods of registered host libraries.
package method

import (
	"sort"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/brimdata/zscript"
	zse "github.com/brimdata/zscript/errors"
	"github.com/brimdata/zscript/runtime/expr"
)

// Param is a parameter slot of a Descriptor.
type Param struct {
	Name string
	// Default returns the expression for a missing argument.  It is called
	// once per call site that omits the argument.  A nil Default makes the
	// parameter mandatory.
	Default func() expr.Evaluator
	// Type and Doc are documentation only.
	Type string
	Doc  string
}

func (p Param) Mandatory() bool {
	return p.Default == nil
}

func Required(name string) Param {
	return Param{Name: name}
}

func Optional(name string, def func() expr.Evaluator) Param {
	return Param{Name: name, Default: def}
}

// WithDefault returns an optional parameter whose default is the literal
// val, which must be a primitive value.
func WithDefault(name string, val any) Param {
	typ := primitiveType(val)
	p := Param{
		Name: name,
		Default: func() expr.Evaluator {
			return expr.NewTypedLiteral(val, typ)
		},
	}
	if typ != nil && typ != zscript.TypeNull {
		p.Type = typ.String()
	}
	return p
}

func primitiveType(val any) zscript.Type {
	switch val.(type) {
	case nil, bool, int64, float64, string, time.Time:
		return zscript.TypeOf(nil, val)
	}
	return nil
}

// Argument is a call-site argument.  An empty Name means the argument is
// positional.
type Argument struct {
	Name  string
	Value expr.Evaluator
}

// Positional returns an unnamed Argument for each expression.
func Positional(exprs ...expr.Evaluator) []Argument {
	args := make([]Argument, 0, len(exprs))
	for _, e := range exprs {
		args = append(args, Argument{Value: e})
	}
	return args
}

// Descriptor is the immutable parameter shape of a function.  A bounded
// descriptor declares ordered parameter slots.  An unbounded descriptor
// accepts any number (at least a minimum) of positional arguments and no
// named ones.
type Descriptor struct {
	params    []Param
	lut       map[string]int
	unbounded bool
	min       int
	receiver  bool
}

// AcceptAny is the descriptor of builders that declare none.
var AcceptAny = Variadic(0)

func NewDescriptor(params ...Param) *Descriptor {
	lut := make(map[string]int, len(params))
	for k, p := range params {
		if _, ok := lut[p.Name]; ok {
			panic("method: duplicate parameter name " + p.Name)
		}
		lut[p.Name] = k
	}
	return &Descriptor{params: append([]Param(nil), params...), lut: lut}
}

// Method is like NewDescriptor but the first parameter may also be
// supplied as the receiver of a method-style call, e.g., xs.map(f).
func Method(params ...Param) *Descriptor {
	d := NewDescriptor(params...)
	d.receiver = len(params) > 0
	return d
}

// Variadic returns an unbounded descriptor requiring at least min
// arguments.
func Variadic(min int) *Descriptor {
	return &Descriptor{unbounded: true, min: min}
}

// VariadicMethod is like Variadic but the receiver of a method-style call
// becomes the first argument.
func VariadicMethod(min int) *Descriptor {
	return &Descriptor{unbounded: true, min: min, receiver: true}
}

func (d *Descriptor) Params() []Param {
	return d.params
}

func (d *Descriptor) Unbounded() bool {
	return d.unbounded
}

// Receiver returns true if the receiver of a method-style call is passed
// as the first argument.
func (d *Descriptor) Receiver() bool {
	return d.receiver
}

// Names returns the parameter names in declared order.
func (d *Descriptor) Names() []string {
	names := make([]string, 0, len(d.params))
	for _, p := range d.params {
		names = append(names, p.Name)
	}
	return names
}

// Unwrap unifies the arguments of a call to the function fn into
// canonical positional form.  On success, the result has exactly one
// expression per declared parameter, or one per argument if d is
// unbounded.
func (d *Descriptor) Unwrap(fn string, args []Argument) ([]expr.Evaluator, error) {
	if d.unbounded {
		return d.unwrapUnbounded(fn, args)
	}
	var npos int
	for _, arg := range args {
		if arg.Name == "" {
			npos++
		}
	}
	out := make([]expr.Evaluator, len(d.params))
	var named bool
	var pos int
	for _, arg := range args {
		if arg.Name == "" {
			if named {
				return nil, &zse.Error{Kind: zse.PositionalAfterNamed, Func: fn}
			}
			if pos >= len(d.params) {
				return nil, &zse.Error{Kind: zse.TooManyArguments, Func: fn, Expected: len(d.params), Actual: npos}
			}
			out[pos] = arg.Value
			pos++
			continue
		}
		named = true
		k, ok := d.lut[arg.Name]
		if !ok {
			if len(d.params) == 0 {
				return nil, &zse.Error{Kind: zse.NoNamedArguments, Func: fn, Arg: arg.Name}
			}
			names := d.Names()
			return nil, &zse.Error{
				Kind:  zse.UnknownArgument,
				Func:  fn,
				Arg:   arg.Name,
				Legal: names,
				Hint:  Suggest(arg.Name, names),
			}
		}
		if out[k] != nil {
			return nil, &zse.Error{Kind: zse.AmbiguousArgument, Func: fn, Arg: arg.Name}
		}
		out[k] = arg.Value
	}
	for k, p := range d.params {
		if out[k] != nil {
			continue
		}
		if p.Default == nil {
			return nil, &zse.Error{Kind: zse.MissingArgument, Func: fn, Arg: p.Name, Expected: len(d.params), Actual: len(args)}
		}
		out[k] = p.Default()
	}
	return out, nil
}

func (d *Descriptor) unwrapUnbounded(fn string, args []Argument) ([]expr.Evaluator, error) {
	out := make([]expr.Evaluator, 0, len(args))
	for _, arg := range args {
		if arg.Name != "" {
			return nil, &zse.Error{Kind: zse.NoNamedArguments, Func: fn, Arg: arg.Name}
		}
		out = append(out, arg.Value)
	}
	if len(out) < d.min {
		return nil, &zse.Error{Kind: zse.TooFewArguments, Func: fn, Expected: d.min, Actual: len(out)}
	}
	return out, nil
}

// Suggest returns the candidate closest to name in edit distance or ""
// if none is close enough to be a plausible misspelling.
func Suggest(name string, candidates []string) string {
	best, bestDist := "", len(name)/2+1
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	for _, c := range sorted {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
