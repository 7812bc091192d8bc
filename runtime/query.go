// Package runtime compiles and evaluates call trees against the builtin
// functions, the host libraries, and any declared functions.
package runtime

import (
	"fmt"
	"io"
	"sort"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/compiler"
	"github.com/brimdata/zscript/compiler/ast"
	"github.com/brimdata/zscript/method"
	_ "github.com/brimdata/zscript/method/library"
	"github.com/brimdata/zscript/runtime/expr"
	"github.com/brimdata/zscript/runtime/expr/function"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultCacheSize = 256

type Runtime struct {
	rctx     *Context
	compiler *compiler.Compiler
	cache    *compiler.Cache
	evals    *prometheus.CounterVec
}

type Config struct {
	// Fold enables constant folding.
	Fold bool
	// CacheSize is the number of compiled trees kept for reuse.  Zero
	// means DefaultCacheSize.
	CacheSize int
	// Registerer receives the runtime's metrics.  If nil, the metrics are
	// not exported.
	Registerer prometheus.Registerer
}

// New returns a Runtime whose functions are the builtins and the methods
// of the libraries registered with method.RegisterLibrary.
func New(rctx *Context, conf Config) (*Runtime, error) {
	reflected, err := method.Reflected()
	if err != nil {
		return nil, fmt.Errorf("host libraries: %w", err)
	}
	resolver, err := method.Chain(function.New(), reflected)
	if err != nil {
		return nil, err
	}
	opts := []compiler.Option{compiler.WithLogger(rctx.Logger)}
	if conf.Fold {
		opts = append(opts, compiler.WithFolding())
	}
	c := compiler.New(rctx.Zctx, resolver, opts...)
	size := conf.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	registerer := conf.Registerer
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	cache, err := compiler.NewCache(c, size, registerer)
	if err != nil {
		return nil, err
	}
	evals := promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "zscript_evaluations_total",
			Help: "Number of query evaluations.",
		},
		[]string{"status"},
	)
	return &Runtime{rctx: rctx, compiler: c, cache: cache, evals: evals}, nil
}

func (r *Runtime) Context() *Context {
	return r.rctx
}

func (r *Runtime) Resolver() method.Resolver {
	return r.compiler.Resolver()
}

// LoadFunctions adds the functions declared in r to the runtime.
func (r *Runtime) LoadFunctions(reader io.Reader) error {
	reg, err := r.compiler.LoadFunctions(reader)
	if err != nil {
		return err
	}
	r.rctx.Logger.Info("Loaded functions", zap.Strings("names", reg.Names()))
	return nil
}

// Query is a compiled call tree together with the values of its free
// variables.
type Query struct {
	rctx  *Context
	evals *prometheus.CounterVec
	expr  expr.Evaluator
	vars  map[*expr.Var]any
}

// NewQuery compiles tree.  The keys of vars are the names of the free
// variables of tree.  Trees without free variables are compiled once and
// shared by later queries.
func (r *Runtime) NewQuery(tree ast.Expr, vars map[string]any) (*Query, error) {
	if len(vars) == 0 {
		e, err := r.cache.Compile(tree)
		if err != nil {
			return nil, err
		}
		return &Query{rctx: r.rctx, evals: r.evals, expr: e}, nil
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	scope := compiler.NewScope()
	bound := make(map[*expr.Var]any, len(vars))
	for _, name := range names {
		val := vars[name]
		bound[scope.Bind(name, zscript.TypeOf(r.rctx.Zctx, val))] = val
	}
	e, err := r.compiler.CompileIn(scope, tree)
	if err != nil {
		return nil, err
	}
	if unused := scope.Unused(); len(unused) > 0 {
		sort.Strings(unused)
		r.rctx.Logger.Debug("Unused variables", zap.Strings("names", unused))
	}
	return &Query{rctx: r.rctx, evals: r.evals, expr: e, vars: bound}, nil
}

func (q *Query) Expr() expr.Evaluator {
	return q.expr
}

func (q *Query) Eval() (any, error) {
	if err := q.rctx.Err(); err != nil {
		return nil, err
	}
	ectx := expr.NewContext()
	for v, val := range q.vars {
		ectx.Define(v, val)
	}
	val, err := q.expr.Eval(ectx)
	if err != nil {
		q.evals.WithLabelValues("error").Inc()
		return nil, err
	}
	q.evals.WithLabelValues("ok").Inc()
	return val, nil
}

// EvalAll evaluates queries concurrently, at most limit at a time, and
// returns their results in order.  A limit less than one means no limit.
// The first error cancels the queries not yet started.
func EvalAll(rctx *Context, queries []*Query, limit int) ([]any, error) {
	results := make([]any, len(queries))
	g, ctx := errgroup.WithContext(rctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for k, q := range queries {
		k, q := k, q
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			val, err := q.Eval()
			if err != nil {
				return err
			}
			results[k] = val
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
