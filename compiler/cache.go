package compiler

import (
	"encoding/json"

	"github.com/brimdata/zscript/compiler/ast"
	"github.com/brimdata/zscript/runtime/expr"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Cache memoizes the trees compiled by a Compiler.  Call trees are keyed by
// their JSON serialization so equal trees share one compiled tree.  A
// Cache is safe for concurrent use.
type Cache struct {
	compiler *Compiler
	lru      *lru.Cache[string, expr.Evaluator]
	hits     prometheus.Counter
	misses   prometheus.Counter
}

// NewCache returns a Cache holding up to size trees.  The hit and miss
// counters are registered with registerer, which may be nil.
func NewCache(c *Compiler, size int, registerer prometheus.Registerer) (*Cache, error) {
	l, err := lru.New[string, expr.Evaluator](size)
	if err != nil {
		return nil, err
	}
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	factory := promauto.With(registerer)
	return &Cache{
		compiler: c,
		lru:      l,
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "zscript_compile_cache_hits_total",
			Help: "Number of compiled trees found in the cache.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "zscript_compile_cache_misses_total",
			Help: "Number of trees compiled on a cache miss.",
		}),
	}, nil
}

func (c *Cache) Compile(e ast.Expr) (expr.Evaluator, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	key := string(b)
	if ev, ok := c.lru.Get(key); ok {
		c.hits.Inc()
		return ev, nil
	}
	c.misses.Inc()
	ev, err := c.compiler.Compile(e)
	if err != nil {
		return nil, err
	}
	if c.lru.Add(key, ev) {
		c.compiler.logger.Debug("Compile cache eviction", zap.Int("size", c.lru.Len()))
	}
	return ev, nil
}

func (c *Cache) Len() int {
	return c.lru.Len()
}
