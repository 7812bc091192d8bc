// Package optimizer rewrites expression trees before evaluation.
package optimizer

import (
	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/runtime/expr"
)

// Fold replaces each subtree of e that can be evaluated at compile time
// with a literal of its value and each conditional whose predicate is a
// literal with the chosen branch.  It returns the new tree and the number
// of replacements.  A subtree whose evaluation fails is kept so that the
// error surfaces at run time.
func Fold(zctx *zscript.Context, e expr.Evaluator) (expr.Evaluator, int) {
	f := folder{zctx: zctx}
	return f.fold(e), f.count
}

type folder struct {
	zctx  *zscript.Context
	count int
}

func (f *folder) fold(e expr.Evaluator) expr.Evaluator {
	children := e.Children()
	if len(children) > 0 {
		folded := make([]expr.Evaluator, 0, len(children))
		changed := false
		for _, child := range children {
			c := f.fold(child)
			changed = changed || c != child
			folded = append(folded, c)
		}
		if changed {
			e = e.Copy(folded)
		}
	}
	if cond, ok := e.(*expr.Conditional); ok {
		pred, then, els := cond.Branches()
		if val, ok := expr.IsLiteral(pred); ok {
			if b, ok := val.(bool); ok {
				f.count++
				if b {
					return then
				}
				return els
			}
		}
	}
	if !expr.CanFold(e) {
		return e
	}
	val, err := e.Eval(expr.NewContext())
	if err != nil {
		return e
	}
	f.count++
	if typ := e.Type(); typ != nil {
		return expr.NewTypedLiteral(val, typ)
	}
	return expr.NewLiteral(f.zctx, val)
}
