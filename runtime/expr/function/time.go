package function

import (
	"math/rand"
	"time"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/runtime/expr"
)

type Now struct{}

func (*Now) Call(*expr.Context, []any) (any, error) {
	return time.Now().UTC(), nil
}

func (*Now) ResultType([]zscript.Type) zscript.Type { return zscript.TypeTime }
func (*Now) Impure() bool                           { return true }

type Random struct{}

func (*Random) Call(*expr.Context, []any) (any, error) {
	return rand.Float64(), nil
}

func (*Random) ResultType([]zscript.Type) zscript.Type { return zscript.TypeFloat64 }
func (*Random) Impure() bool                           { return true }
