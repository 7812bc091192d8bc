// Package coerce converts, compares, and orders dynamic runtime values.
package coerce

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/brimdata/zscript"
	"golang.org/x/exp/constraints"
)

var ErrIncompatibleTypes = errors.New("incompatible types")

func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if IsNumber(a) && IsNumber(b) {
		if ai, ok := a.(int64); ok {
			if bi, ok := b.(int64); ok {
				return ai == bi
			}
		}
		af, _ := ToFloat(a)
		bf, _ := ToFloat(b)
		return af == bf
	}
	switch a := a.(type) {
	case bool, string:
		return a == b
	case time.Time:
		bt, ok := b.(time.Time)
		return ok && a.Equal(bt)
	case []any:
		bl, ok := b.([]any)
		return ok && equalElems(a, bl)
	case zscript.Set:
		bs, ok := b.(zscript.Set)
		return ok && equalElems(a, bs)
	case zscript.Map:
		bm, ok := b.(zscript.Map)
		if !ok || len(a) != len(bm) {
			return false
		}
		for k, v := range a {
			bv, ok := bm[k]
			if !ok || !Equal(v, bv) {
				return false
			}
		}
		return true
	case *zscript.Object:
		// Objects have identity.
		bo, ok := b.(*zscript.Object)
		return ok && a == bo
	}
	return false
}

func equalElems(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !Equal(a[k], b[k]) {
			return false
		}
	}
	return true
}

func IsNumber(val any) bool {
	switch val.(type) {
	case int64, float64:
		return true
	}
	return false
}

func ToNumeric[T constraints.Integer | constraints.Float](val any) T {
	switch val := val.(type) {
	case int64:
		return T(val)
	case float64:
		return T(val)
	}
	return 0
}

func ToFloat(val any) (float64, bool) {
	switch val := val.(type) {
	case int64:
		return float64(val), true
	case float64:
		return val, true
	case string:
		v, err := strconv.ParseFloat(val, 64)
		return v, err == nil
	}
	return 0, false
}

func ToInt(val any) (int64, bool) {
	switch val := val.(type) {
	case int64:
		return val, true
	case float64:
		return int64(val), true
	case string:
		v, err := strconv.ParseInt(val, 10, 64)
		return v, err == nil
	}
	return 0, false
}

func ToBool(val any) (bool, bool) {
	switch val := val.(type) {
	case bool:
		return val, true
	case string:
		v, err := strconv.ParseBool(val)
		return v, err == nil
	}
	v, ok := ToInt(val)
	return v != 0, ok
}

// Compare orders a and b.  Null sorts before everything, numbers compare
// numerically, and values of unrelated kinds are ordered by kind so that
// sorting a heterogeneous list is deterministic.
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch a := a.(type) {
	case nil:
		return 0
	case bool:
		bb := b.(bool)
		switch {
		case a == bb:
			return 0
		case !a:
			return -1
		}
		return 1
	case int64, float64:
		if ai, ok := a.(int64); ok {
			if bi, ok := b.(int64); ok {
				return cmp(ai, bi)
			}
		}
		af, _ := ToFloat(a)
		bf, _ := ToFloat(b)
		return cmp(af, bf)
	case string:
		return strings.Compare(a, b.(string))
	case time.Time:
		return a.Compare(b.(time.Time))
	case []any:
		return compareElems(a, b.([]any))
	case zscript.Set:
		return compareElems(a, b.(zscript.Set))
	}
	return strings.Compare(zscript.FormatValue(a), zscript.FormatValue(b))
}

func cmp[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareElems(a, b []any) int {
	for k := 0; k < len(a) && k < len(b); k++ {
		if c := Compare(a[k], b[k]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

func rank(val any) int {
	switch val.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case int64, float64:
		return 2
	case string:
		return 3
	case time.Time:
		return 4
	case []any:
		return 5
	case zscript.Set:
		return 6
	case zscript.Map:
		return 7
	case *zscript.Object:
		return 8
	}
	return 9
}
