package anymath

import "math"

type Float64 func(float64, float64) float64
type Int64 func(int64, int64) int64

type Function struct {
	Init
	Float64
	Int64
}

type Init struct {
	Float64 float64
	Int64   int64
}

var Min = &Function{
	Init: Init{math.MaxFloat64, math.MaxInt64},
	Float64: func(a, b float64) float64 {
		if a < b {
			return a
		}
		return b
	},
	Int64: func(a, b int64) int64 {
		if a < b {
			return a
		}
		return b
	},
}

var Max = &Function{
	Init: Init{-math.MaxFloat64, math.MinInt64},
	Float64: func(a, b float64) float64 {
		if a > b {
			return a
		}
		return b
	},
	Int64: func(a, b int64) int64 {
		if a > b {
			return a
		}
		return b
	},
}

var Add = &Function{
	Float64: func(a, b float64) float64 { return a + b },
	Int64:   func(a, b int64) int64 { return a + b },
}

var Sub = &Function{
	Float64: func(a, b float64) float64 { return a - b },
	Int64:   func(a, b int64) int64 { return a - b },
}

var Mul = &Function{
	Init:    Init{1, 1},
	Float64: func(a, b float64) float64 { return a * b },
	Int64:   func(a, b int64) int64 { return a * b },
}

// Div and Mod leave division by zero to the caller, which must check
// the Int64 case before applying the kernel.
var Div = &Function{
	Float64: func(a, b float64) float64 { return a / b },
	Int64:   func(a, b int64) int64 { return a / b },
}

var Mod = &Function{
	Float64: math.Mod,
	Int64:   func(a, b int64) int64 { return a % b },
}
