package library

import (
	"fmt"
	"math"

	"github.com/brimdata/zscript/method"
)

type Numbers struct {
	method.Marker
}

func (*Numbers) Annotate() map[string]method.Annotation {
	return map[string]method.Annotation{
		"Clamp": {
			Label: "Limit a number to a range",
			Params: []method.ParamAnnotation{
				{Name: "x"},
				{Name: "lo"},
				{Name: "hi"},
			},
		},
		"Sum": {
			Label:  "Sum of a list of numbers",
			Params: []method.ParamAnnotation{{Name: "xs"}},
		},
		"Round": {
			Label: "Round a number to a number of decimal places",
			Params: []method.ParamAnnotation{
				{Name: "x"},
				{Name: "places", Optional: true},
				{Name: "mode", Optional: true, Default: "halfEven", Doc: "one of halfEven, halfUp, up, down"},
			},
		},
	}
}

func (*Numbers) Clamp(x, lo, hi float64) (float64, error) {
	if lo > hi {
		return 0, fmt.Errorf("empty range [%g, %g]", lo, hi)
	}
	return math.Min(math.Max(x, lo), hi), nil
}

func (*Numbers) Sum(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum
}

func (*Numbers) Round(x float64, places int, mode RoundingMode) float64 {
	scale := math.Pow(10, float64(places))
	y := x * scale
	switch mode {
	case HalfUp:
		y = math.Round(y)
	case Up:
		y = math.Ceil(y)
	case Down:
		y = math.Floor(y)
	default:
		y = math.RoundToEven(y)
	}
	return y / scale
}

type RoundingMode int

const (
	HalfEven RoundingMode = iota
	HalfUp
	Up
	Down
)

var roundingModes = []string{"halfEven", "halfUp", "up", "down"}

func (r RoundingMode) MarshalText() ([]byte, error) {
	if r < 0 || int(r) >= len(roundingModes) {
		return nil, fmt.Errorf("unknown rounding mode %d", int(r))
	}
	return []byte(roundingModes[r]), nil
}

func (r *RoundingMode) UnmarshalText(text []byte) error {
	for k, name := range roundingModes {
		if name == string(text) {
			*r = RoundingMode(k)
			return nil
		}
	}
	return fmt.Errorf("unknown rounding mode %q", text)
}
