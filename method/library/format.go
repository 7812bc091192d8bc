package library

import (
	"github.com/alecthomas/units"
	"github.com/brimdata/zscript/method"
	"github.com/dustin/go-humanize"
)

type Format struct {
	method.Marker
}

func (*Format) Annotate() map[string]method.Annotation {
	return map[string]method.Annotation{
		"HumanizeBytes": {
			Label:  "Byte count in SI units, e.g., 82 MB",
			Params: []method.ParamAnnotation{{Name: "n"}},
		},
		"ParseBytes": {
			Label:  "Parse a byte count such as 4KiB or 10MB",
			Params: []method.ParamAnnotation{{Name: "s"}},
		},
		"Ordinal": {
			Label:  "Ordinal of a number, e.g., 3rd",
			Params: []method.ParamAnnotation{{Name: "n"}},
		},
	}
}

func (*Format) HumanizeBytes(n uint64) string { return humanize.Bytes(n) }
func (*Format) Ordinal(n int) string          { return humanize.Ordinal(n) }

func (*Format) ParseBytes(s string) (int64, error) {
	n, err := units.ParseStrictBytes(s)
	if err != nil {
		return 0, err
	}
	return n, nil
}
