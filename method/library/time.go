package library

import (
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/brimdata/zscript/method"
)

type Time struct {
	method.Marker
}

func (*Time) Annotate() map[string]method.Annotation {
	return map[string]method.Annotation{
		"ParseTime": {
			Label:   "Parse a date and time in any common format",
			Params:  []method.ParamAnnotation{{Name: "s"}},
			Returns: "the time in UTC",
		},
		"FormatTime": {
			Label: "Format a time with a Go layout",
			Params: []method.ParamAnnotation{
				{Name: "t"},
				{Name: "layout", Optional: true, Default: strconv.Quote(time.RFC3339)},
			},
		},
	}
}

func (*Time) ParseTime(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func (*Time) FormatTime(t time.Time, layout string) string {
	return t.UTC().Format(layout)
}
