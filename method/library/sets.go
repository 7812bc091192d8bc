package library

import "github.com/brimdata/zscript/method"

type Sets struct {
	method.Marker
}

func (*Sets) Annotate() map[string]method.Annotation {
	return map[string]method.Annotation{
		"Union": {
			Label:  "Union of two sets of strings",
			Params: []method.ParamAnnotation{{Name: "a"}, {Name: "b"}},
		},
	}
}

func (*Sets) Union(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for s := range a {
		out[s] = struct{}{}
	}
	for s := range b {
		out[s] = struct{}{}
	}
	return out
}
