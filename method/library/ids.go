package library

import (
	"time"

	"github.com/brimdata/zscript/method"
	"github.com/segmentio/ksuid"
)

type IDs struct {
	method.Marker
}

func (*IDs) Annotate() map[string]method.Annotation {
	return map[string]method.Annotation{
		"Ksuid": {
			Label:       "A new K-sortable unique identifier",
			SideEffects: true,
		},
		"KsuidTime": {
			Label:  "Creation time of a K-sortable unique identifier",
			Params: []method.ParamAnnotation{{Name: "id"}},
		},
	}
}

func (*IDs) Ksuid() string {
	return ksuid.New().String()
}

func (*IDs) KsuidTime(id string) (time.Time, error) {
	k, err := ksuid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return k.Time().UTC(), nil
}
