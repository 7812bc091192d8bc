package library

import (
	"fmt"
	"strings"

	"github.com/brimdata/zscript/method"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

type Strings struct {
	method.Marker
}

func (*Strings) Annotate() map[string]method.Annotation {
	return map[string]method.Annotation{
		"Trim": {
			Label: "Remove leading and trailing characters",
			Params: []method.ParamAnnotation{
				{Name: "s"},
				{Name: "cutset", Optional: true, Doc: "characters to remove; white space if empty"},
			},
			Returns: "the trimmed string",
		},
		"Repeat": {
			Label: "Concatenate copies of a string",
			Params: []method.ParamAnnotation{
				{Name: "s"},
				{Name: "count", Optional: true, Default: "2"},
			},
		},
		"Split": {
			Label: "Split a string around a separator",
			Params: []method.ParamAnnotation{
				{Name: "s"},
				{Name: "sep", Optional: true, Default: `","`},
			},
			Returns: "list of substrings",
		},
		"Join": {
			Label: "Join a list of strings with a separator",
			Params: []method.ParamAnnotation{
				{Name: "elems"},
				{Name: "sep", Optional: true, Default: `","`},
			},
		},
		"Title": {
			Label:  "Title case of a string",
			Params: []method.ParamAnnotation{{Name: "s"}},
		},
		"Normalize": {
			Label: "Unicode normalization of a string",
			Params: []method.ParamAnnotation{
				{Name: "s"},
				{Name: "form", Optional: true, Default: "NFC", Doc: "one of NFC, NFD, NFKC, NFKD"},
			},
		},
	}
}

func (*Strings) Trim(s, cutset string) string {
	if cutset == "" {
		return strings.TrimSpace(s)
	}
	return strings.Trim(s, cutset)
}

func (*Strings) Repeat(s string, count int) (string, error) {
	if count < 0 {
		return "", fmt.Errorf("negative count %d", count)
	}
	return strings.Repeat(s, count), nil
}

func (*Strings) Split(s, sep string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, sep)
}

func (*Strings) Join(elems []string, sep string) string {
	return strings.Join(elems, sep)
}

func (*Strings) Title(s string) string {
	return cases.Title(language.Und).String(s)
}

func (*Strings) Normalize(s string, form Form) string {
	return norm.Form(form).String(s)
}

// Form is a Unicode normalization form.
type Form norm.Form

var forms = map[string]norm.Form{
	"NFC":  norm.NFC,
	"NFD":  norm.NFD,
	"NFKC": norm.NFKC,
	"NFKD": norm.NFKD,
}

func (f Form) MarshalText() ([]byte, error) {
	for name, form := range forms {
		if form == norm.Form(f) {
			return []byte(name), nil
		}
	}
	return nil, fmt.Errorf("unknown normalization form %d", int(f))
}

func (f *Form) UnmarshalText(text []byte) error {
	form, ok := forms[strings.ToUpper(string(text))]
	if !ok {
		return fmt.Errorf("unknown normalization form %q", text)
	}
	*f = Form(form)
	return nil
}
