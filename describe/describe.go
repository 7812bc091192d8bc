// Package describe extracts documentation from the builders of a resolver
// and renders it as Markdown or HTML.
package describe

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/method"
	"github.com/brimdata/zscript/runtime/expr"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type Function struct {
	Name     string  `json:"name" yaml:"name"`
	Label    string  `json:"label,omitempty" yaml:"label,omitempty"`
	Params   []Param `json:"params,omitempty" yaml:"params,omitempty"`
	Variadic bool    `json:"variadic,omitempty" yaml:"variadic,omitempty"`
	Method   bool    `json:"method,omitempty" yaml:"method,omitempty"`
	Returns  Returns `json:"returns" yaml:"returns"`
}

type Param struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Mandatory   bool   `json:"mandatory" yaml:"mandatory"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type Returns struct {
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Describe returns the documentation of the function name built by b.
func Describe(name string, b method.Builder) Function {
	desc := method.DescriptorOf(b)
	f := Function{
		Name:     name,
		Variadic: desc.Unbounded(),
		Method:   desc.Receiver(),
	}
	if d, ok := b.(method.Documenter); ok {
		if doc := d.Doc(); doc != nil {
			f.Label = doc.Label
			f.Returns = Returns{Type: doc.ReturnType, Description: doc.Returns}
		}
	}
	for _, p := range desc.Params() {
		param := Param{
			Name:        p.Name,
			Type:        p.Type,
			Mandatory:   p.Mandatory(),
			Description: p.Doc,
		}
		if !param.Mandatory {
			param.Default = defaultText(p)
		}
		f.Params = append(f.Params, param)
	}
	return f
}

func defaultText(p method.Param) string {
	if val, ok := expr.IsLiteral(p.Default()); ok {
		return zscript.FormatValue(val)
	}
	return "computed"
}

// All describes every function of r in name order.
func All(r method.Resolver) []Function {
	var fns []Function
	for _, name := range r.Names() {
		if b, ok := r.Lookup(name); ok {
			fns = append(fns, Describe(name, b))
		}
	}
	return fns
}

// Signature returns the call form of f, e.g., "count(n, from=0)".
func (f Function) Signature() string {
	var args []string
	for _, p := range f.Params {
		if p.Mandatory {
			args = append(args, p.Name)
		} else {
			args = append(args, p.Name+"="+p.Default)
		}
	}
	if f.Variadic {
		args = append(args, "...")
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}

// Markdown writes the documentation of fns as Markdown.
func Markdown(w io.Writer, fns []Function) error {
	var b strings.Builder
	for k, f := range fns {
		if k > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n\n", f.Name)
		fmt.Fprintf(&b, "`%s`\n\n", f.Signature())
		if f.Label != "" {
			fmt.Fprintf(&b, "%s.\n\n", strings.TrimSuffix(f.Label, "."))
		}
		if len(f.Params) > 0 {
			b.WriteString("| Parameter | Type | Default | Description |\n")
			b.WriteString("|---|---|---|---|\n")
			for _, p := range f.Params {
				def := "required"
				if !p.Mandatory {
					def = "`" + p.Default + "`"
				}
				fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", p.Name, cell(p.Type), def, cell(p.Description))
			}
			b.WriteString("\n")
		}
		if f.Returns.Type != "" || f.Returns.Description != "" {
			b.WriteString("Returns")
			if f.Returns.Type != "" {
				fmt.Fprintf(&b, " `%s`", f.Returns.Type)
			}
			if f.Returns.Description != "" {
				fmt.Fprintf(&b, ": %s", f.Returns.Description)
			}
			b.WriteString(".\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// HTML writes the documentation of fns as HTML.
func HTML(w io.Writer, fns []Function) error {
	var md bytes.Buffer
	if err := Markdown(&md, fns); err != nil {
		return err
	}
	return goldmark.New(goldmark.WithExtensions(extension.Table)).Convert(md.Bytes(), w)
}

// Render writes fns in the named format, which is "md" (or "markdown") or
// "html".
func Render(w io.Writer, format string, fns []Function) error {
	switch format {
	case "md", "markdown":
		return Markdown(w, fns)
	case "html":
		return HTML(w, fns)
	}
	return fmt.Errorf("unknown documentation format %q", format)
}
