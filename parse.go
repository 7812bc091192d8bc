package zscript

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrBadLiteral = errors.New("bad literal")

// ParseValue parses the text form of a value as produced by FormatValue:
// null, true, false, integers, floats, quoted strings, RFC 3339
// timestamps, and lists, sets, and maps of these.  Objects and functions
// have no literal form.
func ParseValue(s string) (any, error) {
	p := valueParser{text: s}
	val, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.text) {
		return nil, p.error()
	}
	return val, nil
}

type valueParser struct {
	text string
	pos  int
}

func (p *valueParser) error() error {
	if strings.TrimSpace(p.text) == "" {
		return fmt.Errorf("%w: empty text", ErrBadLiteral)
	}
	return fmt.Errorf("%w: %s", ErrBadLiteral, p.text)
}

func (p *valueParser) skipSpace() {
	for p.pos < len(p.text) && strings.IndexByte(" \t\r\n", p.text[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *valueParser) consume(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.text[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *valueParser) value() (any, error) {
	switch {
	case p.consume("|["):
		vals, err := p.elems("]|")
		if err != nil {
			return nil, err
		}
		return NewSet(vals...), nil
	case p.consume("|{"):
		return p.mapBody()
	case p.consume("["):
		return p.elems("]")
	}
	atom, err := p.atom()
	if err != nil {
		return nil, err
	}
	val, err := parsePrimitive(atom)
	if err != nil {
		return nil, p.error()
	}
	return val, nil
}

func (p *valueParser) elems(end string) ([]any, error) {
	vals := []any{}
	if p.consume(end) {
		return vals, nil
	}
	for {
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		vals = append(vals, val)
		if p.consume(",") {
			continue
		}
		if p.consume(end) {
			return vals, nil
		}
		return nil, p.error()
	}
}

func (p *valueParser) mapBody() (Map, error) {
	m := Map{}
	if p.consume("}|") {
		return m, nil
	}
	for {
		key, err := p.key()
		if err != nil {
			return nil, err
		}
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		m[key] = val
		if p.consume(",") {
			continue
		}
		if p.consume("}|") {
			return m, nil
		}
		return nil, p.error()
	}
}

// key parses a map key and the colon that follows it.  An unquoted key
// ends at the first colon that leaves a valid primitive to its left so
// that timestamps can be keys.
func (p *valueParser) key() (any, error) {
	p.skipSpace()
	if p.pos < len(p.text) && (p.text[p.pos] == '[' || p.text[p.pos] == '|') {
		return nil, fmt.Errorf("%w: %s", ErrBadKey, p.text)
	}
	if p.pos < len(p.text) && p.text[p.pos] == '"' {
		atom, err := p.atom()
		if err != nil {
			return nil, err
		}
		val, err := parsePrimitive(atom)
		if err != nil || !p.consume(":") {
			return nil, p.error()
		}
		return val, nil
	}
	start := p.pos
	atom := p.scan()
	for k := 0; k < len(atom); k++ {
		if atom[k] != ':' {
			continue
		}
		if val, err := parsePrimitive(atom[:k]); err == nil {
			p.pos = start + k + 1
			return val, nil
		}
	}
	return nil, p.error()
}

// atom returns the text of the primitive at the current position.
func (p *valueParser) atom() (string, error) {
	p.skipSpace()
	if p.pos < len(p.text) && p.text[p.pos] == '"' {
		start := p.pos
		for p.pos++; p.pos < len(p.text); p.pos++ {
			switch p.text[p.pos] {
			case '\\':
				p.pos++
			case '"':
				p.pos++
				return p.text[start:p.pos], nil
			}
		}
		return "", p.error()
	}
	if atom := p.scan(); atom != "" {
		return atom, nil
	}
	return "", p.error()
}

func (p *valueParser) scan() string {
	start := p.pos
	for p.pos < len(p.text) && strings.IndexByte(",[]{}|", p.text[p.pos]) < 0 {
		p.pos++
	}
	return strings.TrimSpace(p.text[start:p.pos])
}

func parsePrimitive(s string) (any, error) {
	switch s {
	case "null":
		return nil, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "NaN", "+Inf", "-Inf":
		return strconv.ParseFloat(s, 64)
	}
	if s == "" {
		return nil, ErrBadLiteral
	}
	if s[0] == '"' {
		v, err := strconv.Unquote(s)
		if err != nil {
			return nil, ErrBadLiteral
		}
		return v, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	if v, err := strconv.ParseFloat(strings.TrimSuffix(s, "."), 64); err == nil {
		return v, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return nil, ErrBadLiteral
}
