// printer.go — value rendering.
//
// Every value variant has exactly one canonical form, and every surface
// that shows a value (statement results, string interpolation, test
// expectations) goes through Render so they all agree:
//
//	integers   decimal                      42
//	rationals  n/d, reduced, d > 1          1/2
//	floats     shortest round-trip          0.1
//	specials   π  e  ∞  -∞  NaN
//	booleans   true / false
//	strings    raw text (no quotes)
//	algorithms @Name(p1, …, pn)
//
// Pretty differs only for strings, which it quotes and escapes so a string
// result is distinguishable from a number that renders the same way. JSON
// output is a small tagged object per value.
package am

import (
	"encoding/json"
	"strings"
)

// Render is the canonical single form of a value.
func Render(v Value) string {
	switch v.Tag {
	case TagNumber:
		return v.Num.Render()
	case TagStr:
		return v.Str
	case TagBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case TagAlgorithm:
		return renderAlgorithm(v.Alg)
	}
	return "<invalid>"
}

// Pretty is the human-facing form: identical to Render except strings are
// quoted with escapes.
func Pretty(v Value) string {
	if v.Tag == TagStr {
		return quoteString(v.Str)
	}
	return Render(v)
}

func renderAlgorithm(a *Algorithm) string {
	var b strings.Builder
	b.WriteByte('@')
	b.WriteString(a.Name)
	b.WriteByte('(')
	b.WriteString(strings.Join(a.Params, ", "))
	b.WriteByte(')')
	return b.String()
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

/* ---------- JSON ---------- */

// valueJSON is the wire shape of one value: a kind tag plus the payload
// field for that kind.
type valueJSON struct {
	Kind   string   `json:"kind"`
	Value  string   `json:"value,omitempty"`
	Bool   *bool    `json:"bool,omitempty"`
	Name   string   `json:"name,omitempty"`
	Params []string `json:"params,omitempty"`
}

// MarshalValue serializes a value as JSON. Numbers are carried as their
// canonical rendering in a string field: arbitrary-precision integers and
// exact rationals have no faithful JSON number form.
func MarshalValue(v Value) ([]byte, error) {
	return json.Marshal(toValueJSON(v))
}

func toValueJSON(v Value) valueJSON {
	switch v.Tag {
	case TagNumber:
		return valueJSON{Kind: "number", Value: v.Num.Render()}
	case TagStr:
		return valueJSON{Kind: "string", Value: v.Str}
	case TagBool:
		b := v.Bool
		return valueJSON{Kind: "boolean", Bool: &b}
	case TagAlgorithm:
		return valueJSON{Kind: "algorithm", Name: v.Alg.Name, Params: v.Alg.Params}
	}
	return valueJSON{Kind: "invalid"}
}
