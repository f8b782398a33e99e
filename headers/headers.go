// Package headers holds the capability table: which library functions each
// supported header licenses, how calls to them are expressed in JavaScript,
// and which format conversions printf/scanf accept.
//
// A Table is immutable once built. Translators receive one at construction
// time, so several translators with different tables can run side by side.
package headers

import (
	"fmt"
	"sort"
)

// Func describes one library function licensed by a header.
type Func struct {
	// Name is the C function name (e.g. "sqrt").
	Name string
	// Shim is the JavaScript expression bound to Name when the function is
	// called (e.g. "Math.sqrt"). Empty when the call is rewritten instead.
	Shim string
	// Assign, when set, means a statement call f(dst, src); becomes
	// `dst <Assign> src;`, for string functions that write their first argument.
	Assign string
	// Doc is a one-line description shown by `c2js headers`.
	Doc string
}

// Header is one includable header and the functions it licenses, in table
// order.
type Header struct {
	Name  string
	Funcs []Func
}

// Conversion is how a value read by scanf is converted, and how a printf
// argument is interpolated.
type Conversion int

const (
	Numeric   Conversion = iota + 1 // Number(...)
	Character                       // first character only
	Text                            // raw string
)

func (c Conversion) String() string {
	switch c {
	case Numeric:
		return "numeric"
	case Character:
		return "character"
	case Text:
		return "text"
	}
	return fmt.Sprintf("Conversion(%d)", int(c))
}

// Formats maps a conversion specifier letter to its Conversion.
type Formats map[byte]Conversion

// DefaultFormats returns the specifiers accepted by the translator.
func DefaultFormats() Formats {
	return Formats{
		'd': Numeric, 'i': Numeric, 'u': Numeric, 'x': Numeric, 'X': Numeric,
		'f': Numeric, 'F': Numeric, 'e': Numeric, 'g': Numeric,
		'c': Character,
		's': Text,
	}
}

// Table is the header capability table.
type Table struct {
	version string
	headers []Header
	byName  map[string]int
	formats Formats
}

// New builds a table from headers in the given order. The version string
// identifies the table contents and is part of every cache key derived from
// translations that used it.
func New(version string, hs []Header, formats Formats) (*Table, error) {
	t := &Table{version: version, byName: make(map[string]int, len(hs)), formats: make(Formats, len(formats))}
	seen := make(map[string]string)
	for i, h := range hs {
		if _, dup := t.byName[h.Name]; dup {
			return nil, fmt.Errorf("header %s listed twice", h.Name)
		}
		for _, f := range h.Funcs {
			if other, dup := seen[f.Name]; dup {
				return nil, fmt.Errorf("function %s licensed by both %s and %s", f.Name, other, h.Name)
			}
			seen[f.Name] = h.Name
		}
		t.byName[h.Name] = i
		t.headers = append(t.headers, Header{Name: h.Name, Funcs: append([]Func(nil), h.Funcs...)})
	}
	for k, v := range formats {
		t.formats[k] = v
	}
	return t, nil
}

// Default returns the built-in table.
func Default() *Table {
	t, err := New(DefaultVersion, defaultHeaders(), DefaultFormats())
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultVersion names the contents of the built-in table. Bump it whenever
// defaultHeaders or DefaultFormats change.
const DefaultVersion = "2"

func defaultHeaders() []Header {
	return []Header{
		{Name: "stdio.h", Funcs: []Func{
			{Name: "printf", Doc: "Formatted output, becomes console.log with a template literal."},
			{Name: "scanf", Doc: "Formatted input, becomes an assignment from prompt()."},
			{Name: "puts", Doc: "Writes a string and a newline, becomes console.log."},
		}},
		{Name: "math.h", Funcs: []Func{
			{Name: "sqrt", Shim: "Math.sqrt", Doc: "Square root."},
			{Name: "pow", Shim: "Math.pow", Doc: "x raised to the power y."},
			{Name: "sin", Shim: "Math.sin", Doc: "Sine (radians)."},
			{Name: "cos", Shim: "Math.cos", Doc: "Cosine (radians)."},
			{Name: "tan", Shim: "Math.tan", Doc: "Tangent (radians)."},
			{Name: "fabs", Shim: "Math.abs", Doc: "Absolute value of a float."},
			{Name: "floor", Shim: "Math.floor", Doc: "Largest integer <= x."},
			{Name: "ceil", Shim: "Math.ceil", Doc: "Smallest integer >= x."},
			{Name: "log", Shim: "Math.log", Doc: "Natural logarithm."},
			{Name: "exp", Shim: "Math.exp", Doc: "e raised to the power x."},
		}},
		{Name: "string.h", Funcs: []Func{
			{Name: "strlen", Shim: "(s) => s.length", Doc: "Length of a string."},
			{Name: "strcmp", Shim: "(a, b) => (a < b ? -1 : a > b ? 1 : 0)", Doc: "Three-way string comparison."},
			{Name: "strcpy", Assign: "=", Doc: "Copies src into dst, becomes dst = src."},
			{Name: "strcat", Assign: "+=", Doc: "Appends src to dst, becomes dst += src."},
		}},
		{Name: "stdlib.h", Funcs: []Func{
			{Name: "abs", Shim: "Math.abs", Doc: "Absolute value of an integer."},
			{Name: "rand", Shim: "() => Math.floor(Math.random() * 32768)", Doc: "Pseudo-random integer in [0, 32767]."},
			{Name: "atoi", Shim: "(s) => parseInt(s, 10)", Doc: "Parses a decimal integer."},
		}},
	}
}

// Version returns the table's version string.
func (t *Table) Version() string { return t.version }

// Has reports whether header is in the table.
func (t *Table) Has(header string) bool {
	_, ok := t.byName[header]
	return ok
}

// Headers returns the table's headers in order. The result is a copy.
func (t *Table) Headers() []Header {
	out := make([]Header, len(t.headers))
	for i, h := range t.headers {
		out[i] = Header{Name: h.Name, Funcs: append([]Func(nil), h.Funcs...)}
	}
	return out
}

// Licensed returns the union of the functions licensed by the given
// headers. Unknown headers contribute nothing.
func (t *Table) Licensed(included []string) map[string]Func {
	out := make(map[string]Func)
	for _, name := range included {
		i, ok := t.byName[name]
		if !ok {
			continue
		}
		for _, f := range t.headers[i].Funcs {
			out[f.Name] = f
		}
	}
	return out
}

// Owner returns the header that licenses fn.
func (t *Table) Owner(fn string) (string, bool) {
	for _, h := range t.headers {
		for _, f := range h.Funcs {
			if f.Name == fn {
				return h.Name, true
			}
		}
	}
	return "", false
}

// Shims returns the functions with a shim among the given headers, in
// table order regardless of the order of included.
func (t *Table) Shims(included []string) []Func {
	want := make(map[string]bool, len(included))
	for _, name := range included {
		want[name] = true
	}
	var out []Func
	for _, h := range t.headers {
		if !want[h.Name] {
			continue
		}
		for _, f := range h.Funcs {
			if f.Shim != "" {
				out = append(out, f)
			}
		}
	}
	return out
}

// Conversion returns the conversion for a format specifier letter.
func (t *Table) Conversion(verb byte) (Conversion, bool) {
	c, ok := t.formats[verb]
	return c, ok
}

// Verbs returns the accepted specifier letters, sorted.
func (t *Table) Verbs() []byte {
	out := make([]byte, 0, len(t.formats))
	for v := range t.formats {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
