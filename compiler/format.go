package compiler

import (
	"strconv"
	"strings"

	"github.com/rubiojr/c2js/headers"
)

// fmtSpec is one conversion specifier such as %-8.2lf.
type fmtSpec struct {
	Text  string // as written
	Flags string
	Width int // -1 when absent
	Prec  int // -1 when absent
	Verb  byte
	Conv  headers.Conversion
}

// fmtPiece is literal text followed by an optional specifier. Lit keeps
// the C escapes as written, with %% already reduced to %.
type fmtPiece struct {
	Lit  string
	Spec *fmtSpec
}

// parseFormat splits a printf/scanf format string body into pieces. The
// last piece never has a specifier. Specifiers whose letter is not in the
// table, '*' widths and %[ scan sets fail with UnsupportedFormatError.
func parseFormat(tbl *headers.Table, s string, line int) ([]fmtPiece, error) {
	var pieces []fmtPiece
	var lit strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			lit.WriteByte(c)
			lit.WriteByte(s[i+1])
			i++
			continue
		}
		if c != '%' {
			lit.WriteByte(c)
			continue
		}
		start := i
		i++
		if i < len(s) && s[i] == '%' {
			lit.WriteByte('%')
			continue
		}
		spec := &fmtSpec{Width: -1, Prec: -1}
		for i < len(s) && strings.IndexByte("-+ #0", s[i]) >= 0 {
			spec.Flags += string(s[i])
			i++
		}
		if i < len(s) && s[i] == '*' {
			return nil, errorf(UnsupportedFormatError, line, "%s: '*' is not supported", s[start:i+1])
		}
		spec.Width, i = digits(s, i)
		if i < len(s) && s[i] == '.' {
			i++
			if i < len(s) && s[i] == '*' {
				return nil, errorf(UnsupportedFormatError, line, "%s: '*' precision is not supported", s[start:i+1])
			}
			spec.Prec, i = digits(s, i)
			if spec.Prec < 0 {
				spec.Prec = 0
			}
		}
		for i < len(s) && strings.IndexByte("hlLzjt", s[i]) >= 0 {
			i++
		}
		if i >= len(s) {
			return nil, errorf(UnsupportedFormatError, line, "incomplete format specifier %q", s[start:])
		}
		spec.Verb = s[i]
		spec.Text = s[start : i+1]
		if spec.Verb == '[' {
			return nil, errorf(UnsupportedFormatError, line, "scan sets (%s) are not supported", spec.Text)
		}
		conv, ok := tbl.Conversion(spec.Verb)
		if !ok {
			return nil, errorf(UnsupportedFormatError, line, "unsupported format specifier %s", spec.Text)
		}
		spec.Conv = conv
		pieces = append(pieces, fmtPiece{Lit: lit.String(), Spec: spec})
		lit.Reset()
	}
	return append(pieces, fmtPiece{Lit: lit.String()}), nil
}

// digits reads a decimal number at s[i:], returning -1 when there is none.
func digits(s string, i int) (int, int) {
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return -1, i
	}
	n, err := strconv.Atoi(s[i:j])
	if err != nil {
		return -1, j
	}
	return n, j
}

func specCount(pieces []fmtPiece) int {
	n := 0
	for _, p := range pieces {
		if p.Spec != nil {
			n++
		}
	}
	return n
}

// stripNewline removes one trailing \n escape; console.log ends the line.
func stripNewline(lit string) string {
	if !strings.HasSuffix(lit, `\n`) {
		return lit
	}
	slashes := 0
	for i := len(lit) - 2; i >= 0 && lit[i] == '\\'; i-- {
		slashes++
	}
	if slashes%2 == 1 {
		return lit[:len(lit)-2]
	}
	return lit
}

// templateText makes C string body text safe inside a template literal:
// backticks and "${" are escaped, and octal escapes, which template
// literals reject, become \x escapes.
func templateText(lit string) string {
	var sb strings.Builder
	for i := 0; i < len(lit); i++ {
		c := lit[i]
		switch {
		case c == '\\' && i+1 < len(lit):
			j := i + 1
			for j < len(lit) && j < i+4 && lit[j] >= '0' && lit[j] <= '7' {
				j++
			}
			// a lone \0 stays; followed by a digit it would read as a
			// legacy octal escape, which template literals reject
			nul := j == i+2 && lit[i+1] == '0' && !(j < len(lit) && lit[j] >= '0' && lit[j] <= '9')
			if j > i+1 && !nul {
				// the lexer rejects escapes above \377, so v fits a byte
				v, _ := strconv.ParseUint(lit[i+1:j], 8, 16)
				sb.WriteString(`\x`)
				sb.WriteString(hex2(byte(v)))
				i = j - 1
				continue
			}
			sb.WriteByte(c)
			sb.WriteByte(lit[i+1])
			i++
		case c == '`':
			sb.WriteString("\\`")
		case c == '$' && i+1 < len(lit) && lit[i+1] == '{':
			sb.WriteString(`\$`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func hex2(b byte) string {
	const hexDigits = "0123456789abcdef"
	return string([]byte{hexDigits[b>>4], hexDigits[b&0xf]})
}
