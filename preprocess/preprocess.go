// Package preprocess runs the text-level passes that happen before lexing:
// comment removal and extraction of #include / #define directives. Every
// pass keeps the line count of its input so positions reported later still
// point at the original source.
package preprocess

import (
	"fmt"
	"strings"

	"github.com/rubiojr/c2js/scanner"
)

// Include is one #include directive.
type Include struct {
	Name   string // header name without delimiters (e.g. "stdio.h")
	System bool   // true for <...>, false for "..."
	Line   int
}

// Define is one object-like #define directive.
type Define struct {
	Name  string
	Value string // replacement text, trimmed
	Line  int
}

// Result is the output of Process.
type Result struct {
	Source   string // source with comments and directive lines blanked
	Includes []Include
	Defines  []Define
}

// Error is a malformed or unsupported directive.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Msg) }

// Process strips comments and extracts directives from src.
func Process(src string) (*Result, error) {
	cleaned, err := StripComments(src)
	if err != nil {
		return nil, err
	}
	return ExtractDirectives(cleaned)
}

// StripComments removes // and /* */ comments outside string literals and
// character constants. Block comments keep their newlines.
func StripComments(src string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(src))
	sc := scanner.New(src)
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InString() || ch != '/' {
			sb.WriteByte(ch)
			continue
		}
		switch {
		case sc.LookingAt("//"):
			end := strings.IndexByte(src[sc.Pos():], '\n')
			if end < 0 {
				end = len(src) - sc.Pos()
			}
			sc.Jump(end - 1)
		case sc.LookingAt("/*"):
			end := strings.Index(src[sc.Pos()+2:], "*/")
			if end < 0 {
				return "", &Error{Line: sc.Line(), Msg: "unterminated block comment"}
			}
			comment := src[sc.Pos() : sc.Pos()+end+4]
			sb.WriteByte(' ')
			sb.WriteString(strings.Repeat("\n", strings.Count(comment, "\n")))
			sc.Jump(len(comment) - 1)
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String(), nil
}

// ExtractDirectives collects #include and #define lines from comment-free
// source and replaces them with empty lines.
func ExtractDirectives(src string) (*Result, error) {
	lines := strings.Split(src, "\n")
	res := &Result{}
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		lineNum := i + 1
		name, rest := directiveName(trimmed[1:])
		switch name {
		case "include":
			inc, err := parseInclude(rest, lineNum)
			if err != nil {
				return nil, err
			}
			res.Includes = append(res.Includes, inc)
		case "define":
			def, err := parseDefine(rest, lineNum)
			if err != nil {
				return nil, err
			}
			res.Defines = append(res.Defines, def)
		case "if", "ifdef", "ifndef", "elif", "else", "endif", "undef":
			return nil, &Error{Line: lineNum, Msg: fmt.Sprintf("#%s: preprocessor conditionals are not supported", name)}
		default:
			return nil, &Error{Line: lineNum, Msg: fmt.Sprintf("unsupported directive #%s", name)}
		}
		lines[i] = ""
	}
	res.Source = strings.Join(lines, "\n")
	return res, nil
}

// directiveName splits "  define X 1" into ("define", "X 1").
func directiveName(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	end := 0
	for end < len(s) && isIdentByte(s[end]) {
		end++
	}
	return s[:end], s[end:]
}

func parseInclude(rest string, line int) (Include, error) {
	rest = strings.TrimSpace(rest)
	if len(rest) >= 2 {
		switch {
		case rest[0] == '<' && strings.HasSuffix(rest, ">"):
			return Include{Name: strings.TrimSpace(rest[1 : len(rest)-1]), System: true, Line: line}, nil
		case rest[0] == '"' && strings.HasSuffix(rest, `"`):
			return Include{Name: strings.TrimSpace(rest[1 : len(rest)-1]), Line: line}, nil
		}
	}
	return Include{}, &Error{Line: line, Msg: fmt.Sprintf("malformed #include %q", rest)}
}

func parseDefine(rest string, line int) (Define, error) {
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return Define{}, &Error{Line: line, Msg: "#define requires a macro name"}
	}
	rest = strings.TrimLeft(rest, " \t")
	end := 0
	for end < len(rest) && isIdentByte(rest[end]) {
		end++
	}
	name := rest[:end]
	if name == "" || isDigit(name[0]) {
		return Define{}, &Error{Line: line, Msg: fmt.Sprintf("invalid macro name in #define %s", rest)}
	}
	if end < len(rest) && rest[end] == '(' {
		return Define{}, &Error{Line: line, Msg: fmt.Sprintf("macro %s: function-like macros are not supported", name)}
	}
	return Define{Name: name, Value: strings.TrimSpace(rest[end:]), Line: line}, nil
}

func isIdentByte(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || isDigit(ch)
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }
