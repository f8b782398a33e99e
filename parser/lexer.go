package parser

import (
	"fmt"
	"strings"

	"modernc.org/token"
)

// Lex splits comment- and directive-free C source into tokens. The returned
// slice always ends with an EOF token.
func Lex(name, src string) ([]Token, error) {
	return LexAt(name, src, 1, 1)
}

// LexAt lexes src as if its first byte sat at line:col of the named file.
// Macro replacement text is lexed this way so its tokens report the
// position of the #define that introduced them.
func LexAt(name, src string, line, col int) ([]Token, error) {
	f := token.NewFile(name, len(src))
	if len(src) > 0 {
		f.SetLinesForContent([]byte(src))
	}
	if line != 1 || col != 1 {
		f.AddLineColumnInfo(0, name, line, col)
	}
	l := &lexer{src: src, file: f}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.toks, nil
}

type lexer struct {
	src  string
	file *token.File
	pos  int
	toks []Token
}

func (l *lexer) position(off int) token.Position {
	return l.file.Position(l.file.Pos(off))
}

func (l *lexer) errorf(off int, format string, args ...any) error {
	return &Error{Pos: l.position(off), Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) emit(kind Kind, start int) {
	l.toks = append(l.toks, Token{Kind: kind, Text: l.src[start:l.pos], Pos: l.position(start)})
}

func (l *lexer) run() error {
	for {
		l.skipSpace()
		start := l.pos
		if l.pos >= len(l.src) {
			l.emit(EOF, start)
			return nil
		}
		ch := l.src[l.pos]
		switch {
		case isLetter(ch):
			for l.pos < len(l.src) && (isLetter(l.src[l.pos]) || isDigit(l.src[l.pos])) {
				l.pos++
			}
			if keywords[l.src[start:l.pos]] {
				l.emit(Keyword, start)
			} else {
				l.emit(Ident, start)
			}
		case isDigit(ch) || (ch == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
			kind := l.number()
			if l.pos < len(l.src) && (isLetter(l.src[l.pos]) || isDigit(l.src[l.pos])) {
				return l.errorf(start, "invalid numeric constant %q", l.src[start:l.pos+1])
			}
			l.emit(kind, start)
		case ch == '"':
			if err := l.quoted('"', "string literal"); err != nil {
				return err
			}
			l.emit(String, start)
		case ch == '\'':
			if err := l.quoted('\'', "character constant"); err != nil {
				return err
			}
			if l.pos-start == 2 {
				return l.errorf(start, "empty character constant")
			}
			l.emit(Char, start)
		case ch == '#':
			return l.errorf(start, "stray '#' in program")
		default:
			p := matchPunct(l.src[l.pos:])
			if p == "" {
				return l.errorf(start, "unexpected character %q", ch)
			}
			l.pos += len(p)
			l.emit(Punct, start)
		}
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			l.pos++
		case '\\':
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '\n' {
				l.pos += 2
				continue
			}
			return
		default:
			return
		}
	}
}

// number scans an integer or floating constant including its suffix.
func (l *lexer) number() Kind {
	s, i := l.src, l.pos
	kind := Int
	hex := false
	if s[i] == '0' && i+1 < len(s) && (s[i+1] == 'x' || s[i+1] == 'X') {
		hex = true
		i += 2
		for i < len(s) && isHex(s[i]) {
			i++
		}
	} else {
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i < len(s) && s[i] == '.' {
			kind = Float
			i++
			for i < len(s) && isDigit(s[i]) {
				i++
			}
		}
		if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
			j := i + 1
			if j < len(s) && (s[j] == '+' || s[j] == '-') {
				j++
			}
			if j < len(s) && isDigit(s[j]) {
				kind = Float
				i = j
				for i < len(s) && isDigit(s[i]) {
					i++
				}
			}
		}
	}
	for i < len(s) && strings.IndexByte("uUlLfF", s[i]) >= 0 {
		if !hex && (s[i] == 'f' || s[i] == 'F') {
			kind = Float
		}
		i++
	}
	l.pos = i
	return kind
}

// quoted scans a literal delimited by q. Literals may not span lines.
func (l *lexer) quoted(q byte, what string) error {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			j := l.pos + 1
			for j < len(l.src) && j < l.pos+4 && l.src[j] >= '0' && l.src[j] <= '7' {
				j++
			}
			if j == l.pos+4 && l.src[l.pos+1] > '3' {
				return l.errorf(l.pos, "octal escape sequence %s is out of range", l.src[l.pos:j])
			}
			l.pos += 2
			continue
		case '\n':
			return l.errorf(start, "unterminated %s", what)
		case q:
			l.pos++
			return nil
		}
		l.pos++
	}
	l.pos = len(l.src)
	return l.errorf(start, "unterminated %s", what)
}

func matchPunct(s string) string {
	for _, p := range punctuators {
		if strings.HasPrefix(s, p) {
			return p
		}
	}
	return ""
}

func isLetter(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isHex(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
