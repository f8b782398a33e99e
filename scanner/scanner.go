// Package scanner provides quote-aware byte scanning for C source text. It
// tracks double-quoted string literals, single-quoted character constants and
// backslash escapes so the preprocessor can find comments and directives
// without tripping over quote characters inside literals.
package scanner

import "strings"

// closingKind tracks which type of literal delimiter was just closed.
type closingKind byte

const (
	noClosing     closingKind = iota
	closingString             // just closed a "..." literal
	closingChar               // just closed a '...' constant
)

// CodeScanner iterates byte-by-byte over C source, tracking string literal
// and character constant boundaries. InString() is true for the whole span
// of a literal, delimiters included.
type CodeScanner struct {
	src     string
	pos     int
	line    int
	inStr   bool
	inChar  bool
	escaped bool
	closing closingKind
}

// New creates a CodeScanner for src. Call Next() to advance to the first byte.
func New(src string) *CodeScanner {
	return &CodeScanner{src: src, pos: -1, line: 1}
}

// Next advances to the next byte, updating literal/escape state.
// Returns the byte and true, or (0, false) at end of input.
func (s *CodeScanner) Next() (byte, bool) {
	s.closing = noClosing
	s.pos++
	if s.pos >= len(s.src) {
		return 0, false
	}
	ch := s.src[s.pos]
	if ch == '\n' {
		s.line++
		// C literals never span lines; a newline ends a broken literal so
		// one stray quote cannot swallow the rest of the file.
		s.inStr, s.inChar, s.escaped = false, false, false
		return ch, true
	}

	if s.escaped {
		s.escaped = false
		return ch, true
	}
	if ch == '\\' && (s.inStr || s.inChar) {
		s.escaped = true
		return ch, true
	}
	switch {
	case ch == '"' && !s.inChar:
		if s.inStr {
			s.closing = closingString
		}
		s.inStr = !s.inStr
	case ch == '\'' && !s.inStr:
		if s.inChar {
			s.closing = closingChar
		}
		s.inChar = !s.inChar
	}
	return ch, true
}

// InString reports whether the current byte belongs to a string literal or a
// character constant, including both delimiters.
func (s *CodeScanner) InString() bool {
	return s.inStr || s.inChar || s.closing != noClosing
}

// InCode reports whether the current byte is outside all literals.
func (s *CodeScanner) InCode() bool { return !s.InString() }

// Open reports whether a literal was opened and is still unterminated at the
// current byte.
func (s *CodeScanner) Open() bool { return s.inStr || s.inChar }

// Pos returns the offset of the last byte returned by Next, or -1 before the
// first call.
func (s *CodeScanner) Pos() int { return s.pos }

// Line returns the current 1-based line number.
func (s *CodeScanner) Line() int { return s.line }

// Peek returns the next byte without advancing, or (0, false) at end.
func (s *CodeScanner) Peek() (byte, bool) {
	if s.pos+1 >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos+1], true
}

// LookingAt checks if the source starting at the current byte has prefix.
func (s *CodeScanner) LookingAt(prefix string) bool {
	if s.pos < 0 || s.pos >= len(s.src) {
		return false
	}
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

// Jump advances past n bytes as raw text without literal tracking. It is
// used for comment bodies, where quote characters carry no meaning.
func (s *CodeScanner) Jump(n int) {
	s.closing = noClosing
	for i := 0; i < n && s.pos+1 < len(s.src); i++ {
		s.pos++
		if s.src[s.pos] == '\n' {
			s.line++
		}
	}
}

// Skip advances past n bytes without returning them. Literal state is
// updated for each skipped byte. Returns the number of bytes skipped.
func (s *CodeScanner) Skip(n int) int {
	skipped := 0
	for i := 0; i < n; i++ {
		if _, ok := s.Next(); !ok {
			break
		}
		skipped++
	}
	return skipped
}
