package parser

import (
	"fmt"

	"modernc.org/token"
)

// Kind identifies the category of a lexed token.
type Kind int

const (
	EOF     Kind = iota // end of input
	Ident               // identifier
	Keyword             // reserved word
	Int                 // integer constant
	Float               // floating constant
	Char                // character constant, quotes included
	String              // string literal, quotes included
	Punct               // operator or delimiter
)

var kindNames = [...]string{
	EOF:     "end of input",
	Ident:   "identifier",
	Keyword: "keyword",
	Int:     "integer constant",
	Float:   "floating constant",
	Char:    "character constant",
	String:  "string literal",
	Punct:   "punctuation",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one lexeme with its source position.
type Token struct {
	Kind Kind
	Text string
	Pos  token.Position
}

// Is reports whether t is the punctuation or keyword text.
func (t Token) Is(text string) bool {
	return (t.Kind == Punct || t.Kind == Keyword) && t.Text == text
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Text)
}

var keywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "int": true, "long": true, "register": true, "return": true,
	"short": true, "signed": true, "sizeof": true, "static": true, "struct": true,
	"switch": true, "typedef": true, "union": true, "unsigned": true, "void": true,
	"volatile": true, "while": true, "_Bool": true,
}

// IsKeyword reports whether name is a reserved word of the accepted subset.
func IsKeyword(name string) bool { return keywords[name] }

// typeKeywords start a type specifier.
var typeKeywords = map[string]bool{
	"const": true, "static": true, "volatile": true, "extern": true,
	"register": true, "auto": true, "signed": true, "unsigned": true,
	"short": true, "long": true, "int": true, "char": true, "float": true,
	"double": true, "void": true, "_Bool": true, "struct": true,
}

// IsTypeKeyword reports whether name can begin a type specifier.
func IsTypeKeyword(name string) bool { return typeKeywords[name] }

// punctuators are ordered longest first so the lexer takes the longest match.
var punctuators = []string{
	"<<=", ">>=", "...",
	"->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"+", "-", "*", "/", "%", "<", ">", "=", "!", "&", "|", "^", "~",
	"?", ":", ";", ",", ".", "(", ")", "{", "}", "[", "]",
}
