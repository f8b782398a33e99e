package compiler

import (
	"github.com/rubiojr/c2js/parser"
	"github.com/rubiojr/c2js/preprocess"
)

// macro is one object-like #define with its replacement already lexed.
type macro struct {
	name  string
	value string
	line  int
	toks  []parser.Token // replacement tokens, EOF stripped
}

// lexMacros lexes every replacement text at the position of its #define.
// A later definition of the same name replaces the earlier one.
func lexMacros(sourceName string, defs []preprocess.Define) (map[string]*macro, error) {
	out := make(map[string]*macro, len(defs))
	for _, d := range defs {
		if parser.IsKeyword(d.Name) {
			return nil, errorf(SyntaxError, d.Line, "#define %s: cannot redefine a keyword", d.Name)
		}
		toks, err := parser.LexAt(sourceName, d.Value, d.Line, 1)
		if err != nil {
			return nil, classify(err)
		}
		out[d.Name] = &macro{name: d.Name, value: d.Value, line: d.Line, toks: toks[:len(toks)-1]}
	}
	return out, nil
}

// expandMacros replaces every identifier token naming a macro with
// "(" replacement ")". Replacement tokens are copied as-is and never
// rescanned, so a macro mentioning another macro's name leaves that name
// alone. An empty replacement removes the identifier. Expanded tokens take
// the position of the use site. The result is capped at maxTokens.
func expandMacros(toks []parser.Token, macros map[string]*macro, maxTokens int) ([]parser.Token, error) {
	if len(macros) == 0 {
		if len(toks) > maxTokens {
			return nil, tooManyTokens(toks[maxTokens].Pos.Line, maxTokens)
		}
		return toks, nil
	}
	out := make([]parser.Token, 0, len(toks))
	for _, tok := range toks {
		m, ok := macros[tok.Text]
		if tok.Kind != parser.Ident || !ok {
			out = append(out, tok)
		} else if len(m.toks) > 0 {
			out = append(out, parser.Token{Kind: parser.Punct, Text: "(", Pos: tok.Pos})
			for _, r := range m.toks {
				r.Pos = tok.Pos
				out = append(out, r)
			}
			out = append(out, parser.Token{Kind: parser.Punct, Text: ")", Pos: tok.Pos})
		}
		if len(out) > maxTokens {
			return nil, tooManyTokens(tok.Pos.Line, maxTokens)
		}
	}
	return out, nil
}

func tooManyTokens(line, max int) *Error {
	return errorf(LimitError, line, "program exceeds %d tokens after macro expansion", max)
}

// macroTable returns the name -> replacement text map reported in Result.
func macroTable(macros map[string]*macro) map[string]string {
	out := make(map[string]string, len(macros))
	for name, m := range macros {
		out[name] = m.value
	}
	return out
}
