package compiler

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rubiojr/c2js/ast"
	"github.com/rubiojr/c2js/headers"
	"github.com/rubiojr/c2js/parser"
	"github.com/rubiojr/c2js/preprocess"
)

// Limits bound the work one translation may do.
type Limits struct {
	MaxSourceBytes int // source size before preprocessing
	MaxTokens      int // token count after macro expansion
	MaxDepth       int // parser nesting of blocks and expressions
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxSourceBytes: 256 << 10, MaxTokens: 200_000, MaxDepth: parser.DefaultMaxDepth}
}

// Translator runs the translation pipeline. Its configuration is fixed at
// construction, so one Translator may be used from several goroutines.
type Translator struct {
	table      *headers.Table
	entry      string
	limits     Limits
	trace      io.Writer
	sourceName string
}

// Option configures a Translator.
type Option func(*Translator)

// WithHeaders sets the capability table.
func WithHeaders(t *headers.Table) Option {
	return func(tr *Translator) { tr.table = t }
}

// WithEntry sets the name of the entry function (default "main").
func WithEntry(name string) Option {
	return func(tr *Translator) { tr.entry = name }
}

// WithLimits replaces the resource limits. Zero fields keep their default.
func WithLimits(l Limits) Option {
	return func(tr *Translator) {
		def := DefaultLimits()
		if l.MaxSourceBytes <= 0 {
			l.MaxSourceBytes = def.MaxSourceBytes
		}
		if l.MaxTokens <= 0 {
			l.MaxTokens = def.MaxTokens
		}
		if l.MaxDepth <= 0 {
			l.MaxDepth = def.MaxDepth
		}
		tr.limits = l
	}
}

// WithTrace writes one line per pipeline stage to w.
func WithTrace(w io.Writer) Option {
	return func(tr *Translator) { tr.trace = w }
}

// WithSourceName sets the file name used in token positions.
func WithSourceName(name string) Option {
	return func(tr *Translator) { tr.sourceName = name }
}

// New returns a Translator. Without options it uses headers.Default(),
// entry point "main" and DefaultLimits().
func New(opts ...Option) *Translator {
	tr := &Translator{
		table:      headers.Default(),
		entry:      "main",
		limits:     DefaultLimits(),
		sourceName: "input.c",
	}
	for _, o := range opts {
		o(tr)
	}
	if tr.trace == nil && os.Getenv("C2JS_DEBUG") != "" {
		tr.trace = os.Stderr
	}
	return tr
}

// Result is a successful translation.
type Result struct {
	Code       string              `json:"js" yaml:"js"`
	Structs    map[string][]string `json:"structs" yaml:"structs"`
	Macros     map[string]string   `json:"macros" yaml:"macros"`
	Undeclared []string            `json:"undeclared" yaml:"undeclared"`
}

// Translate translates src with a default Translator.
func Translate(src string) (*Result, error) {
	return New().Translate(src)
}

// Translate translates one source unit.
func (tr *Translator) Translate(src string) (*Result, error) {
	return tr.TranslateContext(context.Background(), src)
}

// TranslateFile reads and translates a source file. Positions in errors
// carry the file name.
func (tr *Translator) TranslateFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cp := *tr
	cp.sourceName = path
	return cp.Translate(string(data))
}

// Fingerprint identifies the configuration that shapes the output. Cached
// results are only valid for the same fingerprint.
func (tr *Translator) Fingerprint() string {
	return fmt.Sprintf("table=%s entry=%s src=%d tok=%d depth=%d",
		tr.table.Version(), tr.entry, tr.limits.MaxSourceBytes, tr.limits.MaxTokens, tr.limits.MaxDepth)
}

func (tr *Translator) tracef(stage, format string, args ...any) {
	if tr.trace == nil {
		return
	}
	fmt.Fprintf(tr.trace, "stage %s: %s\n", stage, fmt.Sprintf(format, args...))
}

// TranslateContext is Translate with cancellation checked between stages.
// The whole translation succeeds or nothing is returned.
func (tr *Translator) TranslateContext(ctx context.Context, src string) (*Result, error) {
	if len(src) > tr.limits.MaxSourceBytes {
		return nil, errorf(LimitError, 0, "source is %d bytes, limit is %d", len(src), tr.limits.MaxSourceBytes)
	}

	pre, err := preprocess.Process(src)
	if err != nil {
		return nil, classify(err)
	}
	tr.tracef("preprocess", "%d includes, %d defines", len(pre.Includes), len(pre.Defines))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	toks, err := parser.Lex(tr.sourceName, pre.Source)
	if err != nil {
		return nil, classify(err)
	}
	eof := toks[len(toks)-1]
	toks = toks[:len(toks)-1]
	macros, err := lexMacros(tr.sourceName, pre.Defines)
	if err != nil {
		return nil, err
	}
	tr.tracef("lex", "%d tokens, %d macros", len(toks), len(macros))

	included, err := checkHeaders(tr.table, pre.Includes, toks, macros, tr.entry)
	if err != nil {
		return nil, err
	}
	tr.tracef("headers", "%s", strings.Join(included, " "))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	expanded, err := expandMacros(toks, macros, tr.limits.MaxTokens)
	if err != nil {
		return nil, err
	}
	expanded = append(expanded, eof)
	tr.tracef("macros", "%d tokens after expansion", len(expanded)-1)

	prog, err := parser.Parse(expanded, tr.limits.MaxDepth)
	if err != nil {
		return nil, classify(err)
	}
	prog.SourceFile = tr.sourceName
	tr.tracef("parse", "%d top-level declarations", len(prog.Statements))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	structs, err := collectStructs(prog)
	if err != nil {
		return nil, err
	}
	if err := (ast.CheckChain{entryPoint(tr.entry)}).Run(prog); err != nil {
		return nil, err
	}
	prog = stripStructs.Transform(prog)
	tr.tracef("structs", "%d struct types", len(structs.fields))

	l := &lowerer{structs: structs}
	js, err := l.lowerProgram(prog, tr.entry)
	if err != nil {
		return nil, err
	}
	tr.tracef("lower", "%d globals, %d functions, %d entry statements", len(js.Globals), len(js.Funcs), len(js.Main))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user := make(map[string]bool, len(js.Funcs))
	for _, fn := range js.Funcs {
		user[fn.Name] = true
	}
	sp := &stdioPass{tbl: tr.table, licensed: tr.table.Licensed(included), user: user}
	if err := sp.program(js); err != nil {
		return nil, err
	}
	tr.tracef("stdio", "rewritten")

	shims := injectShims(tr.table, included, js)
	tr.tracef("shims", "%s", strings.Join(shims, " "))

	res := &Result{
		Code:       strings.TrimSpace(PrintJSProgram(js)),
		Structs:    structs.export(),
		Macros:     macroTable(macros),
		Undeclared: undeclared(js),
	}
	tr.tracef("undeclared", "%s", strings.Join(res.Undeclared, " "))
	return res, nil
}

// entryPoint requires a defined entry function.
func entryPoint(name string) ast.Check {
	return ast.CheckFunc{N: "entry-point", F: func(prog *ast.Program) error {
		for _, s := range prog.Statements {
			if fd, ok := s.(*ast.FuncDef); ok && fd.Name == name && fd.Body != nil {
				return nil
			}
		}
		return errorf(MissingEntryPointError, 0, "no %s function defined", name)
	}}
}
