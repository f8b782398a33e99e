package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/c2js/headers"
)

func TestPrintf(t *testing.T) {
	tests := []struct {
		name string
		call string
		want string
	}{
		{"plain", `printf("hi\n");`, "console.log(`hi`);"},
		{"only one newline stripped", `printf("hi\n\n");`, "console.log(`hi\\n`);"},
		{"escaped backslash before n", `printf("a\\n");`, "console.log(`a\\\\n`);"},
		{"percent", `printf("100%%\n");`, "console.log(`100%`);"},
		{"ints", `printf("%d + %i = %u", a, b, a + b);`, "console.log(`${a} + ${b} = ${a + b}`);"},
		{"precision", `printf("%.2f\n", f);`, "console.log(`${f.toFixed(2)}`);"},
		{"precision on expression", `printf("%.1lf", f * 2);`, "console.log(`${(f * 2).toFixed(1)}`);"},
		{"precision on literal", `printf("%.3f", 1.5);`, "console.log(`${(1.5).toFixed(3)}`);"},
		{"exponent", `printf("%.2e", f);`, "console.log(`${f.toExponential(2)}`);"},
		{"plain float", `printf("%f %g", f, f);`, "console.log(`${f} ${f}`);"},
		{"hex", `printf("%x", a);`, "console.log(`${a.toString(16)}`);"},
		{"upper hex", `printf("%X", a);`, "console.log(`${a.toString(16).toUpperCase()}`);"},
		{"width", `printf("[%5d]", a);`, "console.log(`[${String(a).padStart(5)}]`);"},
		{"left", `printf("[%-5d]", a);`, "console.log(`[${String(a).padEnd(5)}]`);"},
		{"zero pad", `printf("%03d", a);`, "console.log(`${String(a).padStart(3, \"0\")}`);"},
		{"zero pad on text", `printf("%05s", s);`, "console.log(`${String(s).padStart(5)}`);"},
		{"string and char", `printf("%s=%c", s, 'x');`, "console.log(`${s}=${'x'}`);"},
		{"backtick", "printf(\"a`b\");", "console.log(`a\\`b`);"},
		{"dollar brace", `printf("${a}");`, "console.log(`\\${a}`);"},
		{"lone dollar", `printf("$5");`, "console.log(`$5`);"},
		{"octal escape", `printf("\033[0m");`, "console.log(`\\x1b[0m`);"},
		{"nul before digit", `printf("a\08");`, "console.log(`a\\x008`);"},
		{"lone nul", `printf("a\0b");`, "console.log(`a\\0b`);"},
		{"largest octal", `printf("\377");`, "console.log(`\\xff`);"},
		{"adjacent literals", `printf("a" "%d", a);`, "console.log(`a${a}`);"},
		{"puts", `puts("done");`, `console.log("done");`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "#include <stdio.h>\nint main() { int a, b; double f; char s[4]; " + tt.call + " }"
			res := translate(t, src)
			assert.Equal(t, "let a;\nlet b;\nlet f;\nlet s = Array(4).fill(0);\n"+tt.want, res.Code)
		})
	}
}

func TestOctalEscapeOutOfRange(t *testing.T) {
	e := translateErr(t, "#include <stdio.h>\nint main() {\n    printf(\"\\777\");\n}")
	assert.Equal(t, SyntaxError, e.Kind)
	assert.Equal(t, 3, e.Pos.Line)
	assert.Contains(t, e.Msg, "out of range")
}

func TestScanf(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"number", `scanf("%d", &n);`, "n = Number(prompt());"},
		{"float", `scanf("%lf", &f);`, "f = Number(prompt());"},
		{"char", `scanf(" %c", &c);`, "c = prompt()[0];"},
		{"text", `scanf("%s", s);`, "s = prompt();"},
		{"several", `scanf("%d,%lf", &n, &f);`, "n = Number(prompt());\nf = Number(prompt());"},
		{"element", `scanf("%d", &v[1]);`, "v[1] = Number(prompt());"},
		{"prompted char", "printf(\"Pick: \");\nscanf(\"%c\", &c);", `c = prompt("Pick: ")[0];`},
		{"prompted text", "printf(\"Name?\\n\");\nscanf(\"%s\", s);", `s = prompt("Name?");`},
		{"prompt keeps percent", "printf(\"Rate %%: \");\nscanf(\"%d\", &n);", `n = Number(prompt("Rate %: "));`},
		{"printf with args is not a prompt", "printf(\"%d> \", n);\nscanf(\"%d\", &n);",
			"console.log(`${n}> `);\nn = Number(prompt());"},
		{"two values are not a prompt", "printf(\"Pair: \");\nscanf(\"%d %d\", &n, &v[0]);",
			"console.log(`Pair: `);\nn = Number(prompt());\nv[0] = Number(prompt());"},
		{"nested in loop", "while (n < 3) { printf(\"n? \"); scanf(\"%d\", &n); }",
			"while (n < 3) {\n    n = Number(prompt(\"n? \"));\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "#include <stdio.h>\nint main() { int n; double f; char c; char s[8]; int v[2]; " + tt.body + " }"
			res := translate(t, src)
			decls := "let n;\nlet f;\nlet c;\nlet s = Array(8).fill(0);\nlet v = Array(2).fill(0);\n"
			assert.Equal(t, decls+tt.want, res.Code)
		})
	}
}

func TestScanfStructField(t *testing.T) {
	res := translate(t, `#include <stdio.h>
struct P { int x; };
int main() {
    struct P p;
    printf("x: ");
    scanf("%d", &p.x);
}`)
	assert.Equal(t, "let p = { x: 0 };\np.x = Number(prompt(\"x: \"));", res.Code)
}

func TestScanfBadDestination(t *testing.T) {
	e := translateErr(t, "#include <stdio.h>\nint main() { int n; scanf(\"%d\", n + 1); }")
	assert.Equal(t, SyntaxError, e.Kind)
	assert.Contains(t, e.Msg, "destination")
}

func TestStringFunctions(t *testing.T) {
	res := translate(t, `#include <string.h>
int main() {
    char a[8];
    char b[8] = "xy";
    strcpy(a, b);
    strcat(a, "!");
    int n = strlen(a);
}`)
	want := "const strlen = (s) => s.length;\n\n" +
		"let a = Array(8).fill(0);\nlet b = \"xy\";\na = b;\na += \"!\";\nlet n = strlen(a);"
	assert.Equal(t, want, res.Code)
}

func TestUserFunctionShadowsLibraryName(t *testing.T) {
	res := translate(t, `#include <stdio.h>
void puts(int n) {
    printf("%d\n", n);
}
int main() {
    puts(3);
}`)
	assert.Contains(t, res.Code, "function puts(n) {")
	assert.Contains(t, res.Code, "\n\nputs(3);")
}

func TestParseFormat(t *testing.T) {
	tbl := headers.Default()
	pieces, err := parseFormat(tbl, `a%-08.3lfb%%c\\%d`, 1)
	require.NoError(t, err)
	require.Len(t, pieces, 3)
	spec := pieces[0].Spec
	require.NotNil(t, spec)
	assert.Equal(t, "a", pieces[0].Lit)
	assert.Equal(t, "%-08.3lf", spec.Text)
	assert.Equal(t, "-0", spec.Flags)
	assert.Equal(t, 8, spec.Width)
	assert.Equal(t, 3, spec.Prec)
	assert.Equal(t, byte('f'), spec.Verb)
	assert.Equal(t, headers.Numeric, spec.Conv)
	assert.Equal(t, `b%c\\`, pieces[1].Lit)
	assert.Equal(t, byte('d'), pieces[1].Spec.Verb)
	assert.Nil(t, pieces[2].Spec)
	assert.Equal(t, 2, specCount(pieces))
}

func TestParseFormatErrors(t *testing.T) {
	tbl := headers.Default()
	for _, f := range []string{"%", "%5", "%.", "%y", "%*d", "%.*f", "%[abc]", "%ll"} {
		_, err := parseFormat(tbl, f, 1)
		assert.True(t, IsKind(err, UnsupportedFormatError), "%q: %v", f, err)
	}
}

func TestStripNewline(t *testing.T) {
	assert.Equal(t, "a", stripNewline(`a\n`))
	assert.Equal(t, `a\n`, stripNewline(`a\n\n`))
	assert.Equal(t, `a\\n`, stripNewline(`a\\n`))
	assert.Equal(t, `a\\`, stripNewline(`a\\\n`))
	assert.Equal(t, "", stripNewline(`\n`))
	assert.Equal(t, "n", stripNewline("n"))
}
