package preprocess

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"no comment", "int x;", "int x;"},
		{"line comment", "int x; // note\nint y;", "int x; \nint y;"},
		{"line comment at eof", "int x; // note", "int x; "},
		{"block comment", "int /* a */ x;", "int   x;"},
		{"multiline block keeps lines", "a /* 1\n2\n*/ b", "a  \n\n b"},
		{"comment marker in string", `printf("// not a comment");`, `printf("// not a comment");`},
		{"block marker in string", `s = "/* x */";`, `s = "/* x */";`},
		{"quote inside comment", "a; /* don't */ b; // it's\nc;", "a;   b; \nc;"},
		{"slash char constant", "c = '/'; // x", "c = '/'; "},
		{"division", "a = b / c;", "a = b / c;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StripComments(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestStripComments_Unterminated(t *testing.T) {
	_, err := StripComments("int x;\n/* open")
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
}

func TestExtractDirectives(t *testing.T) {
	src := "#include <stdio.h>\n#include \"util.h\"\n  #define MAX 10\n# define NAME \"Bob\"\nint main() {}\n"
	res, err := ExtractDirectives(src)
	require.NoError(t, err)

	require.Len(t, res.Includes, 2)
	assert.Equal(t, Include{Name: "stdio.h", System: true, Line: 1}, res.Includes[0])
	assert.Equal(t, Include{Name: "util.h", System: false, Line: 2}, res.Includes[1])

	require.Len(t, res.Defines, 2)
	assert.Equal(t, Define{Name: "MAX", Value: "10", Line: 3}, res.Defines[0])
	assert.Equal(t, Define{Name: "NAME", Value: `"Bob"`, Line: 4}, res.Defines[1])

	assert.Equal(t, strings.Count(src, "\n"), strings.Count(res.Source, "\n"), "line count must be preserved")
	assert.NotContains(t, res.Source, "#")
	assert.Contains(t, res.Source, "int main() {}")
}

func TestExtractDirectives_EmptyDefine(t *testing.T) {
	res, err := ExtractDirectives("#define DEBUG\n")
	require.NoError(t, err)
	require.Len(t, res.Defines, 1)
	assert.Equal(t, "DEBUG", res.Defines[0].Name)
	assert.Equal(t, "", res.Defines[0].Value)
}

func TestExtractDirectives_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"function-like macro", "#define SQ(x) ((x)*(x))", "function-like macros are not supported"},
		{"conditional", "#ifdef X\n#endif", "preprocessor conditionals are not supported"},
		{"pragma", "#pragma once", "unsupported directive #pragma"},
		{"malformed include", "#include stdio.h", "malformed #include"},
		{"define without name", "#define", "requires a macro name"},
		{"numeric macro name", "#define 1X 2", "invalid macro name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractDirectives(tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.True(t, strings.HasPrefix(err.Error(), "line 1: "))
		})
	}
}

func TestProcess(t *testing.T) {
	src := "#include <math.h> // for sqrt\n#define PI 3.14 /* approx */\nint main() { return 0; }\n"
	res, err := Process(src)
	require.NoError(t, err)
	require.Len(t, res.Includes, 1)
	assert.Equal(t, "math.h", res.Includes[0].Name)
	require.Len(t, res.Defines, 1)
	assert.Equal(t, "3.14", res.Defines[0].Value)
	assert.Equal(t, "\n\nint main() { return 0; }\n", res.Source)
}
