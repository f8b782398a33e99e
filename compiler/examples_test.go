package compiler

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exampleFragments lists output every example must contain.
var exampleFragments = map[string][]string{
	"hello.c": {
		"console.log(`Hello ${5}`);\nconsole.log(\"bye\");",
	},
	"points.c": {
		"let origin = { x: 0, y: 0 };\nlet corner = { x: 4, y: 2 };\n",
		"let team = Array.from({ length: (3) }, () => ({ name: 0, score: 0 }));\n",
		"for (i = 0; i < (3); i++) {\n    team[i].score = i * 1.5;\n}",
		"console.log(`corner: (${corner.x}, ${corner.y})`);",
		"console.log(`last score: ${team[(3) - 1].score.toFixed(1)}`);",
	},
	"functions.c": {
		"const sqrt = Math.sqrt;\n\nfunction square(n) {\n    return n * n;\n}\n\nfunction hypotenuse(a, b) {\n",
		"let sides = [3, 4];\nconsole.log(`hypotenuse: ${hypotenuse(sides[0], sides[1]).toFixed(2)}`);",
	},
	"input.c": {
		"age = Number(prompt(\"How old are you? \"));\ninitial = prompt(\"Your initial: \")[0];\nname = prompt();\n",
		"} else if (age > 12) {\n    console.log(`${name} is a teenager`);\n} else {",
	},
	"strings.c": {
		"const strlen = (s) => s.length;\nconst strcmp = (a, b) => (a < b ? -1 : a > b ? 1 : 0);\n\n",
		"target = \"world\";\ngreeting += \", \";\ngreeting += target;\n",
		"console.log(`${greeting} (${strlen(greeting)} chars)`);",
	},
	"grid.c": {
		"let grid = Array.from({ length: (2) }, () => Array((3)).fill(0));\nlet primes = [2, 3, 5, 7];\nlet r;\nlet c;\n",
		"for (let k = 0; k < (3); k++) {",
		"console.log(`${String(primes[c]).padStart(4)}|${String(primes[c]).padEnd(4)}|${String(primes[c]).padStart(4, \"0\")}`);",
		"console.log(`0x${(255).toString(16)} 0x${(255).toString(16).toUpperCase()}`);",
	},
}

func TestExamples(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "examples", "*.c"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	tr := New()
	for _, path := range files {
		name := filepath.Base(path)
		t.Run(name, func(t *testing.T) {
			res, err := tr.TranslateFile(path)
			require.NoError(t, err)
			assert.Empty(t, res.Undeclared)
			assert.NotContains(t, res.Code, "return 0")
			assert.Equal(t, strings.TrimSpace(res.Code), res.Code)
			for _, frag := range exampleFragments[name] {
				assert.Contains(t, res.Code, frag)
			}
		})
	}
	assert.Len(t, files, len(exampleFragments), "every example needs expected fragments")
}

func TestTranslateFileMissing(t *testing.T) {
	_, err := New().TranslateFile(filepath.Join(t.TempDir(), "nope.c"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
