package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeScanner_BasicIteration(t *testing.T) {
	sc := New("ab")
	assert.Equal(t, -1, sc.Pos())

	ch, ok := sc.Next()
	require.True(t, ok)
	assert.Equal(t, byte('a'), ch)
	assert.Equal(t, 0, sc.Pos())

	ch, ok = sc.Next()
	require.True(t, ok)
	assert.Equal(t, byte('b'), ch)

	_, ok = sc.Next()
	assert.False(t, ok)
}

func TestCodeScanner_LineTracking(t *testing.T) {
	sc := New("a\nb")
	sc.Next()
	assert.Equal(t, 1, sc.Line())
	sc.Next()
	assert.Equal(t, 2, sc.Line())
	sc.Next()
	assert.Equal(t, 2, sc.Line())
}

// inStringMap returns, for each byte, whether the scanner considered it part
// of a literal.
func inStringMap(src string) []bool {
	var out []bool
	sc := New(src)
	for _, ok := sc.Next(); ok; _, ok = sc.Next() {
		out = append(out, sc.InString())
	}
	return out
}

func TestCodeScanner_StringSpans(t *testing.T) {
	got := inStringMap(`x"a"y`)
	assert.Equal(t, []bool{false, true, true, true, false}, got)
}

func TestCodeScanner_CharConstant(t *testing.T) {
	got := inStringMap(`c='"';`)
	assert.Equal(t, []bool{false, false, true, true, true, false}, got)
}

func TestCodeScanner_EscapedQuote(t *testing.T) {
	got := inStringMap(`"a\"b"c`)
	for i := 0; i < 6; i++ {
		assert.True(t, got[i], "byte %d should be inside the literal", i)
	}
	assert.False(t, got[6])
}

func TestCodeScanner_NewlineEndsBrokenLiteral(t *testing.T) {
	sc := New("\"abc\nx")
	for i := 0; i < 4; i++ {
		sc.Next()
	}
	assert.True(t, sc.Open())
	sc.Next() // newline
	assert.False(t, sc.Open())
	sc.Next()
	assert.True(t, sc.InCode())
}

func TestCodeScanner_LookingAtAndPeek(t *testing.T) {
	sc := New("a//b")
	sc.Next()
	next, ok := sc.Peek()
	require.True(t, ok)
	assert.Equal(t, byte('/'), next)
	sc.Next()
	assert.True(t, sc.LookingAt("//"))
	assert.Equal(t, 2, sc.Skip(5))
}
