package lang

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runLines builds a fresh State and feeds each line through a new
// Interpreter, the way the REPL's outer loop does, returning the
// captured output and the final State for further assertions.
func runLines(t *testing.T, lines ...string) (*State, string) {
	t.Helper()
	var out bytes.Buffer
	s, err := New(WithOutput(&out))
	require.NoError(t, err)
	for _, line := range lines {
		s.ClearError()
		s.RunLine(line)
		s.RenderError()
	}
	return s, out.String()
}

func words(s *State) []int64 {
	ws := s.Stack.Words()
	out := make([]int64, len(ws))
	for i, w := range ws {
		out[i] = w.Sign()
	}
	return out
}

func TestArithmetic(t *testing.T) {
	s, _ := runLines(t, "2 3 +")
	assert.Equal(t, []int64{5}, words(s))
	assert.Nil(t, s.Err)

	s, _ = runLines(t, "7 2 -")
	assert.Equal(t, []int64{5}, words(s))

	s, _ = runLines(t, "6 0 /")
	require.NotNil(t, s.Err)
	assert.Equal(t, "division by zero", s.Err.Mess)
}

func TestStackOps(t *testing.T) {
	s, _ := runLines(t, "1 2 3 rot")
	assert.Equal(t, []int64{2, 3, 1}, words(s))

	s, _ = runLines(t, "1 2 swap")
	assert.Equal(t, []int64{2, 1}, words(s))

	s, _ = runLines(t, "1 2 3 dup")
	assert.Equal(t, []int64{1, 2, 3, 3}, words(s))

	s, _ = runLines(t, "drop")
	require.NotNil(t, s.Err)
}

func TestRevNNegativeCountErrors(t *testing.T) {
	s, _ := runLines(t, "1 2 true rev_n")
	require.NotNil(t, s.Err)
	assert.Equal(t, []int64{1, 2}, words(s))

	s, _ = runLines(t, "1 2 3 0 1 - rev_n")
	require.NotNil(t, s.Err)
}

func TestComparisons(t *testing.T) {
	s, _ := runLines(t, "3 3 =")
	assert.Equal(t, []int64{-1}, words(s))

	s, _ = runLines(t, "3 4 <")
	assert.Equal(t, []int64{-1}, words(s))

	s, _ = runLines(t, "3 3 !=")
	assert.Equal(t, []int64{0}, words(s))

	s, _ = runLines(t, "4 3 >")
	assert.Equal(t, []int64{-1}, words(s))

	s, _ = runLines(t, "3 3 <=")
	assert.Equal(t, []int64{-1}, words(s))

	s, _ = runLines(t, "3 3 >=")
	assert.Equal(t, []int64{-1}, words(s))
}

func TestWordDefinitionAndRun(t *testing.T) {
	s, _ := runLines(t, ": double ( n -- 2n ) dup + ;", "21 double")
	assert.Equal(t, []int64{42}, words(s))
	_, found := s.Words.Lookup("double")
	assert.True(t, found)
}

func TestRedefinitionShadows(t *testing.T) {
	s, _ := runLines(t,
		": one 1 ;",
		": one 2 ;",
		"one")
	assert.Equal(t, []int64{2}, words(s))
}

func TestConditionalSkip(t *testing.T) {
	s, _ := runLines(t, ": pick1 ( bool -- n ) ? 1 2 ;", "true pick1")
	assert.Equal(t, []int64{1, 2}, words(s))

	s, _ = runLines(t, ": pick2 ( bool -- n ) ? 1 2 ;", "false pick2")
	assert.Equal(t, []int64{2}, words(s))
}

func TestRecurseAndReturn(t *testing.T) {
	// countdown: push n, decrement it each pass until it hits 0, then
	// stop via ret; otherwise loop via rec.
	s, _ := runLines(t,
		": countdown ( n -- 0 ) dup 0 = ? [ ret ] dec rec ;",
		"5 countdown")
	require.Nil(t, s.Err)
	assert.Equal(t, []int64{0}, words(s))
}

func TestRepAndRepAnd(t *testing.T) {
	s, _ := runLines(t, "0 3 rep [ inc ]")
	assert.Equal(t, []int64{3}, words(s))

	s, _ = runLines(t, "0 3 rep_and [ inc ]")
	assert.Equal(t, []int64{3, 3}, words(s))
}

func TestPowerPrelude(t *testing.T) {
	s, _ := runLines(t, "2 10 ^")
	assert.Equal(t, []int64{1024}, words(s))

	s, _ = runLines(t, "7 0 ^")
	assert.Equal(t, []int64{1}, words(s))
}

func TestClearPrelude(t *testing.T) {
	s, _ := runLines(t, "1 2 3 clear")
	assert.Equal(t, 0, s.Stack.Len())
	assert.Nil(t, s.Err)
}

func TestShortString(t *testing.T) {
	s, _ := runLines(t, "' abc")
	assert.Equal(t, []int64{0x636261}, words(s))
}

func TestShortStringTooLong(t *testing.T) {
	s, _ := runLines(t, "' 123456789")
	require.NotNil(t, s.Err)
}

func TestMultiWordStringAndPrint(t *testing.T) {
	s, out := runLines(t, `" hi there " print_string`)
	require.Nil(t, s.Err)
	assert.Equal(t, "hithere", out)
}

func TestHelp(t *testing.T) {
	_, out := runLines(t, "help dup")
	assert.Contains(t, out, "dup")
}

func TestDef(t *testing.T) {
	_, out := runLines(t, ": sq ( n -- n*n ) dup * ;", "def sq")
	assert.Contains(t, out, ": sq")
	assert.Contains(t, out, "dup")
	assert.Contains(t, out, "*")
}

func TestComment(t *testing.T) {
	s, _ := runLines(t, `1 ( this is a ] comment, drop rec ) 2 +`)
	assert.Equal(t, []int64{3}, words(s))
	assert.Nil(t, s.Err)
}

func TestCommentWithNestedQuote(t *testing.T) {
	s, _ := runLines(t, `1 ( a quoted " close paren ) inside " here ) 2 +`)
	assert.Equal(t, []int64{3}, words(s))
	assert.Nil(t, s.Err)
}

func TestUndefinedWordError(t *testing.T) {
	s, out := runLines(t, "bogus")
	require.NotNil(t, s.Err)
	assert.Equal(t, "undefined word", s.Err.Mess)
	assert.Contains(t, out, "@ word starting at 0: bogus")
}

func TestCompileErrorTruncatesCodeBuffer(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	before := s.Code.Len()

	s.RunLine(": foo 1 2 bogus ;")
	require.NotNil(t, s.Err)
	assert.Equal(t, "undefined word", s.Err.Mess)
	assert.Equal(t, before, s.Code.Len())
	_, found := s.Words.Lookup("foo")
	assert.False(t, found)

	// the buffer space is usable again afterwards, not permanently leaked
	s.ClearError()
	s.RunLine(": foo 1 2 + ;")
	require.Nil(t, s.Err)
	s.RunLine("foo")
	require.Nil(t, s.Err)
	assert.Equal(t, []int64{3}, words(s))
}

func TestUnterminatedWordTruncatesCodeBuffer(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	before := s.Code.Len()

	s.RunLine(": foo 1 2")
	require.NotNil(t, s.Err)
	assert.Equal(t, errUnterminatedWord.Mess, s.Err.Mess)
	assert.Equal(t, before, s.Code.Len())
}

func TestColonInsideWordErrors(t *testing.T) {
	s, _ := runLines(t, ": a : b ; ;")
	require.NotNil(t, s.Err)
	assert.Equal(t, errColonInsideWord.Mess, s.Err.Mess)
}

func TestRecOutsideWordErrors(t *testing.T) {
	s, _ := runLines(t, "rec")
	require.NotNil(t, s.Err)
	assert.Equal(t, errRecRetOutsideWord.Mess, s.Err.Mess)
}

func TestExit(t *testing.T) {
	s, _ := runLines(t, "exit")
	assert.True(t, s.Quitting())
}
