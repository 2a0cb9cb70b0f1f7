package lang

import (
	"fmt"
	"strings"

	"github.com/Ruan-pysoft/mieliepit/internal/runeio"
)

// Primitive is a built-in operation: {name, desc, fn(state)}. Each
// primitive that pops operands checks the stack depth itself and fails
// with a kind-specific error; each that pushes checks capacity via
// Stack.Push.
type Primitive struct {
	Name string
	Desc string
	Fn   func(s *State) error
}

const stackDumpLimit = 16

// primitiveTable is the full built-in primitive set.
var primitiveTable = []Primitive{
	// Stack
	{".", "print the whole stack, top first, capped at 16 entries", primDot},
	{"stack_len", "( -- n ) push the current stack depth", primStackLen},
	{"dup", "( a -- a a ) duplicate the top of the stack", primDup},
	{"swap", "( a b -- b a ) swap the top two elements", primSwap},
	{"rot", "( a b c -- b c a ) rotate the top three elements", primRot},
	{"unrot", "( a b c -- c a b ) rotate the top three elements the other way", primUnrot},
	{"rev", "( a b c -- c b a ) reverse the top three elements", primRev},
	{"drop", "( a -- ) discard the top of the stack", primDrop},
	{"rev_n", "( ... n -- ... ) reverse the top n elements in place", primRevN},
	{"nth", "( ... n -- ... x ) duplicate the n-th element, 1-based from the top", primNth},

	// Arithmetic
	{"inc", "( a -- a+1 ) increment", primInc},
	{"dec", "( a -- a-1 ) decrement", primDec},
	{"+", "( a b -- a+b ) add", primAdd},
	{"*", "( a b -- a*b ) multiply", primMul},
	{"/", "( a b -- a/b ) signed divide", primDiv},

	// Bitwise
	{"shl", "( a n -- a<<n ) shift left; n >= word size yields 0", primShl},
	{"shr", "( a n -- a>>n ) shift right; n >= word size yields 0", primShr},
	{"or", "( a b -- a|b ) bitwise or", primOr},
	{"and", "( a b -- a&b ) bitwise and", primAnd},
	{"xor", "( a b -- a^b ) bitwise xor", primXor},
	{"not", "( a -- ~a ) bitwise complement", primNot},

	// Comparison
	{"=", "( a b -- -1|0 ) equality", primEq},
	{"<", "( a b -- -1|0 ) signed less-than", primLt},

	// Literals
	{"true", "( -- -1 ) push true", primTrue},
	{"false", "( -- 0 ) push false", primFalse},

	// Output
	{"print", "( a -- ) print signed, with a trailing space", primPrint},
	{"pstr", "( a -- ) print up to 8 packed ASCII bytes from a, stopping at the first NUL", primPstr},
	{"print_string", "( ... n -- ) print n packed-word string cells", primPrintString},

	// System
	{"exit", "request interpreter loop termination", primExit},
	{"quit", "request interpreter loop termination", primExit},

	// Reflective
	{"syntax", "print the syntax-form table", primListSyntax},
	{"primitives", "print the primitive table", primListPrimitives},
	{"words", "print every defined user word", primListWords},
	{"guide", "print the built-in guide text", primGuide},
}

func primDot(s *State) error {
	words := s.Stack.Words()
	if len(words) == 0 {
		fmt.Fprintln(s.Out, "empty.")
		return nil
	}
	n := len(words)
	shown := n
	if shown > stackDumpLimit {
		shown = stackDumpLimit
		fmt.Fprint(s.Out, "... ")
	}
	for i := 0; i < shown; i++ {
		fmt.Fprintf(s.Out, "%d ", words[n-1-i].Sign())
	}
	fmt.Fprintln(s.Out)
	return nil
}

func primStackLen(s *State) error {
	return s.Stack.Push(Word(uint64(s.Stack.Len())))
}

func primDup(s *State) error {
	a, err := s.Stack.Peek(0)
	if err != nil {
		return err
	}
	return s.Stack.Push(a)
}

func primSwap(s *State) error {
	if err := s.Stack.Require(2); err != nil {
		return err
	}
	b, _ := s.Stack.Pop()
	a, _ := s.Stack.Pop()
	if err := s.Stack.Push(b); err != nil {
		return err
	}
	return s.Stack.Push(a)
}

func primRot(s *State) error {
	if err := s.Stack.Require(3); err != nil {
		return err
	}
	c, _ := s.Stack.Pop()
	b, _ := s.Stack.Pop()
	a, _ := s.Stack.Pop()
	for _, w := range []Word{b, c, a} {
		if err := s.Stack.Push(w); err != nil {
			return err
		}
	}
	return nil
}

func primUnrot(s *State) error {
	if err := s.Stack.Require(3); err != nil {
		return err
	}
	c, _ := s.Stack.Pop()
	b, _ := s.Stack.Pop()
	a, _ := s.Stack.Pop()
	for _, w := range []Word{c, a, b} {
		if err := s.Stack.Push(w); err != nil {
			return err
		}
	}
	return nil
}

func primRev(s *State) error {
	if err := s.Stack.Require(3); err != nil {
		return err
	}
	c, _ := s.Stack.Pop()
	b, _ := s.Stack.Pop()
	a, _ := s.Stack.Pop()
	for _, w := range []Word{c, b, a} {
		if err := s.Stack.Push(w); err != nil {
			return err
		}
	}
	return nil
}

func primDrop(s *State) error {
	_, err := s.Stack.Pop()
	return err
}

func primRevN(s *State) error {
	n, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	count := int(n.Sign())
	if count < 0 {
		return errEOL("rev_n: negative count")
	}
	return s.Stack.ReverseN(count)
}

func primNth(s *State) error {
	n, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	if n.Sign() == 0 {
		return errEOL("nth: n must not be 0")
	}
	x, err := s.Stack.Peek(int(n.Sign()) - 1)
	if err != nil {
		return err
	}
	return s.Stack.Push(x)
}

func binaryOp(s *State, f func(a, b Word) Word) error {
	if err := s.Stack.Require(2); err != nil {
		return err
	}
	b, _ := s.Stack.Pop()
	a, _ := s.Stack.Pop()
	return s.Stack.Push(f(a, b))
}

func unaryOp(s *State, f func(a Word) Word) error {
	a, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	return s.Stack.Push(f(a))
}

func primInc(s *State) error { return unaryOp(s, func(a Word) Word { return Word(a.Pos() + 1) }) }
func primDec(s *State) error { return unaryOp(s, func(a Word) Word { return Word(a.Pos() - 1) }) }

func primAdd(s *State) error {
	return binaryOp(s, func(a, b Word) Word { return Word(a.Pos() + b.Pos()) })
}
func primMul(s *State) error {
	return binaryOp(s, func(a, b Word) Word { return Word(a.Pos() * b.Pos()) })
}

func primDiv(s *State) error {
	if err := s.Stack.Require(2); err != nil {
		return err
	}
	b, _ := s.Stack.Pop()
	a, _ := s.Stack.Pop()
	if b.Sign() == 0 {
		return errEOL("division by zero")
	}
	return s.Stack.Push(Word(a.Sign() / b.Sign()))
}

const wordBits = 64

func primShl(s *State) error {
	return binaryOp(s, func(a, n Word) Word {
		if n.Pos() >= wordBits {
			return 0
		}
		return Word(a.Pos() << n.Pos())
	})
}

func primShr(s *State) error {
	return binaryOp(s, func(a, n Word) Word {
		if n.Pos() >= wordBits {
			return 0
		}
		return Word(a.Pos() >> n.Pos())
	})
}

func primOr(s *State) error  { return binaryOp(s, func(a, b Word) Word { return a | b }) }
func primAnd(s *State) error { return binaryOp(s, func(a, b Word) Word { return a & b }) }
func primXor(s *State) error { return binaryOp(s, func(a, b Word) Word { return a ^ b }) }
func primNot(s *State) error { return unaryOp(s, func(a Word) Word { return ^a }) }

func primEq(s *State) error {
	return binaryOp(s, func(a, b Word) Word { return WordFromBool(a == b) })
}
func primLt(s *State) error {
	return binaryOp(s, func(a, b Word) Word { return WordFromBool(a.Sign() < b.Sign()) })
}

func primTrue(s *State) error  { return s.Stack.Push(True) }
func primFalse(s *State) error { return s.Stack.Push(False) }

func primPrint(s *State) error {
	a, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "%d ", a.Sign())
	return nil
}

// packedBytesLSBFirst unpacks w's bytes starting at the least-significant
// byte, as produced by the `'` short-string literal.
func packedBytesLSBFirst(w Word) []byte {
	buf := make([]byte, wordBits/8)
	v := w.Pos()
	for i := range buf {
		buf[i] = byte(v)
		v >>= 8
	}
	return buf
}

// packedBytesMSBFirst unpacks w's bytes starting at the most-significant
// byte, as produced by the `"` multi-word string literal: buf[0] is the
// first character packed in, buf[7] the last (or the zero pad).
func packedBytesMSBFirst(w Word) []byte {
	buf := make([]byte, wordBits/8)
	v := w.Pos()
	for i := len(buf) - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	return buf
}

func primPstr(s *State) error {
	a, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	_, werr := runeio.WriteASCIIBytes(s.Out, string(packedBytesLSBFirst(a)))
	return werr
}

func primPrintString(s *State) error {
	n, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	count := int(n.Sign())
	if count < 0 {
		return errEOL("print_string: negative length")
	}
	if err := s.Stack.Require(count); err != nil {
		return err
	}
	words := make([]Word, count)
	for i := count - 1; i >= 0; i-- {
		words[i], _ = s.Stack.Pop()
	}
	var sb strings.Builder
	for _, w := range words {
		sb.Write(packedBytesMSBFirst(w))
	}
	_, werr := runeio.WriteASCIIBytes(s.Out, sb.String())
	return werr
}

func primExit(s *State) error {
	s.Quit()
	return nil
}

func primListSyntax(s *State) error {
	names := make([]string, len(s.Syntax))
	for i, f := range s.Syntax {
		names[i] = f.Name
	}
	fmt.Fprintln(s.Out, strings.Join(names, " "))
	return nil
}

func primListPrimitives(s *State) error {
	names := make([]string, len(s.Primitives))
	for i, p := range s.Primitives {
		names[i] = p.Name
	}
	fmt.Fprintln(s.Out, strings.Join(names, " "))
	return nil
}

func primListWords(s *State) error {
	fmt.Fprintln(s.Out, strings.Join(s.Words.Names(), " "))
	return nil
}

const guideText = `Mieliepit: a small stack-based concatenative language.
Enter whitespace-separated tokens; numbers push, words run.
": name ( desc ) ... ;" defines a word. "( ... )" is a comment.
"help <word>" shows documentation; "def <word>" dumps a definition.
"primitives", "syntax", and "words" list the built-in and user tables.`

func primGuide(s *State) error {
	fmt.Fprintln(s.Out, guideText)
	return nil
}
