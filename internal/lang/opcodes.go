package lang

import (
	"fmt"
	"strconv"
	"strings"
)

// The six synthetic opcodes below are never named by the resolver; the
// compiler alone emits cells referencing them, so there is no primitive
// or syntax table entry for any of them.

var rfRecurse = &RawFunction{Name: "recurse", Run: runRecurse}
var rfReturn = &RawFunction{Name: "return_rf", Run: runReturn}
var rfSkip = &RawFunction{Name: "skip", Run: runSkip}
var rfRepAnd = &RawFunction{Name: "rep_and", Run: runRepAnd}
var rfPrintRaw = &RawFunction{Name: "print_raw", Run: runPrintRaw}
var rfPrintDefinition = &RawFunction{Name: "print_definition_rf", Run: runPrintDefinition}

// runRecurse replays the enclosing word's body from the top.
func runRecurse(r *Runner) error {
	r.curr = r.initial
	return nil
}

// runReturn ends the current word call immediately.
func runReturn(r *Runner) error {
	r.curr = r.curr[:0]
	return nil
}

// runSkip backs `?`: pops the pre-pushed skip length, then the boolean
// underneath it, and advances past the compiled "then" fragment when the
// boolean is false.
func runSkip(r *Runner) error {
	lw, err := r.state.Stack.Pop()
	if err != nil {
		return err
	}
	bw, err := r.state.Stack.Pop()
	if err != nil {
		return err
	}
	if !bw.Truthy() {
		return r.Advance(int(lw.Sign()))
	}
	return nil
}

// runRepAnd backs `rep_and` (and, via a trailing `drop` cell compiled
// after it, `rep`): pops the fragment length and the repeat count, then
// runs the compiled fragment that many times before leaving the count on
// the stack for the caller.
func runRepAnd(r *Runner) error {
	lw, err := r.state.Stack.Pop()
	if err != nil {
		return err
	}
	nw, err := r.state.Stack.Pop()
	if err != nil {
		return err
	}
	frag, err := r.Take(int(lw.Sign()))
	if err != nil {
		return err
	}
	n := nw.Sign()
	for i := int64(0); i < n; i++ {
		sub := NewRunner(r.state, frag)
		sub.Run()
		if r.state.Err != nil {
			return nil
		}
	}
	return r.state.Stack.Push(nw)
}

// runPrintRaw backs compiled `help`: pops an interned-string handle and
// prints the text the compiler stashed there.
func runPrintRaw(r *Runner) error {
	hw, err := r.state.Stack.Pop()
	if err != nil {
		return err
	}
	_, werr := fmt.Fprintln(r.state.Out, r.state.Strings.Get(hw.Pos()))
	return werr
}

// runPrintDefinition backs compiled `def`: pops a user-word index and
// pretty-prints its name, description, and compiled body.
func runPrintDefinition(r *Runner) error {
	iw, err := r.state.Stack.Pop()
	if err != nil {
		return err
	}
	text, derr := renderDefinition(r.state, iw.Pos())
	if derr != nil {
		return derr
	}
	_, werr := fmt.Fprintln(r.state.Out, text)
	return werr
}

// renderDefinition formats a user word the way `def` displays it,
// whether reached directly (interpreted) or through the compiled
// print_definition_rf opcode.
func renderDefinition(s *State, idx uint64) (string, *Error) {
	if idx >= uint64(s.Words.Len()) {
		return "", errEOL("def: no such word")
	}
	uw := s.Words.At(idx)
	cells := s.Code.Slice(uw.CodePos, uw.CodeLen)

	var sb strings.Builder
	sb.WriteString(": ")
	sb.WriteString(uw.Name)
	if uw.Desc != "" {
		sb.WriteString(" ( ")
		sb.WriteString(uw.Desc)
		sb.WriteString(" )")
	}
	for _, c := range cells {
		sb.WriteString(" ")
		sb.WriteString(cellText(s, c))
	}
	sb.WriteString(" ;")
	return sb.String(), nil
}

// cellText renders one compiled cell the way `def` displays it: numbers
// as decimal literals, everything else by the name it was looked up
// under (or, for a synthetic opcode, its internal name).
func cellText(s *State, c Value) string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatInt(c.Number.Sign(), 10)
	case KindPrimitive:
		return s.Primitives[c.Idx].Name
	case KindSyntax:
		return s.Syntax[c.Idx].Name
	case KindWord:
		return s.Words.At(c.Idx).Name
	case KindRawFunction:
		return c.Raw.Name
	default:
		return "?"
	}
}
