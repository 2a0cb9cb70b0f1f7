package lang

// Runner executes one contiguous code-buffer slice. initial never changes
// once the Runner is built; curr is the remaining, not-yet-executed tail.
// "recurse" resets curr back to initial, giving tail recursion without
// growing the Go call stack; a user word's own body is each call's
// initial slice, so recursing inside a word always replays that word's
// body, never an enclosing caller's. A `rep`/`rep_and` fragment runs on a
// Runner of its own, so a `rec` or `ret` inside the repeated fragment
// acts on that fragment only.
type Runner struct {
	state   *State
	initial []Value
	curr    []Value
}

// NewRunner builds a Runner over code, which must be a slice taken
// directly from the shared CodeBuffer (never copied, since Truncate and
// Patch and the eventual growth of the buffer must never invalidate an
// in-flight Runner's view of cells already emitted).
func NewRunner(state *State, code []Value) *Runner {
	return &Runner{state: state, initial: code, curr: code}
}

// Step executes exactly one cell, returning false once the Runner is
// exhausted or the State's error has latched.
func (r *Runner) Step() bool {
	if r.state.Err != nil || len(r.curr) == 0 {
		return false
	}
	cell := r.curr[0]
	r.curr = r.curr[1:]
	r.exec(cell)
	return true
}

// Run drives the Runner to completion, stopping early if an error
// latches.
func (r *Runner) Run() {
	for r.Step() {
	}
}

// Advance fast-forwards n cells without executing them, used by `?` to
// skip over a compiled fragment.
func (r *Runner) Advance(n int) error {
	if n < 0 || n > len(r.curr) {
		return errEOL("invalid skip length")
	}
	r.curr = r.curr[n:]
	return nil
}

// Take removes and returns the next n cells without executing them,
// leaving the remainder in curr. Used by `rep_and`/`rep` to carve out the
// repeated fragment before looping over it.
func (r *Runner) Take(n int) ([]Value, error) {
	if n < 0 || n > len(r.curr) {
		return nil, errEOL("invalid fragment length")
	}
	frag := r.curr[:n]
	r.curr = r.curr[n:]
	return frag, nil
}

func (r *Runner) exec(cell Value) {
	s := r.state
	switch cell.Kind {
	case KindNumber:
		s.FailErr(s.Stack.Push(cell.Number))
	case KindPrimitive:
		prim := s.Primitives[cell.Idx]
		s.logf("run", "primitive %s", prim.Name)
		s.FailErr(prim.Fn(s))
	case KindWord:
		uw := s.Words.At(cell.Idx)
		s.logf("run", "word %s", uw.Name)
		RunWord(s, cell.Idx)
	case KindRawFunction:
		s.logf("run", "raw %s", cell.Raw.Name)
		s.FailErr(cell.Raw.Run(r))
	case KindSyntax:
		s.Fail(errSyntaxInRunMode)
	default:
		s.Fail(errEOL("unrunnable cell kind %s", cell.Kind))
	}
}

// RunWord runs the user word at idx to completion against state, as a
// fresh Runner over that word's own code slice. Every word call, whether
// from the top-level interpreter or nested inside another word's body,
// goes through here so "recurse" always has the right initial slice to
// replay.
func RunWord(state *State, idx uint64) {
	uw := state.Words.At(idx)
	cells := state.Code.Slice(uw.CodePos, uw.CodeLen)
	NewRunner(state, cells).Run()
}
