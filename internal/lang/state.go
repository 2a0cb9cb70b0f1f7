package lang

import (
	"io"

	"github.com/Ruan-pysoft/mieliepit/internal/flushio"
)

// State is the process-wide, lifetime-tied environment shared by every
// Interpreter and Runner: the data stack, the code buffer, the user-word
// store, the (fixed) primitive and syntax tables, and the latched error.
type State struct {
	Stack *Stack
	Code  *CodeBuffer
	Words *WordStore

	Primitives []Primitive
	Syntax     []Syntax
	Strings    StringPool

	// Err is the latched error for the current line. All loops in the
	// interpreter and runner are guarded by Err == nil, so setting it
	// unwinds the current syntactic form, then word, then line. The
	// outer read loop clears it at the start of each line.
	Err *Error
	// errorHandled suppresses repeat rendering of the same error object.
	errorHandled bool

	Out flushio.WriteFlusher

	// Logf, if non-nil, receives one line per primitive, user word,
	// syntax form, or synthetic opcode dispatched at run time. Scanned
	// tokens, pushed numbers, and compiled cells are not logged.
	Logf func(mark, mess string, args ...interface{})

	quit bool
}

// Option configures a State at construction time.
type Option interface{ apply(*State) }

type optionFunc func(*State)

func (f optionFunc) apply(s *State) { f(s) }

// WithCapacity bounds the stack, code buffer, and word store to the given
// sizes (0 means growable, the default). A bounded State fails with a
// capacity error instead of growing, for embedding in a fixed memory
// budget.
func WithCapacity(stack, code, words int) Option {
	return optionFunc(func(s *State) {
		s.Stack = NewStack(stack)
		s.Code = NewCodeBuffer(code)
		s.Words = NewWordStore(words)
	})
}

// WithOutput sets the State's output stream.
func WithOutput(w io.Writer) Option {
	return optionFunc(func(s *State) {
		s.Out = flushio.NewWriteFlusher(w)
	})
}

// WithLogf enables tracing of run-time dispatch (see State.Logf).
func WithLogf(logf func(mark, mess string, args ...interface{})) Option {
	return optionFunc(func(s *State) { s.Logf = logf })
}

// New builds a State with growable storage and a discarding output
// stream unless overridden by opts, then compiles the prelude silently.
func New(opts ...Option) (*State, error) {
	s := &State{
		Stack: NewStack(0),
		Code:  NewCodeBuffer(0),
		Words: NewWordStore(0),
		Out:   flushio.Discard,
	}
	s.Primitives = primitiveTable
	s.Syntax = syntaxTable
	for _, opt := range opts {
		opt.apply(s)
	}
	if err := s.loadPrelude(); err != nil {
		return nil, err
	}
	return s, nil
}

// Println writes one line to the State's output stream, used by syntax
// forms (`help`, `def`) that print directly in Interpret mode rather
// than through a compiled opcode.
func (s *State) Println(text string) error {
	_, err := io.WriteString(s.Out, text+"\n")
	return err
}

func (s *State) logf(mark, mess string, args ...interface{}) {
	if s.Logf != nil {
		s.Logf(mark, mess, args...)
	}
}

// Quit requests loop termination, honored by the CLI's outer read loop
// after the current line finishes.
func (s *State) Quit() { s.quit = true }

// Quitting reports whether `exit` or `quit` has been invoked.
func (s *State) Quitting() bool { return s.quit }

// ClearError clears the latched error and its handled flag, as the outer
// read loop does at the start of every new line.
func (s *State) ClearError() {
	s.Err = nil
	s.errorHandled = false
}

// Fail latches err into State.Err if no error is already latched: the
// first error in a line wins, and every later one is discarded.
func (s *State) Fail(err *Error) {
	if s.Err == nil {
		s.Err = err
	}
}

// FailErr latches any error value, wrapping a plain error (e.g. one
// bubbled up from an io.Writer) into an end-of-line *Error.
func (s *State) FailErr(err error) {
	if err == nil {
		return
	}
	if le, ok := err.(*Error); ok {
		s.Fail(le)
		return
	}
	s.Fail(errEOL("%s", err.Error()))
}

// RenderError writes the latched error, if any and not already reported,
// to Out, and marks it handled so repeated loop iterations over the same
// error don't re-print it.
func (s *State) RenderError() {
	if s.Err == nil || s.errorHandled {
		return
	}
	s.errorHandled = true
	io.WriteString(s.Out, "\n"+s.Err.Render()+"\n")
}

// RunLine drives one line of source through a fresh Interpreter to
// completion, latching errUnterminatedWord if the line ends mid-definition.
// This is the single path shared by the prelude loader, the REPL, the
// batch checker, and the test helpers, so all four treat an unterminated
// ":" the same way.
func (s *State) RunLine(line string) {
	interp := NewInterpreter(s, line)
	for s.Err == nil && interp.Advance() {
	}
	if s.Err == nil && interp.InWord() {
		s.Fail(errUnterminatedWord)
	}
	if s.Err != nil && interp.InWord() {
		s.Code.Truncate(interp.wordPos)
	}
}

// loadPrelude compiles the fixed startup prelude as a silent sequence of
// word definitions, using the interpreter's own Run path.
func (s *State) loadPrelude() error {
	for _, line := range preludeLines {
		s.RunLine(line)
		if s.Err != nil {
			err := s.Err
			s.ClearError()
			return err
		}
	}
	return nil
}
