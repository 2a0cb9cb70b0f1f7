package lang

// Action is the Interpreter's current token-dispatch mode: Run executes
// a value immediately, Compile emits it as a cell into the word
// currently being defined. There is no separate Ignore mode at this
// level — a comment's own handler recursively skips nested spans by
// delegating to each syntax form's Ignore function directly (see
// skipSpan in syntax.go), never by changing Interpreter.Action.
type Action int

const (
	ActionRun Action = iota
	ActionCompile
)

// Interpreter drives one line of input through the shared Scanner
// against a State, in either Run or Compile mode. A `:` syntax form
// switches an Interpreter into Compile mode and records the word being
// defined; `;` closes it back to Run.
type Interpreter struct {
	Scanner *Scanner
	State   *State
	Action  Action

	inWord   bool
	wordName string
	wordDesc string
	wordPos  int
}

// NewInterpreter builds an Interpreter over one line of source, starting
// in Run mode.
func NewInterpreter(state *State, line string) *Interpreter {
	return &Interpreter{Scanner: NewScanner(line), State: state, Action: ActionRun}
}

// InWord reports whether a `:` word definition is still open, so the
// caller can flag an unterminated definition at end of input.
func (ip *Interpreter) InWord() bool { return ip.inWord }

// Advance processes exactly one token's worth of work and reports
// whether there is more to do on this line.
func (ip *Interpreter) Advance() bool {
	if ip.State.Err != nil {
		return false
	}
	if ip.Action == ActionCompile {
		return ip.CompileNext()
	}
	return ip.RunNext()
}

// RunNext reads and immediately executes the next value.
func (ip *Interpreter) RunNext() bool {
	v, ok, err := ReadValue(ip.Scanner, ip.State)
	if err != nil {
		ip.State.Fail(err)
		return false
	}
	if !ok {
		return false
	}
	switch v.Kind {
	case KindNumber:
		ip.State.FailErr(ip.State.Stack.Push(v.Number))
	case KindPrimitive:
		ip.State.logf("run", "primitive %s", ip.State.Primitives[v.Idx].Name)
		ip.State.FailErr(ip.State.Primitives[v.Idx].Fn(ip.State))
	case KindWord:
		ip.State.logf("run", "word %s", ip.State.Words.At(v.Idx).Name)
		RunWord(ip.State, v.Idx)
	case KindSyntax:
		form := ip.State.Syntax[v.Idx]
		ip.State.logf("run", "syntax %s", form.Name)
		ip.State.FailErr(form.Interpret(ip))
	}
	return ip.State.Err == nil
}

// CompileNext reads and compiles the next value into the code buffer for
// the word currently being defined. A literal `;` is checked for before
// falling back to the resolver, since it closes the definition rather
// than naming anything in any table.
func (ip *Interpreter) CompileNext() bool {
	tok := ip.Scanner.GetToken()
	if tok.Text == "" {
		return false
	}
	if tok.Text == ";" {
		ip.Scanner.Handle()
		ip.endWord()
		return ip.State.Err == nil
	}
	if _, err := ip.compileOneForm(); err != nil {
		ip.State.FailErr(err)
		return false
	}
	return ip.State.Err == nil
}

// compileOneForm reads exactly one value and compiles it: a
// word/primitive/number emits its own cell directly, a syntax form
// delegates to its own Compile handler (which may itself read further
// tokens and emit any number of cells). Returns the number of cells
// emitted, for forms like `?` that need to know the length of what they
// just guarded.
func (ip *Interpreter) compileOneForm() (int, error) {
	v, ok, err := ReadValue(ip.Scanner, ip.State)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errExpectedWord
	}
	switch v.Kind {
	case KindNumber, KindPrimitive, KindWord:
		if err := ip.State.Code.Emit(v); err != nil {
			return 0, err
		}
		return 1, nil
	case KindSyntax:
		return ip.State.Syntax[v.Idx].Compile(ip)
	}
	return 0, nil
}

// beginWord starts a word definition: name, optional "( desc )", and a
// snapshot of the code buffer's current length.
func (ip *Interpreter) beginWord(name, desc string) {
	ip.wordPos = ip.State.Code.Len()
	ip.wordName = name
	ip.wordDesc = desc
	ip.inWord = true
	ip.Action = ActionCompile
}

// endWord closes the current word definition, registering it in the
// word store as the span of cells emitted since beginWord.
func (ip *Interpreter) endWord() {
	length := ip.State.Code.Len() - ip.wordPos
	_, err := ip.State.Words.Define(UserWord{
		Name:    ip.wordName,
		Desc:    ip.wordDesc,
		CodePos: ip.wordPos,
		CodeLen: length,
	})
	if err != nil {
		ip.State.Code.Truncate(ip.wordPos)
		ip.State.FailErr(err)
	}
	ip.inWord = false
	ip.Action = ActionRun
	ip.wordName = ""
	ip.wordDesc = ""
}
