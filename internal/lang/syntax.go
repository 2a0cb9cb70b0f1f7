package lang

import "strings"

// Syntax is a name-table entry whose meaning depends on where it's
// encountered: Interpret runs it immediately, Compile emits cells for
// it into the word being defined, and Ignore (where non-nil) skips over
// it when it turns up nested inside a comment, string, or block that is
// itself being skipped. Forms with no internal structure of their own
// (numbers, primitives, `hex`, `'`, `help`, `def`, `rec`, `ret`) need no
// Ignore handler: skipSpan just consumes their tokens one at a time like
// anything else.
type Syntax struct {
	Name string
	Desc string

	Interpret func(ip *Interpreter) error
	Ignore    func(ip *Interpreter) error
	Compile   func(ip *Interpreter) (int, error)
}

var syntaxTable = []Syntax{
	{
		Name:      "(",
		Desc:      "( ... ) a comment, discarded up to the matching )",
		Interpret: func(ip *Interpreter) error { return skipSpan(ip, ")", errUnclosedComment) },
		Ignore:    func(ip *Interpreter) error { return skipSpan(ip, ")", errUnclosedComment) },
		Compile: func(ip *Interpreter) (int, error) {
			return 0, skipSpan(ip, ")", errUnclosedComment)
		},
	},
	{
		Name:      `"`,
		Desc:      `" ... " a packed string, pushing its words then their count`,
		Interpret: interpretString,
		Ignore:    func(ip *Interpreter) error { return skipSpan(ip, `"`, errUnclosedString) },
		Compile:   compileString,
	},
	{
		Name:      "hex",
		Desc:      "hex <digits> push a hexadecimal literal",
		Interpret: interpretHex,
		Compile:   compileHex,
	},
	{
		Name:      "'",
		Desc:      "' <word> pack a short string (up to 8 bytes) into one word",
		Interpret: interpretShortString,
		Compile:   compileShortString,
	},
	{
		Name:      "help",
		Desc:      "help <word> print a word's documentation",
		Interpret: interpretHelp,
		Compile:   compileHelp,
	},
	{
		Name:      "def",
		Desc:      "def <word> print a user word's compiled definition",
		Interpret: interpretDef,
		Compile:   compileDef,
	},
	{
		Name:      "rec",
		Desc:      "replay the enclosing word's body from the top",
		Interpret: func(ip *Interpreter) error { return errRecRetOutsideWord },
		Compile:   compileRec,
	},
	{
		Name:      "ret",
		Desc:      "return from the enclosing word immediately",
		Interpret: func(ip *Interpreter) error { return errRecRetOutsideWord },
		Compile:   compileRet,
	},
	{
		Name:      "?",
		Desc:      "( bool -- ) conditionally run exactly the next form",
		Interpret: interpretQuestion,
		Compile:   compileQuestion,
	},
	{
		Name:      ":",
		Desc:      ": name ( desc ) ... ; define a word",
		Interpret: interpretColon,
		Compile:   func(ip *Interpreter) (int, error) { return 0, errColonInsideWord },
	},
	{
		Name:      "rep_and",
		Desc:      "( n -- n ) run exactly the next form n times, keeping n",
		Interpret: func(ip *Interpreter) error { return interpretRepeat(ip, false) },
		Compile:   compileRepAnd,
	},
	{
		Name:      "rep",
		Desc:      "( n -- ) run exactly the next form n times",
		Interpret: func(ip *Interpreter) error { return interpretRepeat(ip, true) },
		Compile:   compileRep,
	},
	{
		Name:      "[",
		Desc:      "[ ... ] a transparent grouping of forms",
		Interpret: interpretBlock,
		Ignore:    func(ip *Interpreter) error { return skipSpan(ip, "]", errUnclosedBlock) },
		Compile:   compileBlock,
	},
}

// skipSpan consumes raw tokens up to and including closeTok, delegating
// to any nested form's own Ignore handler so an embedded `)`, `"`, or
// `]` inside a string or block doesn't get mistaken for this span's own
// terminator.
func skipSpan(ip *Interpreter, closeTok string, unclosed *Error) error {
	for {
		tok := ip.Scanner.GetToken()
		if tok.Text == "" {
			return unclosed
		}
		ip.Scanner.Handle()
		if tok.Text == closeTok {
			return nil
		}
		if idx, found := lookupSyntax(ip.State.Syntax, tok.Text); found {
			if ig := ip.State.Syntax[idx].Ignore; ig != nil {
				if err := ig(ip); err != nil {
					return err
				}
			}
		}
	}
}

// readSpanConcat collects raw token text up to closeTok with no
// separators, as `"` needs: inter-fragment whitespace is dropped, never
// reinserted.
func readSpanConcat(ip *Interpreter, closeTok string, unclosed *Error) (string, error) {
	var sb strings.Builder
	for {
		tok := ip.Scanner.GetToken()
		if tok.Text == "" {
			return "", unclosed
		}
		ip.Scanner.Handle()
		if tok.Text == closeTok {
			return sb.String(), nil
		}
		sb.WriteString(tok.Text)
	}
}

// readSpanWords collects raw token text up to closeTok, joined by single
// spaces, for `:`'s optional human-readable description.
func readSpanWords(ip *Interpreter, closeTok string, unclosed *Error) (string, error) {
	var parts []string
	for {
		tok := ip.Scanner.GetToken()
		if tok.Text == "" {
			return "", unclosed
		}
		ip.Scanner.Handle()
		if tok.Text == closeTok {
			return strings.Join(parts, " "), nil
		}
		parts = append(parts, tok.Text)
	}
}

// packStringWords packs text into big-endian machine words, 8 bytes
// each, zero-padding the low end of the final word — the `"` literal's
// scheme, distinct from `'`'s little-endian single-word packing.
func packStringWords(text string) []Word {
	if text == "" {
		return nil
	}
	n := (len(text) + 7) / 8
	words := make([]Word, n)
	for i := 0; i < n; i++ {
		var w uint64
		for j := 0; j < 8; j++ {
			pos := i*8 + j
			var b byte
			if pos < len(text) {
				b = text[pos]
			}
			w = w<<8 | uint64(b)
		}
		words[i] = Word(w)
	}
	return words
}

// packShortString packs text into one little-endian machine word (first
// byte lowest), as `'` describes: ' abc pushes 0x636261.
func packShortString(text string) (Word, error) {
	if len(text) > 8 {
		return 0, errCapacity("short string")
	}
	var w uint64
	for i := 0; i < len(text); i++ {
		w |= uint64(text[i]) << (8 * i)
	}
	return Word(w), nil
}

func interpretString(ip *Interpreter) error {
	text, err := readSpanConcat(ip, `"`, errUnclosedString)
	if err != nil {
		return err
	}
	words := packStringWords(text)
	for _, w := range words {
		if err := ip.State.Stack.Push(w); err != nil {
			return err
		}
	}
	return ip.State.Stack.Push(Word(uint64(len(words))))
}

func compileString(ip *Interpreter) (int, error) {
	text, err := readSpanConcat(ip, `"`, errUnclosedString)
	if err != nil {
		return 0, err
	}
	words := packStringWords(text)
	for _, w := range words {
		if err := ip.State.Code.Emit(NumberValue(w)); err != nil {
			return 0, err
		}
	}
	if err := ip.State.Code.Emit(NumberValue(Word(uint64(len(words))))); err != nil {
		return 0, err
	}
	return len(words) + 1, nil
}

func parseHex(text string) (Word, error) {
	t := text
	if len(t) > 2 && t[0] == '0' && (t[1] == 'x' || t[1] == 'X') {
		t = t[2:]
	}
	if t == "" {
		return 0, errEOL("hex: empty literal")
	}
	var acc uint64
	for i := 0; i < len(t); i++ {
		c := t[i]
		var d uint64
		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint64(c-'A') + 10
		default:
			return 0, errEOL("hex: invalid digit %q", string(c))
		}
		acc = acc<<4 | d
	}
	return Word(acc), nil
}

func nextWordToken(ip *Interpreter) (string, error) {
	tok := ip.Scanner.GetToken()
	if tok.Text == "" {
		return "", errExpectedWord
	}
	ip.Scanner.Handle()
	return tok.Text, nil
}

func interpretHex(ip *Interpreter) error {
	text, err := nextWordToken(ip)
	if err != nil {
		return err
	}
	n, err := parseHex(text)
	if err != nil {
		return err
	}
	return ip.State.Stack.Push(n)
}

func compileHex(ip *Interpreter) (int, error) {
	text, err := nextWordToken(ip)
	if err != nil {
		return 0, err
	}
	n, err := parseHex(text)
	if err != nil {
		return 0, err
	}
	if err := ip.State.Code.Emit(NumberValue(n)); err != nil {
		return 0, err
	}
	return 1, nil
}

func interpretShortString(ip *Interpreter) error {
	text, err := nextWordToken(ip)
	if err != nil {
		return err
	}
	w, err := packShortString(text)
	if err != nil {
		return err
	}
	return ip.State.Stack.Push(w)
}

func compileShortString(ip *Interpreter) (int, error) {
	text, err := nextWordToken(ip)
	if err != nil {
		return 0, err
	}
	w, err := packShortString(text)
	if err != nil {
		return 0, err
	}
	if err := ip.State.Code.Emit(NumberValue(w)); err != nil {
		return 0, err
	}
	return 1, nil
}

// helpLookup finds the documentation text for name, searching user
// words, then primitives, then syntax forms.
func helpLookup(s *State, name string) (string, bool) {
	if idx, found := s.Words.Lookup(name); found {
		return s.Words.At(idx).Desc, true
	}
	if idx, found := lookupPrimitive(s.Primitives, name); found {
		return s.Primitives[idx].Desc, true
	}
	if idx, found := lookupSyntax(s.Syntax, name); found {
		return s.Syntax[idx].Desc, true
	}
	return "", false
}

func formatHelp(name, desc string) string {
	if desc == "" {
		return name
	}
	return name + " " + desc
}

func interpretHelp(ip *Interpreter) error {
	name, err := nextWordToken(ip)
	if err != nil {
		return err
	}
	desc, found := helpLookup(ip.State, name)
	if !found {
		return errEOL("help: no such word %q", name)
	}
	return ip.State.Println(formatHelp(name, desc))
}

func compileHelp(ip *Interpreter) (int, error) {
	name, err := nextWordToken(ip)
	if err != nil {
		return 0, err
	}
	desc, found := helpLookup(ip.State, name)
	if !found {
		return 0, errEOL("help: no such word %q", name)
	}
	handle := ip.State.Strings.Intern(formatHelp(name, desc))
	if err := ip.State.Code.Emit(NumberValue(Word(handle))); err != nil {
		return 0, err
	}
	if err := ip.State.Code.Emit(RawFunctionValue(rfPrintRaw)); err != nil {
		return 0, err
	}
	return 2, nil
}

func interpretDef(ip *Interpreter) error {
	name, err := nextWordToken(ip)
	if err != nil {
		return err
	}
	idx, found := ip.State.Words.Lookup(name)
	if !found {
		return errEOL("def: no such word %q", name)
	}
	text, derr := renderDefinition(ip.State, idx)
	if derr != nil {
		return derr
	}
	return ip.State.Println(text)
}

func compileDef(ip *Interpreter) (int, error) {
	name, err := nextWordToken(ip)
	if err != nil {
		return 0, err
	}
	idx, found := ip.State.Words.Lookup(name)
	if !found {
		return 0, errEOL("def: no such word %q", name)
	}
	if err := ip.State.Code.Emit(NumberValue(Word(idx))); err != nil {
		return 0, err
	}
	if err := ip.State.Code.Emit(RawFunctionValue(rfPrintDefinition)); err != nil {
		return 0, err
	}
	return 2, nil
}

func compileRec(ip *Interpreter) (int, error) {
	if err := ip.State.Code.Emit(RawFunctionValue(rfRecurse)); err != nil {
		return 0, err
	}
	return 1, nil
}

func compileRet(ip *Interpreter) (int, error) {
	if err := ip.State.Code.Emit(RawFunctionValue(rfReturn)); err != nil {
		return 0, err
	}
	return 1, nil
}

// interpretQuestion gives `?` meaning outside a word body too: pop a
// boolean and either run or discard exactly the next form.
func interpretQuestion(ip *Interpreter) error {
	bw, err := ip.State.Stack.Pop()
	if err != nil {
		return err
	}
	if !bw.Truthy() {
		// compile the form into scratch space and drop it, so a
		// multi-token form (`[ ... ]`, `hex FF`, ...) is discarded whole
		start := ip.State.Code.Len()
		_, err := ip.compileOneForm()
		ip.State.Code.Truncate(start)
		return err
	}
	if !ip.RunNext() {
		return ip.State.Err
	}
	return nil
}

// compileQuestion emits a placeholder length, the skip opcode, then
// compiles exactly the next form, backpatching the real length in once
// known.
func compileQuestion(ip *Interpreter) (int, error) {
	lenPos := ip.State.Code.Len()
	if err := ip.State.Code.Emit(NumberValue(0)); err != nil {
		return 0, err
	}
	if err := ip.State.Code.Emit(RawFunctionValue(rfSkip)); err != nil {
		return 0, err
	}
	bodyStart := ip.State.Code.Len()
	if _, err := ip.compileOneForm(); err != nil {
		ip.State.Code.Truncate(lenPos)
		return 0, err
	}
	bodyLen := ip.State.Code.Len() - bodyStart
	ip.State.Code.Patch(lenPos, NumberValue(Word(uint64(bodyLen))))
	return 2 + bodyLen, nil
}

func interpretColon(ip *Interpreter) error {
	if ip.inWord {
		return errColonInsideWord
	}
	name, err := nextWordToken(ip)
	if err != nil {
		return err
	}
	desc := ""
	tok := ip.Scanner.GetToken()
	if tok.Text == "(" {
		ip.Scanner.Handle()
		d, derr := readSpanWords(ip, ")", errUnclosedComment)
		if derr != nil {
			return derr
		}
		desc = d
	}
	ip.beginWord(name, desc)
	return nil
}

// interpretRepeat gives `rep_and`/`rep` meaning outside a word body:
// compile exactly the next form into a scratch region of the code
// buffer, run it the popped count of times, then reclaim the scratch
// region. dropAfter matches `rep`'s trailing drop; rep_and instead
// leaves the count on the stack.
func interpretRepeat(ip *Interpreter, dropAfter bool) error {
	nw, err := ip.State.Stack.Pop()
	if err != nil {
		return err
	}
	start := ip.State.Code.Len()
	if _, err := ip.compileOneForm(); err != nil {
		ip.State.Code.Truncate(start)
		return err
	}
	frag := ip.State.Code.Slice(start, ip.State.Code.Len()-start)
	n := nw.Sign()
	for i := int64(0); i < n; i++ {
		sub := NewRunner(ip.State, frag)
		sub.Run()
		if ip.State.Err != nil {
			break
		}
	}
	ip.State.Code.Truncate(start)
	if ip.State.Err != nil {
		return nil
	}
	if dropAfter {
		return nil
	}
	return ip.State.Stack.Push(nw)
}

// repeatCompile is shared by `rep_and` and `rep`: emit the placeholder
// length and the rep_and opcode, compile exactly the next form as the
// repeated fragment, and backpatch the real length.
func repeatCompile(ip *Interpreter) (int, error) {
	lenPos := ip.State.Code.Len()
	if err := ip.State.Code.Emit(NumberValue(0)); err != nil {
		return 0, err
	}
	if err := ip.State.Code.Emit(RawFunctionValue(rfRepAnd)); err != nil {
		return 0, err
	}
	bodyStart := ip.State.Code.Len()
	if _, err := ip.compileOneForm(); err != nil {
		ip.State.Code.Truncate(lenPos)
		return 0, err
	}
	bodyLen := ip.State.Code.Len() - bodyStart
	ip.State.Code.Patch(lenPos, NumberValue(Word(uint64(bodyLen))))
	return 2 + bodyLen, nil
}

func compileRepAnd(ip *Interpreter) (int, error) {
	return repeatCompile(ip)
}

func compileRep(ip *Interpreter) (int, error) {
	n, err := repeatCompile(ip)
	if err != nil {
		return 0, err
	}
	dropIdx, found := lookupPrimitive(ip.State.Primitives, "drop")
	if !found {
		return 0, errEOL("rep: internal error, \"drop\" not found")
	}
	if err := ip.State.Code.Emit(PrimitiveValue(dropIdx)); err != nil {
		return 0, err
	}
	return n + 1, nil
}

// interpretBlock treats `[ ... ]` as transparent grouping in Run mode:
// every contained form is simply run in sequence.
func interpretBlock(ip *Interpreter) error {
	for {
		tok := ip.Scanner.GetToken()
		if tok.Text == "" {
			return errUnclosedBlock
		}
		if tok.Text == "]" {
			ip.Scanner.Handle()
			return nil
		}
		if !ip.RunNext() {
			return ip.State.Err
		}
	}
}

func compileBlock(ip *Interpreter) (int, error) {
	start := ip.State.Code.Len()
	for {
		tok := ip.Scanner.GetToken()
		if tok.Text == "" {
			ip.State.Code.Truncate(start)
			return 0, errUnclosedBlock
		}
		if tok.Text == "]" {
			ip.Scanner.Handle()
			return ip.State.Code.Len() - start, nil
		}
		if _, err := ip.compileOneForm(); err != nil {
			ip.State.Code.Truncate(start)
			return 0, err
		}
	}
}
