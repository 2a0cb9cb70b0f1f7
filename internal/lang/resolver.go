package lang

// ReadValue classifies the scanner's current token against user words,
// then primitives, then syntax forms, then a decimal number literal, in
// that precedence. On a class mismatch the token is left unclaimed so the
// next candidate class can try it; on success the token is marked
// handled. ok is false at end of line (no error). A non-nil *Error means
// "undefined word" or a numeric-literal overflow.
func ReadValue(sc *Scanner, s *State) (Value, bool, *Error) {
	tok := sc.GetToken()
	if tok.Text == "" {
		return Value{}, false, nil
	}

	if idx, found := s.Words.Lookup(tok.Text); found {
		sc.Handle()
		return WordValue(idx), true, nil
	}

	if idx, found := lookupPrimitive(s.Primitives, tok.Text); found {
		sc.Handle()
		return PrimitiveValue(idx), true, nil
	}

	if idx, found := lookupSyntax(s.Syntax, tok.Text); found {
		sc.Handle()
		return SyntaxValue(idx), true, nil
	}

	if n, ok, numErr := readNumber(tok.Text); numErr != nil {
		return Value{}, false, errAt(tok.Offset, tok.Text, "%s", numErr.Mess)
	} else if ok {
		sc.Handle()
		return NumberValue(n), true, nil
	}

	return Value{}, false, errAt(tok.Offset, tok.Text, "undefined word")
}

func lookupPrimitive(table []Primitive, name string) (uint64, bool) {
	for i := len(table) - 1; i >= 0; i-- {
		if table[i].Name == name {
			return uint64(i), true
		}
	}
	return 0, false
}

func lookupSyntax(table []Syntax, name string) (uint64, bool) {
	for i := len(table) - 1; i >= 0; i-- {
		if table[i].Name == name {
			return uint64(i), true
		}
	}
	return 0, false
}

// readNumber parses text as an unsigned decimal literal, failing if any
// character isn't a decimal digit (not a number, not an error: ok=false,
// err=nil) or if accumulation overflows a machine word (a real error).
func readNumber(text string) (Word, bool, *Error) {
	var acc uint64
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < '0' || c > '9' {
			return 0, false, nil
		}
		d := uint64(c - '0')
		if acc > (^uint64(0)-d)/10 {
			return 0, false, errEOL("Number too large")
		}
		acc = acc*10 + d
	}
	return Word(acc), true, nil
}
