package lang

// Token is one maximal non-space substring of the current line, together
// with its starting byte offset and a handled flag: false means the
// cursor has produced a lexeme that no consumer has yet claimed, so the
// next GetToken call is a no-op peek until some consumer sets Handled.
type Token struct {
	Text    string
	Offset  int
	Handled bool
}

// Scanner cuts one input line into ASCII-space-separated lexemes with
// peek/consume discipline. There is no escape character, no quoting
// beyond what the `"` syntax form layers on top, and no multi-line input:
// each line is a complete scanning unit, and only ASCII space (0x20) is
// ever treated as a separator.
type Scanner struct {
	line string
	pos  int
	curr Token
}

// NewScanner builds a Scanner over one line of input.
func NewScanner(line string) *Scanner {
	return &Scanner{line: line}
}

// GetToken returns the next lexeme, or a zero-length Token at end of
// line. If the current token has not yet been Handled, it is returned
// again unchanged (peek); otherwise leading spaces are skipped and a new
// token is scanned.
func (s *Scanner) GetToken() Token {
	if !s.curr.Handled && s.curr.Text != "" {
		return s.curr
	}

	for s.pos < len(s.line) && s.line[s.pos] == ' ' {
		s.pos++
	}

	start := s.pos
	for s.pos < len(s.line) && s.line[s.pos] != ' ' {
		s.pos++
	}

	s.curr = Token{Text: s.line[start:s.pos], Offset: start, Handled: false}
	return s.curr
}

// Handle marks the current token as claimed by a successful consumer, so
// the next GetToken call advances instead of re-peeking.
func (s *Scanner) Handle() { s.curr.Handled = true }

// Remainder returns the unscanned tail of the line, starting at the
// current token's offset (i.e. including the current unhandled token, if
// any).
func (s *Scanner) Remainder() string {
	if s.curr.Text != "" && !s.curr.Handled {
		return s.line[s.curr.Offset:]
	}
	return s.line[s.pos:]
}

// Offset returns the byte offset the next GetToken call would start
// scanning from, ignoring any pending unhandled peek.
func (s *Scanner) Offset() int { return s.pos }
