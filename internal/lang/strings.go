package lang

// StringPool interns the text produced by `help` when compiled (rather
// than interpreted): a word body can only hold Cells, so the compiler
// stores a small integer handle in a Number cell and leaves the text
// itself here, where the synthesized print-raw opcode can find it again
// at run time. Compiled `def` stores the word index instead and does not
// use the pool.
type StringPool struct {
	texts []string
}

// Intern stores text and returns a stable handle for it.
func (p *StringPool) Intern(text string) uint64 {
	p.texts = append(p.texts, text)
	return uint64(len(p.texts) - 1)
}

// Get returns the text for a handle previously returned by Intern.
func (p *StringPool) Get(handle uint64) string {
	if handle >= uint64(len(p.texts)) {
		return ""
	}
	return p.texts[handle]
}
