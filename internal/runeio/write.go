package runeio

import "io"

// WriteASCIIRune writes one byte to w directly when r is in ASCII range,
// falling through to full rune encoding otherwise. Mieliepit's own
// byte/word model never produces values above 0xff for `pstr` or
// `print_string`, but this still does something sane for a stray high
// value, e.g. printing a packed word that happens to hold one.
func WriteASCIIRune(w io.Writer, r rune) (n int, err error) {
	if r < 0x80 {
		if bw, ok := w.(io.ByteWriter); ok {
			return 1, bw.WriteByte(byte(r))
		}
		return w.Write([]byte{byte(r)})
	}
	if sw, ok := w.(io.StringWriter); ok {
		return sw.WriteString(string(r))
	}
	return w.Write([]byte(string(r)))
}

// WriteASCIIBytes writes a string of packed bytes, stopping at the first
// NUL byte. `pstr` and `print_string` both use this to render packed
// machine words, once unpacked into bytes in their own order, back into
// text.
func WriteASCIIBytes(w io.Writer, s string) (n int, err error) {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			break
		}
		m, err := WriteASCIIRune(w, rune(s[i]))
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
