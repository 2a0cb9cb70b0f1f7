package runeio

import (
	"fmt"
	"io"
)

// NameOf returns r's Name() if it implements one (as *os.File does),
// otherwise a placeholder built from r's dynamic type. internal/batch
// uses this to label each file's live-streamed output when checking a
// directory of scripts concurrently.
func NameOf(r io.Reader) string {
	if nom, ok := r.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", r)
}
