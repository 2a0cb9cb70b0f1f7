package lang

// UserWord is a named, documented, compiled user definition: a contiguous
// slice [CodePos, CodePos+CodeLen) into the shared code buffer.
type UserWord struct {
	Name    string
	Desc    string
	CodePos int
	CodeLen int
}

// WordStore holds every user word ever defined, in definition order.
// Lookup scans newest-to-oldest so redefinition shadows a prior
// definition without deleting it (invariant: definitions are never
// removed, only shadowed).
type WordStore struct {
	words    []UserWord
	capacity int // 0 means growable
}

// NewWordStore builds a WordStore, growable when capacity is 0.
func NewWordStore(capacity int) *WordStore {
	return &WordStore{capacity: capacity}
}

// Len returns the number of defined words, including shadowed ones.
func (ws *WordStore) Len() int { return len(ws.words) }

// At returns the word at idx.
func (ws *WordStore) At(idx uint64) UserWord { return ws.words[idx] }

// Define appends a new word, failing with a capacity error if the store
// is bounded and full. Returns the new word's index.
func (ws *WordStore) Define(w UserWord) (uint64, error) {
	if ws.capacity != 0 && len(ws.words) >= ws.capacity {
		return 0, errCapacity("word store")
	}
	ws.words = append(ws.words, w)
	return uint64(len(ws.words) - 1), nil
}

// Lookup finds the newest word named name, if any.
func (ws *WordStore) Lookup(name string) (uint64, bool) {
	for i := len(ws.words) - 1; i >= 0; i-- {
		if ws.words[i].Name == name {
			return uint64(i), true
		}
	}
	return 0, false
}

// Names returns every defined word's name, newest first, for `words`.
func (ws *WordStore) Names() []string {
	names := make([]string, len(ws.words))
	for i, w := range ws.words {
		names[len(ws.words)-1-i] = w.Name
	}
	return names
}
