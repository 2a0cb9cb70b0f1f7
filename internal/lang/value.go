package lang

import "fmt"

// Kind tags the variant held by a Value.
type Kind int

const (
	// KindWord marks a Value as an index into the user-word store.
	KindWord Kind = iota
	// KindPrimitive marks a Value as an index into the primitive table.
	KindPrimitive
	// KindSyntax marks a Value as an index into the syntax-form table.
	// Syntax values only ever appear transiently during compilation; one
	// reaching a published word body or the runner is an error.
	KindSyntax
	// KindNumber marks a Value as a machine-word literal.
	KindNumber
	// KindRawFunction marks a Value as a runner-synthesized opcode. These
	// are produced only by the compiler, never typed by the user.
	KindRawFunction
)

func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindPrimitive:
		return "primitive"
	case KindSyntax:
		return "syntax"
	case KindNumber:
		return "number"
	case KindRawFunction:
		return "raw-function"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one tagged cell of compiled code, or an interpreted value handed
// between the resolver and the dispatcher.
type Value struct {
	Kind Kind

	// Idx holds the Word/Primitive/Syntax index for the corresponding
	// Kind. Unused by KindNumber and KindRawFunction.
	Idx uint64

	// Number holds the literal for KindNumber.
	Number Word

	// Raw holds the synthetic opcode for KindRawFunction.
	Raw *RawFunction
}

// WordValue builds a Value naming a user word.
func WordValue(idx uint64) Value { return Value{Kind: KindWord, Idx: idx} }

// PrimitiveValue builds a Value naming a primitive.
func PrimitiveValue(idx uint64) Value { return Value{Kind: KindPrimitive, Idx: idx} }

// SyntaxValue builds a Value naming a syntax form.
func SyntaxValue(idx uint64) Value { return Value{Kind: KindSyntax, Idx: idx} }

// NumberValue builds a Value holding a number literal.
func NumberValue(n Word) Value { return Value{Kind: KindNumber, Number: n} }

// RawFunctionValue builds a Value holding a synthetic opcode.
func RawFunctionValue(fn *RawFunction) Value { return Value{Kind: KindRawFunction, Raw: fn} }

// RawFunction is a runner-synthesized opcode: skip, rep_and, recurse,
// return, print_raw, print_definition. These are the system's own
// bytecodes; only the compiler ever emits a cell referencing one.
type RawFunction struct {
	Name string
	// Run executes the opcode against a live Runner, letting it mutate
	// the runner's program counter (curr).
	Run func(r *Runner) error
}

// Cell is an element of the shared, monotonically growing code buffer.
// (Cell and Value are the same type; the code buffer just emphasizes
// the "compiled slot" role via the name Cell in its own files.)
type Cell = Value
