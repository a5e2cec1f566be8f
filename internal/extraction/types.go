package extraction

import (
	"fmt"
	"iter"
)

// Strategy identifies how an Extractor finds functions.
type Strategy string

const (
	// StrategyGrammar walks a concrete syntax tree built by tree-sitter.
	StrategyGrammar Strategy = "grammar"

	// StrategyHeuristic scans the text with a signature pattern and brace matching.
	StrategyHeuristic Strategy = "heuristic"
)

// ByteRange is a half-open [Start, End) interval over a source buffer.
type ByteRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the range.
func (r ByteRange) Len() int {
	return r.End - r.Start
}

// IsEmpty reports whether the range covers no bytes.
func (r ByteRange) IsEmpty() bool {
	return r.End <= r.Start
}

// Contains reports whether other lies entirely within r.
func (r ByteRange) Contains(other ByteRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Slice returns the bytes of source covered by the range. The result aliases source.
// Out-of-bounds ranges are clamped rather than panicking.
func (r ByteRange) Slice(source []byte) []byte {
	start, end := r.Start, r.End
	if start < 0 {
		start = 0
	}
	if end > len(source) {
		end = len(source)
	}
	if start > end {
		return nil
	}
	return source[start:end]
}

func (r ByteRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// FunctionInfo describes one function definition found in a source buffer.
// It holds offsets only; callers slice text out of the buffer they passed in.
type FunctionInfo struct {
	Name       string     `json:"name"`                  // may be empty when no identifier was found
	ReturnType string     `json:"return_type,omitempty"` // provisional, best effort
	Signature  ByteRange  `json:"signature"`             // start of function through end of declarator
	Body       ByteRange  `json:"body"`                  // interior between the body braces
	Full       ByteRange  `json:"full"`                  // whole definition including closing brace
	Doc        *ByteRange `json:"doc,omitempty"`         // leading documentation comment, if any
}

// HasDoc reports whether a documentation comment was associated with the function.
func (f FunctionInfo) HasDoc() bool {
	return f.Doc != nil
}

// Extractor finds function definitions in source buffers.
//
// IterFunctions returns a lazy sequence: each record is computed when the consumer asks
// for it, and breaking out of the range loop stops extraction. Ranging over the same
// sequence again repeats the extraction from the start.
type Extractor interface {
	// Language returns the language name, e.g. "c".
	Language() string

	// Strategy returns the extraction strategy implemented by this extractor.
	Strategy() Strategy

	// IterFunctions yields every function definition in source, in source order.
	IterFunctions(source []byte) iter.Seq[FunctionInfo]
}

// Collect drains a function sequence into a slice.
func Collect(seq iter.Seq[FunctionInfo]) []FunctionInfo {
	functions := []FunctionInfo{}
	for fn := range seq {
		functions = append(functions, fn)
	}
	return functions
}
