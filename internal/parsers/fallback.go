package parsers

import (
	"bytes"
	"iter"
	"regexp"

	"github.com/mvp-joe/autodoc/internal/extraction"
)

// cFunctionPattern matches a C function signature followed by its opening brace:
// return-type tokens on one line (words, optionally separated by '*'), the name
// (which may start the next line), a parameter list without nested parentheses, '{'.
//
// Groups: 1 = return type, 2 = name, 3 = parameters.
var cFunctionPattern = regexp.MustCompile(`(\w+(?:[ \t*]+\w+)*)[\s*]+(\w+)\s*\(([^)]*)\)\s*\{`)

// cControlKeywords cannot name a function; a match on one is a statement inside a body.
var cControlKeywords = map[string]bool{
	"if":     true,
	"while":  true,
	"for":    true,
	"switch": true,
	"return": true,
	"sizeof": true,
}

var (
	docCommentOpen  = []byte("/**")
	blockCommentEnd = []byte("*/")
)

// fallbackCExtractor finds C functions without a syntax tree, using a signature
// pattern and brace matching. It needs no grammar and cannot fail to initialize.
type fallbackCExtractor struct{}

// NewFallbackCExtractor returns the heuristic C extractor.
func NewFallbackCExtractor() *fallbackCExtractor {
	return &fallbackCExtractor{}
}

func (p *fallbackCExtractor) Language() string {
	return "c"
}

func (p *fallbackCExtractor) Strategy() extraction.Strategy {
	return extraction.StrategyHeuristic
}

// IterFunctions scans source for function signatures and yields the ones whose body
// braces balance. Candidates that cannot be completed are skipped silently.
func (p *fallbackCExtractor) IterFunctions(source []byte) iter.Seq[extraction.FunctionInfo] {
	return func(yield func(extraction.FunctionInfo) bool) {
		pos := 0
		for pos < len(source) {
			loc := cFunctionPattern.FindSubmatchIndex(source[pos:])
			if loc == nil {
				return
			}
			for i := range loc {
				if loc[i] >= 0 {
					loc[i] += pos
				}
			}

			info, next, ok := p.extractCandidate(source, loc)
			pos = next
			if !ok {
				continue
			}
			if !yield(info) {
				return
			}
		}
	}
}

// extractCandidate turns one pattern match into a record. It returns the offset to
// resume scanning from: after the closing brace for a completed function (C functions
// do not nest), after the match otherwise.
func (p *fallbackCExtractor) extractCandidate(source []byte, loc []int) (extraction.FunctionInfo, int, bool) {
	start, matchEnd := loc[0], loc[1]
	name := decodeText(source[loc[4]:loc[5]])

	if cControlKeywords[name] {
		return extraction.FunctionInfo{}, matchEnd, false
	}

	open := start + bytes.IndexByte(source[start:matchEnd], '{')
	closing := matchBrace(source, open)
	if closing < 0 {
		return extraction.FunctionInfo{}, matchEnd, false
	}

	signatureEnd := open
	for signatureEnd > start && isSpace(source[signatureEnd-1]) {
		signatureEnd--
	}

	info := extraction.FunctionInfo{
		Name:       name,
		ReturnType: collapseSpace(decodeText(source[loc[2]:loc[3]])),
		Signature:  extraction.ByteRange{Start: start, End: signatureEnd},
		Body:       extraction.ByteRange{Start: open + 1, End: closing},
		Full:       extraction.ByteRange{Start: start, End: closing + 1},
		Doc:        precedingDocComment(source, start),
	}

	return info, closing + 1, true
}

// matchBrace returns the index of the '}' closing the '{' at open, or -1 when the
// input ends first. Braces inside string and character literals and comments are ignored.
func matchBrace(source []byte, open int) int {
	depth := 0
	for i := open + 1; i < len(source); i++ {
		switch c := source[i]; c {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		case '"', '\'':
			i = skipQuoted(source, i, c)
		case '/':
			if i+1 < len(source) {
				switch source[i+1] {
				case '/':
					i = skipLineComment(source, i)
				case '*':
					i = skipBlockComment(source, i)
				}
			}
		}
	}
	return -1
}

// skipQuoted returns the index of the quote closing the literal opened at i.
// Literals do not span lines; an unterminated one ends at the newline.
func skipQuoted(source []byte, i int, quote byte) int {
	for j := i + 1; j < len(source); j++ {
		switch source[j] {
		case '\\':
			j++
		case quote, '\n':
			return j
		}
	}
	return len(source)
}

func skipLineComment(source []byte, i int) int {
	if nl := bytes.IndexByte(source[i:], '\n'); nl >= 0 {
		return i + nl
	}
	return len(source)
}

func skipBlockComment(source []byte, i int) int {
	if end := bytes.Index(source[i+2:], blockCommentEnd); end >= 0 {
		return i + 2 + end + 1
	}
	return len(source)
}

// precedingDocComment finds the nearest /** ... */ block before start. It qualifies
// only when nothing but whitespace separates the comment from start.
func precedingDocComment(source []byte, start int) *extraction.ByteRange {
	open := bytes.LastIndex(source[:start], docCommentOpen)
	if open < 0 {
		return nil
	}

	end := bytes.Index(source[open+2:start], blockCommentEnd)
	if end < 0 {
		return nil
	}
	end = open + 2 + end + len(blockCommentEnd)

	if len(bytes.TrimSpace(source[end:start])) != 0 {
		return nil
	}

	return &extraction.ByteRange{Start: open, End: end}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
