package parsers

import (
	"bytes"
	"context"
	"iter"
	"log"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/autodoc/internal/extraction"
)

const (
	kindFunctionDefinition = "function_definition"
	kindCompoundStatement  = "compound_statement"
	kindIdentifier         = "identifier"
	kindComment            = "comment"
)

// GrammarLoader resolves the tree-sitter language used by the grammar-based extractor.
type GrammarLoader interface {
	Load(ctx context.Context) (*sitter.Language, error)
}

// cExtractor finds C function definitions by walking a tree-sitter syntax tree.
type cExtractor struct {
	engine SyntaxEngine
}

// NewCExtractor loads the C grammar and returns a grammar-based extractor.
// Initialization errors are returned as-is; choosing a fallback is up to the caller.
func NewCExtractor(ctx context.Context, loader GrammarLoader) (*cExtractor, error) {
	language, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewCExtractorWithEngine(NewTreeSitterEngine(language, "c")), nil
}

// NewCExtractorWithEngine returns a grammar-based extractor over any syntax engine
// producing tree-sitter-c node kinds.
func NewCExtractorWithEngine(engine SyntaxEngine) *cExtractor {
	return &cExtractor{engine: engine}
}

func (p *cExtractor) Language() string {
	return "c"
}

func (p *cExtractor) Strategy() extraction.Strategy {
	return extraction.StrategyGrammar
}

// IterFunctions parses source and yields one record per function_definition node,
// in pre-order. Syntax errors do not stop extraction.
func (p *cExtractor) IterFunctions(source []byte) iter.Seq[extraction.FunctionInfo] {
	return func(yield func(extraction.FunctionInfo) bool) {
		tree, err := p.engine.Parse(source)
		if err != nil {
			log.Printf("Warning: %v", err)
			return
		}
		defer tree.Close()

		for node := range walkTree(tree.Root()) {
			if node.Kind() != kindFunctionDefinition {
				continue
			}
			if !yield(p.extractFunction(node, source)) {
				return
			}
		}
	}
}

// extractFunction computes the ranges of a function_definition node.
func (p *cExtractor) extractFunction(node SyntaxNode, source []byte) extraction.FunctionInfo {
	full := nodeRange(node)

	info := extraction.FunctionInfo{
		Signature: extraction.ByteRange{Start: full.Start, End: full.Start},
		Body:      full,
		Full:      full,
	}

	declarator := findChild(node, func(kind string) bool {
		return strings.Contains(kind, "declarator")
	})
	if declarator != nil {
		info.Signature.End = int(declarator.EndByte())
		info.Name = extractNodeText(findDescendantByType(declarator, kindIdentifier), source)
		info.ReturnType = collapseSpace(decodeText(source[full.Start:declarator.StartByte()]))
	}

	if body := findChildByType(node, kindCompoundStatement); body != nil {
		info.Body = bodyInterior(body)
	}

	info.Doc = leadingComments(node, source)

	return info
}

// bodyInterior returns the range between the braces of a compound statement.
// A brace recovered as a zero-width missing node leaves the boundary at the node edge.
func bodyInterior(body SyntaxNode) extraction.ByteRange {
	r := nodeRange(body)

	if n := body.ChildCount(); n > 0 {
		if first := body.Child(0); first != nil && first.Kind() == "{" {
			r.Start = int(first.EndByte())
		}
		if last := body.Child(n - 1); last != nil && last.Kind() == "}" {
			r.End = int(last.StartByte())
		}
	}

	if r.End < r.Start {
		r.End = r.Start
	}
	return r
}

// leadingComments returns the span of the comment siblings directly above node.
// The chain extends backwards while only whitespace separates consecutive comments
// and stops at the first non-comment sibling.
func leadingComments(node SyntaxNode, source []byte) *extraction.ByteRange {
	prev := node.PrevSibling()
	if prev == nil || prev.Kind() != kindComment {
		return nil
	}

	doc := nodeRange(prev)
	for cursor := prev.PrevSibling(); cursor != nil && cursor.Kind() == kindComment; cursor = cursor.PrevSibling() {
		between := source[cursor.EndByte():doc.Start]
		if len(bytes.TrimSpace(between)) != 0 {
			break
		}
		doc.Start = int(cursor.StartByte())
	}

	return &doc
}
