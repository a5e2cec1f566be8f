package parsers

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// SyntaxNode is the part of a concrete syntax tree node the extractors depend on.
// Child and PrevSibling return nil when there is no such node.
type SyntaxNode interface {
	Kind() string
	StartByte() uint
	EndByte() uint
	ChildCount() uint
	Child(i uint) SyntaxNode
	PrevSibling() SyntaxNode
}

// SyntaxTree is a parsed source buffer. Close releases engine resources.
type SyntaxTree interface {
	Root() SyntaxNode
	Close()
}

// SyntaxEngine builds concrete syntax trees from source bytes.
// Implementations must tolerate syntax errors and return a best-effort tree.
type SyntaxEngine interface {
	Parse(source []byte) (SyntaxTree, error)
}

// treeSitterEngine parses with go-tree-sitter. A tree-sitter parser is not safe for
// concurrent use, so every Parse call gets its own; the language is shared read-only.
type treeSitterEngine struct {
	language *sitter.Language
	lang     string
}

// NewTreeSitterEngine returns a SyntaxEngine backed by the given tree-sitter language.
func NewTreeSitterEngine(language *sitter.Language, lang string) SyntaxEngine {
	return &treeSitterEngine{
		language: language,
		lang:     lang,
	}
}

func (e *treeSitterEngine) Parse(source []byte) (SyntaxTree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(e.language); err != nil {
		return nil, fmt.Errorf("failed to set %s language: %w", e.lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s source", e.lang)
	}

	return &treeSitterTree{tree: tree}, nil
}

type treeSitterTree struct {
	tree *sitter.Tree
}

func (t *treeSitterTree) Root() SyntaxNode {
	return wrapNode(t.tree.RootNode())
}

func (t *treeSitterTree) Close() {
	t.tree.Close()
}

type treeSitterNode struct {
	node *sitter.Node
}

// wrapNode keeps a nil *sitter.Node from turning into a non-nil interface value.
func wrapNode(n *sitter.Node) SyntaxNode {
	if n == nil {
		return nil
	}
	return treeSitterNode{node: n}
}

func (n treeSitterNode) Kind() string            { return n.node.Kind() }
func (n treeSitterNode) StartByte() uint         { return n.node.StartByte() }
func (n treeSitterNode) EndByte() uint           { return n.node.EndByte() }
func (n treeSitterNode) ChildCount() uint        { return n.node.ChildCount() }
func (n treeSitterNode) Child(i uint) SyntaxNode { return wrapNode(n.node.Child(i)) }
func (n treeSitterNode) PrevSibling() SyntaxNode { return wrapNode(n.node.PrevSibling()) }
