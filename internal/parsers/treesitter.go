package parsers

import (
	"iter"
	"strings"

	"github.com/mvp-joe/autodoc/internal/extraction"
)

// walkTree yields every node under root in pre-order. Breaking out of the range
// loop stops the walk.
func walkTree(root SyntaxNode) iter.Seq[SyntaxNode] {
	return func(yield func(SyntaxNode) bool) {
		if root == nil {
			return
		}

		stack := []SyntaxNode{root}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(node) {
				return
			}

			// Push in reverse so the first child is visited next
			for i := node.ChildCount(); i > 0; i-- {
				if child := node.Child(i - 1); child != nil {
					stack = append(stack, child)
				}
			}
		}
	}
}

// findChild returns the first immediate child matching the predicate.
func findChild(node SyntaxNode, match func(kind string) bool) SyntaxNode {
	if node == nil {
		return nil
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && match(child.Kind()) {
			return child
		}
	}
	return nil
}

// findChildByType finds the first immediate child with the given type.
func findChildByType(node SyntaxNode, nodeType string) SyntaxNode {
	return findChild(node, func(kind string) bool { return kind == nodeType })
}

// findDescendantByType returns the first node of the given type in a pre-order scan,
// including node itself.
func findDescendantByType(node SyntaxNode, nodeType string) SyntaxNode {
	for n := range walkTree(node) {
		if n.Kind() == nodeType {
			return n
		}
	}
	return nil
}

// nodeRange converts node boundaries to a ByteRange.
func nodeRange(node SyntaxNode) extraction.ByteRange {
	return extraction.ByteRange{
		Start: int(node.StartByte()),
		End:   int(node.EndByte()),
	}
}

// extractNodeText returns the text of a node, decoded permissively.
func extractNodeText(node SyntaxNode, source []byte) string {
	if node == nil {
		return ""
	}
	return decodeText(nodeRange(node).Slice(source))
}

// decodeText converts raw bytes to a string, replacing invalid UTF-8 with U+FFFD.
func decodeText(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

// collapseSpace joins whitespace-separated fields with single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
