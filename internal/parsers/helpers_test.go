package parsers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/autodoc/internal/extraction"
	"github.com/mvp-joe/autodoc/internal/grammar"
)

// newGrammarExtractor returns a grammar-based extractor over the bundled C grammar.
func newGrammarExtractor(t *testing.T) *cExtractor {
	t.Helper()
	loader := grammar.NewLoader(grammar.Options{Language: "c", DisableBuild: true})
	extractor, err := NewCExtractor(context.Background(), loader)
	require.NoError(t, err)
	return extractor
}

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	source, err := os.ReadFile(filepath.Join("..", "..", "testdata", "code", "c", name))
	require.NoError(t, err)
	return source
}

// rangeOf returns the range of the first occurrence of text in source.
func rangeOf(t *testing.T, source []byte, text string) extraction.ByteRange {
	t.Helper()
	i := bytes.Index(source, []byte(text))
	require.GreaterOrEqual(t, i, 0, "%q not found in source", text)
	return extraction.ByteRange{Start: i, End: i + len(text)}
}

func textOf(source []byte, r extraction.ByteRange) string {
	return string(r.Slice(source))
}

func functionNames(functions []extraction.FunctionInfo) []string {
	names := make([]string, 0, len(functions))
	for _, fn := range functions {
		names = append(names, fn.Name)
	}
	return names
}

func findFunction(t *testing.T, functions []extraction.FunctionInfo, name string) extraction.FunctionInfo {
	t.Helper()
	for _, fn := range functions {
		if fn.Name == name {
			return fn
		}
	}
	require.FailNow(t, "function not found", name)
	return extraction.FunctionInfo{}
}

func requireValid(t *testing.T, functions []extraction.FunctionInfo, source []byte) {
	t.Helper()
	for _, fn := range functions {
		require.NoError(t, extraction.Validate(fn, source), "function %q", fn.Name)
	}
}
