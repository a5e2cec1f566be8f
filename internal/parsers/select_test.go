package parsers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/mvp-joe/autodoc/internal/extraction"
)

// Test Plan for Select:
// - auto returns the grammar extractor when the grammar loads
// - auto falls back to the heuristic extractor when the grammar fails to load
// - grammar returns the initialization error instead of falling back
// - heuristic never touches the loader
// - Unknown strategies and unsupported languages are rejected

type stubLoader struct {
	err   error
	calls int
}

func (l *stubLoader) Load(ctx context.Context) (*sitter.Language, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return sitter.NewLanguage(tree_sitter_c.Language()), nil
}

var errGrammarUnavailable = errors.New("grammar unavailable")

func TestSelect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("auto with grammar", func(t *testing.T) {
		t.Parallel()
		extractor, err := Select(ctx, "c", StrategyAuto, &stubLoader{})
		require.NoError(t, err)
		assert.Equal(t, extraction.StrategyGrammar, extractor.Strategy())
	})

	t.Run("empty strategy means auto", func(t *testing.T) {
		t.Parallel()
		extractor, err := Select(ctx, "c", "", &stubLoader{})
		require.NoError(t, err)
		assert.Equal(t, extraction.StrategyGrammar, extractor.Strategy())
	})

	t.Run("auto falls back", func(t *testing.T) {
		t.Parallel()
		loader := &stubLoader{err: errGrammarUnavailable}
		extractor, err := Select(ctx, "c", StrategyAuto, loader)
		require.NoError(t, err)
		assert.Equal(t, extraction.StrategyHeuristic, extractor.Strategy())
		assert.Equal(t, 1, loader.calls)

		functions := extraction.Collect(extractor.IterFunctions([]byte("int f(void) { return 0; }")))
		assert.Equal(t, []string{"f"}, functionNames(functions))
	})

	t.Run("grammar reports failure", func(t *testing.T) {
		t.Parallel()
		extractor, err := Select(ctx, "c", extraction.StrategyGrammar, &stubLoader{err: errGrammarUnavailable})
		require.Error(t, err)
		assert.ErrorIs(t, err, errGrammarUnavailable)
		assert.Nil(t, extractor)
	})

	t.Run("heuristic skips loader", func(t *testing.T) {
		t.Parallel()
		loader := &stubLoader{err: errGrammarUnavailable}
		extractor, err := Select(ctx, "c", extraction.StrategyHeuristic, loader)
		require.NoError(t, err)
		assert.Equal(t, extraction.StrategyHeuristic, extractor.Strategy())
		assert.Zero(t, loader.calls)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		t.Parallel()
		_, err := Select(ctx, "c", "magic", &stubLoader{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown extraction strategy")
	})

	t.Run("unsupported language", func(t *testing.T) {
		t.Parallel()
		_, err := Select(ctx, "go", StrategyAuto, &stubLoader{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported language")
	})
}

func TestSupportedLanguages(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"c"}, SupportedLanguages())
}
