package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/mvp-joe/autodoc/internal/grammar"
)

// Test Plan for Grammar Commands:
// - check reports the origin of a loaded grammar
// - check reports why the grammar could not be loaded
// - build reports the repository it built from
// - build failures are wrapped with the language name
// - version prints the build information

type fakeResolver struct {
	grammar *grammar.Grammar
	err     error
}

func (r *fakeResolver) Resolve(ctx context.Context) (*grammar.Grammar, error) {
	return r.grammar, r.err
}

func (r *fakeResolver) Build(ctx context.Context) (*grammar.Grammar, error) {
	return r.grammar, r.err
}

func bundledGrammar(origin grammar.Origin) *grammar.Grammar {
	return &grammar.Grammar{Language: sitter.NewLanguage(tree_sitter_c.Language()), Origin: origin}
}

func TestExecuteGrammarCheck(t *testing.T) {
	t.Parallel()

	opts := grammar.Options{Language: "c"}

	t.Run("loaded", func(t *testing.T) {
		var out bytes.Buffer
		err := executeGrammarCheck(context.Background(), &out, &fakeResolver{grammar: bundledGrammar(grammar.OriginBundled)}, opts)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "c grammar loaded (bundled)")
	})

	t.Run("real loader", func(t *testing.T) {
		var out bytes.Buffer
		loaderOpts := grammar.Options{Language: "c", DisableBuild: true}
		err := executeGrammarCheck(context.Background(), &out, grammar.NewLoader(loaderOpts), loaderOpts)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "(bundled)")
	})

	t.Run("unavailable", func(t *testing.T) {
		var out bytes.Buffer
		cause := &grammar.InitError{Language: "c", Stage: grammar.StageToolchain, Dependency: "tree-sitter", Err: grammar.ErrToolNotFound}
		err := executeGrammarCheck(context.Background(), &out, &fakeResolver{err: cause}, opts)
		require.Error(t, err)
		assert.ErrorIs(t, err, grammar.ErrToolNotFound)
		assert.Contains(t, err.Error(), "c grammar unavailable")
		assert.Empty(t, out.String())
	})
}

func TestExecuteGrammarBuild(t *testing.T) {
	t.Parallel()

	opts := grammar.Options{Language: "c", RepositoryURL: grammar.DefaultRepositoryURL}

	t.Run("built", func(t *testing.T) {
		var out bytes.Buffer
		err := executeGrammarBuild(context.Background(), &out, &fakeResolver{grammar: bundledGrammar(grammar.OriginBuilt)}, opts)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Built c grammar from https://github.com/tree-sitter/tree-sitter-c")
	})

	t.Run("failed", func(t *testing.T) {
		err := executeGrammarBuild(context.Background(), &bytes.Buffer{}, &fakeResolver{err: errors.New("generate failed")}, opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to build c grammar: generate failed")
	})
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, out.String(), "Autodoc dev")
	assert.Contains(t, out.String(), "Git commit: none")
}
