package grammar

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/autodoc/internal/git"
)

// commandRunner runs name with args in dir and returns combined output.
type commandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Builder compiles a grammar from its upstream repository.
// Every build happens in a fresh temporary directory that is removed on return.
type Builder struct {
	opts     Options
	git      git.Operations
	run      commandRunner
	lookPath func(string) (string, error)
	open     func(path, symbol string) (*sitter.Language, error)
}

// NewBuilder returns a Builder that uses the real toolchain.
func NewBuilder(opts Options) *Builder {
	opts = opts.withDefaults()
	return &Builder{
		opts:     opts,
		git:      git.NewOperations(opts.GitBinary),
		run:      runCommand,
		lookPath: exec.LookPath,
		open:     loadLibrary,
	}
}

// Build clones, generates and compiles the grammar, then loads the compiled library.
func (b *Builder) Build(ctx context.Context) (*sitter.Language, error) {
	lang := b.opts.Language

	for _, tool := range []string{b.opts.TreeSitterBinary, b.opts.GitBinary} {
		if _, err := b.lookPath(tool); err != nil {
			return nil, &InitError{Language: lang, Stage: StageToolchain, Dependency: tool, Err: fmt.Errorf("%w: %v", ErrToolNotFound, err)}
		}
	}
	if err := b.verifyTreeSitter(ctx); err != nil {
		return nil, &InitError{Language: lang, Stage: StageToolchain, Dependency: b.opts.TreeSitterBinary, Err: err}
	}

	workDir, err := os.MkdirTemp(b.opts.TempDir, "autodoc-grammar-*")
	if err != nil {
		return nil, &InitError{Language: lang, Stage: StageClone, Err: fmt.Errorf("failed to create build directory: %w", err)}
	}
	defer os.RemoveAll(workDir)

	repoURL := b.opts.RepositoryURLFor()
	repoDir := filepath.Join(workDir, "tree-sitter-"+lang)

	log.Printf("Cloning %s", repoURL)
	if err := b.git.CloneShallow(ctx, repoURL, b.opts.Revision, repoDir); err != nil {
		return nil, &InitError{Language: lang, Stage: StageClone, Dependency: b.opts.GitBinary, Err: err}
	}

	if output, err := b.run(ctx, repoDir, b.opts.TreeSitterBinary, "generate"); err != nil {
		return nil, &InitError{Language: lang, Stage: StageGenerate, Dependency: b.opts.TreeSitterBinary, Err: commandError(err, output)}
	}

	libPath := filepath.Join(workDir, libraryFileName(lang))
	if output, err := b.run(ctx, repoDir, b.opts.TreeSitterBinary, "build", "--output", libPath); err != nil {
		return nil, &InitError{Language: lang, Stage: StageBuild, Dependency: b.opts.TreeSitterBinary, Err: commandError(err, output)}
	}

	language, err := b.open(libPath, SymbolName(lang))
	if err != nil {
		return nil, &InitError{Language: lang, Stage: StageLoad, Dependency: libPath, Err: err}
	}
	if err := checkCompatible(language); err != nil {
		return nil, &InitError{Language: lang, Stage: StageLoad, Dependency: libPath, Err: err}
	}

	if rev, err := b.git.HeadRevision(ctx, repoDir); err == nil {
		log.Printf("Built %s grammar from %s at %s", lang, repoURL, rev)
	}

	return language, nil
}

// verifyTreeSitter checks the CLI runs by asking for its version.
func (b *Builder) verifyTreeSitter(ctx context.Context) error {
	output, err := b.run(ctx, "", b.opts.TreeSitterBinary, "--version")
	if err != nil {
		return fmt.Errorf("binary verification failed: %w", commandError(err, output))
	}

	// Expected format: "tree-sitter 0.25.3" or similar
	if !strings.Contains(string(output), "tree-sitter") {
		return fmt.Errorf("invalid binary output: %s", strings.TrimSpace(string(output)))
	}
	return nil
}

func commandError(err error, output []byte) error {
	output = bytes.TrimSpace(output)
	if len(output) == 0 {
		return err
	}
	return fmt.Errorf("%w: %s", err, output)
}

// SymbolName returns the exported constructor symbol of a compiled grammar.
func SymbolName(lang string) string {
	return "tree_sitter_" + strings.ReplaceAll(lang, "-", "_")
}

func libraryFileName(lang string) string {
	switch runtime.GOOS {
	case "darwin":
		return "libtree-sitter-" + lang + ".dylib"
	case "windows":
		return "tree-sitter-" + lang + ".dll"
	default:
		return "libtree-sitter-" + lang + ".so"
	}
}
