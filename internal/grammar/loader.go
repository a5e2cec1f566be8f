package grammar

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/maypok86/otter"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

// DefaultRepositoryURL is the upstream grammar repository; %s is the language name.
const DefaultRepositoryURL = "https://github.com/tree-sitter/tree-sitter-%s"

// bundledGrammars are the grammars compiled into the binary.
var bundledGrammars = map[string]func() unsafe.Pointer{
	"c": tree_sitter_c.Language,
}

// Options configures grammar loading and the from-source fallback.
type Options struct {
	Language         string
	RepositoryURL    string        // may contain %s for the language name
	Revision         string        // branch or tag; empty means the default branch
	TreeSitterBinary string
	GitBinary        string
	BuildTimeout     time.Duration // zero means no timeout beyond the caller's context
	LibraryPath      string        // precompiled grammar library used instead of the bundled one
	TempDir          string        // parent of the build directory; empty means os.TempDir
	DisableBuild     bool
}

func (o Options) withDefaults() Options {
	if o.Language == "" {
		o.Language = "c"
	}
	if o.RepositoryURL == "" {
		o.RepositoryURL = DefaultRepositoryURL
	}
	if o.TreeSitterBinary == "" {
		o.TreeSitterBinary = "tree-sitter"
	}
	if o.GitBinary == "" {
		o.GitBinary = "git"
	}
	return o
}

// RepositoryURLFor expands the language into the repository URL template.
func (o Options) RepositoryURLFor() string {
	if strings.Contains(o.RepositoryURL, "%s") {
		return fmt.Sprintf(o.RepositoryURL, o.Language)
	}
	return o.RepositoryURL
}

func (o Options) cacheKey() string {
	return o.Language + "@" + o.RepositoryURLFor() + "#" + o.Revision
}

// Origin tells where a loaded grammar came from.
type Origin string

const (
	OriginBundled Origin = "bundled"
	OriginLibrary Origin = "library"
	OriginBuilt   Origin = "built"
)

// Grammar is a loaded tree-sitter language and its origin.
type Grammar struct {
	Language *sitter.Language
	Origin   Origin
}

// builder is the from-source build step used by Loader.
type builder interface {
	Build(ctx context.Context) (*sitter.Language, error)
}

// Loader resolves a tree-sitter language: precompiled first, then built from source.
type Loader struct {
	opts        Options
	precompiled func() (*Grammar, error)
	builder     builder
	cache       otter.Cache[string, *sitter.Language]
}

var sharedCache = sync.OnceValue(func() otter.Cache[string, *sitter.Language] {
	return newGrammarCache()
})

func newGrammarCache() otter.Cache[string, *sitter.Language] {
	cache, err := otter.MustBuilder[string, *sitter.Language](16).Build()
	if err != nil {
		panic(fmt.Sprintf("failed to create grammar cache: %v", err))
	}
	return cache
}

// NewLoader creates a Loader. Built grammars are shared by all loaders in the process.
func NewLoader(opts Options) *Loader {
	opts = opts.withDefaults()
	l := &Loader{
		opts:    opts,
		builder: NewBuilder(opts),
		cache:   sharedCache(),
	}
	l.precompiled = l.loadPrecompiled
	return l
}

// Load returns the tree-sitter language, satisfying parsers.GrammarLoader.
func (l *Loader) Load(ctx context.Context) (*sitter.Language, error) {
	g, err := l.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return g.Language, nil
}

// Resolve loads the precompiled grammar, building from source when that fails.
// The build is skipped when disabled in Options.
func (l *Loader) Resolve(ctx context.Context) (*Grammar, error) {
	g, precompiledErr := l.precompiled()
	if precompiledErr == nil {
		return g, nil
	}

	log.Printf("Warning: failed to load precompiled %s grammar: %v", l.opts.Language, precompiledErr)

	if l.opts.DisableBuild {
		return nil, &InitError{
			Language: l.opts.Language,
			Stage:    StagePrecompiled,
			Err:      fmt.Errorf("%w: %w", ErrBuildDisabled, precompiledErr),
		}
	}

	log.Printf("Attempting to build %s grammar from source...", l.opts.Language)
	g, err := l.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w (precompiled grammar: %v)", err, precompiledErr)
	}
	return g, nil
}

// Build compiles the grammar from source, reusing an earlier build of the same
// repository and revision in this process.
func (l *Loader) Build(ctx context.Context) (*Grammar, error) {
	key := l.opts.cacheKey()
	if language, ok := l.cache.Get(key); ok {
		return &Grammar{Language: language, Origin: OriginBuilt}, nil
	}

	if l.opts.BuildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.BuildTimeout)
		defer cancel()
	}

	language, err := l.builder.Build(ctx)
	if err != nil {
		return nil, err
	}

	l.cache.Set(key, language)
	return &Grammar{Language: language, Origin: OriginBuilt}, nil
}

func (l *Loader) loadPrecompiled() (*Grammar, error) {
	if l.opts.LibraryPath != "" {
		language, err := loadLibrary(l.opts.LibraryPath, SymbolName(l.opts.Language))
		if err != nil {
			return nil, err
		}
		if err := checkCompatible(language); err != nil {
			return nil, err
		}
		return &Grammar{Language: language, Origin: OriginLibrary}, nil
	}

	binding, ok := bundledGrammars[l.opts.Language]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoBundledGrammar, l.opts.Language)
	}

	language := sitter.NewLanguage(binding())
	if err := checkCompatible(language); err != nil {
		return nil, err
	}
	return &Grammar{Language: language, Origin: OriginBundled}, nil
}

// checkCompatible verifies the runtime accepts the language's ABI version.
func checkCompatible(language *sitter.Language) error {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(language); err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatibleABI, err)
	}
	return nil
}
