package config

import (
	"time"

	"github.com/mvp-joe/autodoc/internal/extraction"
	"github.com/mvp-joe/autodoc/internal/grammar"
	"github.com/mvp-joe/autodoc/internal/parsers"
)

// Config represents the complete autodoc configuration.
// It can be loaded from .autodoc/config.yml with environment variable overrides.
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Grammar    GrammarConfig    `yaml:"grammar" mapstructure:"grammar"`
}

// ExtractionConfig selects the language and extraction strategy.
type ExtractionConfig struct {
	Language string `yaml:"language" mapstructure:"language"` // e.g., "c"
	Strategy string `yaml:"strategy" mapstructure:"strategy"` // "auto", "grammar" or "heuristic"
}

// StrategyValue returns the configured strategy as an extraction.Strategy.
func (c ExtractionConfig) StrategyValue() extraction.Strategy {
	return extraction.Strategy(c.Strategy)
}

// GrammarConfig controls how the tree-sitter grammar is obtained.
type GrammarConfig struct {
	RepositoryURL    string        `yaml:"repository_url" mapstructure:"repository_url"`         // %s is replaced by the language
	Revision         string        `yaml:"revision" mapstructure:"revision"`                     // branch or tag; empty for default branch
	TreeSitterBinary string        `yaml:"tree_sitter_binary" mapstructure:"tree_sitter_binary"` // tree-sitter CLI used for builds
	GitBinary        string        `yaml:"git_binary" mapstructure:"git_binary"`
	BuildTimeout     time.Duration `yaml:"build_timeout" mapstructure:"build_timeout"` // e.g., "10m"; zero disables the limit
	LibraryPath      string        `yaml:"library_path" mapstructure:"library_path"`   // precompiled grammar replacing the bundled one
	TempDir          string        `yaml:"temp_dir" mapstructure:"temp_dir"`           // parent of build directories
	DisableBuild     bool          `yaml:"disable_build" mapstructure:"disable_build"` // never build from source
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			Language: "c",
			Strategy: string(parsers.StrategyAuto),
		},
		Grammar: GrammarConfig{
			RepositoryURL:    grammar.DefaultRepositoryURL,
			Revision:         "", // Empty means the repository's default branch
			TreeSitterBinary: "tree-sitter",
			GitBinary:        "git",
			BuildTimeout:     10 * time.Minute,
			LibraryPath:      "",
			TempDir:          "", // Empty means os.TempDir()
			DisableBuild:     false,
		},
	}
}

// GrammarOptions converts the configuration into grammar loader options.
func (c *Config) GrammarOptions() grammar.Options {
	return grammar.Options{
		Language:         c.Extraction.Language,
		RepositoryURL:    c.Grammar.RepositoryURL,
		Revision:         c.Grammar.Revision,
		TreeSitterBinary: c.Grammar.TreeSitterBinary,
		GitBinary:        c.Grammar.GitBinary,
		BuildTimeout:     c.Grammar.BuildTimeout,
		LibraryPath:      c.Grammar.LibraryPath,
		TempDir:          c.Grammar.TempDir,
		DisableBuild:     c.Grammar.DisableBuild,
	}
}
