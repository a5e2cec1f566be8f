package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mvp-joe/autodoc/internal/extraction"
	"github.com/mvp-joe/autodoc/internal/parsers"
)

var (
	// ErrUnsupportedLanguage indicates a language no extractor exists for
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrInvalidStrategy indicates an unknown extraction strategy
	ErrInvalidStrategy = errors.New("invalid extraction strategy")

	// ErrEmptyRepository indicates a missing grammar repository URL
	ErrEmptyRepository = errors.New("empty grammar repository")

	// ErrEmptyBinary indicates a missing toolchain binary name
	ErrEmptyBinary = errors.New("empty binary")

	// ErrInvalidTimeout indicates a negative build timeout
	ErrInvalidTimeout = errors.New("invalid build timeout")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	// Validate extraction configuration
	if err := validateExtraction(&cfg.Extraction); err != nil {
		errs = append(errs, err)
	}

	// Validate grammar configuration
	if err := validateGrammar(&cfg.Grammar); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateExtraction(cfg *ExtractionConfig) error {
	var errs []error

	// Validate language
	if !slices.Contains(parsers.SupportedLanguages(), cfg.Language) {
		errs = append(errs, fmt.Errorf("%w: '%s' (supported: %s)", ErrUnsupportedLanguage, cfg.Language, strings.Join(parsers.SupportedLanguages(), ", ")))
	}

	// Validate strategy
	switch cfg.StrategyValue() {
	case parsers.StrategyAuto, extraction.StrategyGrammar, extraction.StrategyHeuristic:
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'auto', 'grammar' or 'heuristic', got '%s'", ErrInvalidStrategy, cfg.Strategy))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateGrammar(cfg *GrammarConfig) error {
	var errs []error

	// Validate build timeout (zero means no limit)
	if cfg.BuildTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: build_timeout cannot be negative, got %s", ErrInvalidTimeout, cfg.BuildTimeout))
	}

	// The build toolchain settings only matter when building is allowed
	if cfg.DisableBuild {
		if len(errs) > 0 {
			return joinErrors(errs)
		}
		return nil
	}

	if strings.TrimSpace(cfg.RepositoryURL) == "" {
		errs = append(errs, fmt.Errorf("%w: repository_url is required", ErrEmptyRepository))
	}

	if strings.TrimSpace(cfg.TreeSitterBinary) == "" {
		errs = append(errs, fmt.Errorf("%w: tree_sitter_binary is required", ErrEmptyBinary))
	}

	if strings.TrimSpace(cfg.GitBinary) == "" {
		errs = append(errs, fmt.Errorf("%w: git_binary is required", ErrEmptyBinary))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The result still matches every joined error with errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return &validationError{errs: errs}
}

type validationError struct {
	errs []error
}

func (e *validationError) Error() string {
	msgs := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e *validationError) Unwrap() []error {
	return e.errs
}
