package parsers

import (
	"context"
	"fmt"
	"log"

	"github.com/mvp-joe/autodoc/internal/extraction"
)

// StrategyAuto prefers the grammar-based extractor and falls back to the heuristic one
// when the grammar cannot be initialized.
const StrategyAuto extraction.Strategy = "auto"

// SupportedLanguages lists the languages Select can build extractors for.
func SupportedLanguages() []string {
	return []string{"c"}
}

// Select builds the extractor for lang according to strategy.
//
// With StrategyAuto a grammar initialization failure is logged and the heuristic
// extractor is returned instead. With StrategyGrammar the failure is returned.
func Select(ctx context.Context, lang string, strategy extraction.Strategy, loader GrammarLoader) (extraction.Extractor, error) {
	if lang != "c" {
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	switch strategy {
	case extraction.StrategyHeuristic:
		return NewFallbackCExtractor(), nil

	case extraction.StrategyGrammar:
		extractor, err := NewCExtractor(ctx, loader)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize grammar-based extractor: %w", err)
		}
		return extractor, nil

	case StrategyAuto, "":
		extractor, err := NewCExtractor(ctx, loader)
		if err != nil {
			log.Printf("Warning: grammar-based extraction unavailable, using heuristic extractor: %v", err)
			return NewFallbackCExtractor(), nil
		}
		return extractor, nil

	default:
		return nil, fmt.Errorf("unknown extraction strategy: %s (valid: auto, grammar, heuristic)", strategy)
	}
}
