// Package config provides configuration loading for autodoc.
//
// Configuration is read from two optional files, merged in order:
//
// 1. Global configuration (~/.autodoc/config.yml)
//   - Machine-wide grammar toolchain settings
//   - tree-sitter and git binaries, build directory, build timeout
//
// 2. Project configuration (.autodoc/config.yml)
//   - Extraction language and strategy
//   - Grammar repository and revision pins
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Environment variables (AUTODOC_*)
//  2. Explicit config file (--config), replacing the project file
//  3. Project config (.autodoc/config.yml)
//  4. Global config (~/.autodoc/config.yml)
//  5. Built-in defaults
//
// Environment Variable Convention:
//   - Prefix: AUTODOC_
//   - Nested fields: Use underscores (AUTODOC_GRAMMAR_BUILD_TIMEOUT)
//   - Automatic mapping via Viper's SetEnvKeyReplacer
//
// Example usage:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//	    return err
//	}
//
//	loader := grammar.NewLoader(cfg.GrammarOptions())
//	extractor, err := parsers.Select(ctx, cfg.Extraction.Language, cfg.Extraction.StrategyValue(), loader)
package config
