package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from files and environment variables.
	// Priority: defaults → global file → project file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	globalDir  string
	configFile string
}

// LoaderOption customizes a Loader.
type LoaderOption func(*loader)

// WithConfigFile reads path instead of the project's .autodoc/config.yml.
// Unlike the project file, an explicit file must exist.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) {
		l.configFile = path
	}
}

// WithGlobalDir overrides the directory holding the global config (default ~/.autodoc).
// An empty dir disables the global config.
func WithGlobalDir(dir string) LoaderOption {
	return func(l *loader) {
		l.globalDir = dir
	}
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string, opts ...LoaderOption) Loader {
	l := &loader{
		rootDir: rootDir,
	}
	if home, err := os.UserHomeDir(); err == nil {
		l.globalDir = filepath.Join(home, ".autodoc")
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (AUTODOC_*)
// 2. Explicit config file, or .autodoc/config.yml (or .yaml) under the root directory
// 3. Global config (~/.autodoc/config.yml)
// 4. Default values
func (l *loader) Load() (*Config, error) {
	// Configure viper
	v := viper.New()
	v.SetConfigType("yaml")

	// Enable environment variable overrides
	v.SetEnvPrefix("AUTODOC")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., AUTODOC_EXTRACTION_STRATEGY)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindEnvVars(v)

	// Set defaults in viper
	setDefaults(v)

	// Later files override earlier ones key by key
	for _, path := range l.configFiles() {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// Unmarshal into config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate the configuration
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// configFiles lists the files to merge, lowest priority first.
// Missing global and project files are skipped; a missing explicit file is not.
func (l *loader) configFiles() []string {
	var files []string

	if l.globalDir != "" {
		if path := findConfigFile(l.globalDir); path != "" {
			files = append(files, path)
		}
	}

	if l.configFile != "" {
		return append(files, l.configFile)
	}

	if path := findConfigFile(filepath.Join(l.rootDir, ".autodoc")); path != "" {
		files = append(files, path)
	}
	return files
}

// findConfigFile returns config.yml or config.yaml in dir, or "" if neither exists.
func findConfigFile(dir string) string {
	for _, name := range []string{"config.yml", "config.yaml"} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// bindEnvVars binds environment variables to config keys.
func bindEnvVars(v *viper.Viper) {
	// Extraction configuration
	v.BindEnv("extraction.language")
	v.BindEnv("extraction.strategy")

	// Grammar configuration
	v.BindEnv("grammar.repository_url")
	v.BindEnv("grammar.revision")
	v.BindEnv("grammar.tree_sitter_binary")
	v.BindEnv("grammar.git_binary")
	v.BindEnv("grammar.build_timeout")
	v.BindEnv("grammar.library_path")
	v.BindEnv("grammar.temp_dir")
	v.BindEnv("grammar.disable_build")
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	// Extraction defaults
	v.SetDefault("extraction.language", defaults.Extraction.Language)
	v.SetDefault("extraction.strategy", defaults.Extraction.Strategy)

	// Grammar defaults
	v.SetDefault("grammar.repository_url", defaults.Grammar.RepositoryURL)
	v.SetDefault("grammar.revision", defaults.Grammar.Revision)
	v.SetDefault("grammar.tree_sitter_binary", defaults.Grammar.TreeSitterBinary)
	v.SetDefault("grammar.git_binary", defaults.Grammar.GitBinary)
	v.SetDefault("grammar.build_timeout", defaults.Grammar.BuildTimeout)
	v.SetDefault("grammar.library_path", defaults.Grammar.LibraryPath)
	v.SetDefault("grammar.temp_dir", defaults.Grammar.TempDir)
	v.SetDefault("grammar.disable_build", defaults.Grammar.DisableBuild)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
