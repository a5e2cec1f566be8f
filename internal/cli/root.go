package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/autodoc/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "autodoc",
	Short: "Autodoc - locate C functions and their documentation",
	Long: `Autodoc finds function definitions in C source files and reports byte ranges
for each function's signature, body, full extent and leading documentation comment.

Functions are located with a tree-sitter grammar when one can be loaded, and with
a pattern-based scanner otherwise.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .autodoc/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads configuration for the current working directory,
// honouring the --config flag.
func loadConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	var opts []config.LoaderOption
	if cfgFile != "" {
		opts = append(opts, config.WithConfigFile(cfgFile))
	}

	cfg, err := config.NewLoader(wd, opts...).Load()
	if err != nil {
		return nil, err
	}

	if verbose {
		log.Printf("Extraction: language=%s strategy=%s", cfg.Extraction.Language, cfg.Extraction.Strategy)
	}
	return cfg, nil
}
