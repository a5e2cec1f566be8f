package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/autodoc/internal/extraction"
	"github.com/mvp-joe/autodoc/internal/grammar"
	"github.com/mvp-joe/autodoc/internal/parsers"
)

var (
	functionsStrategy string
	functionsMatch    string
	functionsText     bool
	functionsValidate bool
	functionsQuiet    bool
)

// functionsCmd represents the functions command
var functionsCmd = &cobra.Command{
	Use:   "functions [flags] <file>...",
	Short: "List function definitions in C source files",
	Long: `Functions prints every function definition found in the given files as JSON.

Each record holds byte ranges ([start, end) offsets into the file) for the
signature, the body between the braces, the full definition and the leading
documentation comment when there is one.

The extraction strategy comes from the configuration (extraction.strategy) and
can be overridden with --strategy:
  auto       use the tree-sitter grammar, or the heuristic scanner if it cannot load
  grammar    use the tree-sitter grammar and fail if it cannot load
  heuristic  use the pattern-based scanner only

Examples:
  # List functions in one file
  autodoc functions src/main.c

  # Include the text of every range
  autodoc functions --text src/main.c

  # Only functions whose name starts with user_
  autodoc functions --match 'user_*' src/*.c
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFunctions,
}

func init() {
	rootCmd.AddCommand(functionsCmd)
	functionsCmd.Flags().StringVarP(&functionsStrategy, "strategy", "s", "", "Extraction strategy: auto, grammar or heuristic (default from config)")
	functionsCmd.Flags().StringVarP(&functionsMatch, "match", "m", "", "Only report functions whose name matches this glob")
	functionsCmd.Flags().BoolVarP(&functionsText, "text", "t", false, "Include the source text of each range")
	functionsCmd.Flags().BoolVar(&functionsValidate, "validate", false, "Check every record against its source and fail on violations")
	functionsCmd.Flags().BoolVarP(&functionsQuiet, "quiet", "q", false, "Disable the progress bar")
}

// functionsOptions controls what executeFunctions reports.
type functionsOptions struct {
	Match    string
	Text     bool
	Validate bool
	Quiet    bool
}

// fileResult is the JSON output for one input file.
type fileResult struct {
	File      string           `json:"file"`
	Language  string           `json:"language"`
	Strategy  string           `json:"strategy"`
	Functions []functionOutput `json:"functions"`
}

// functionOutput is one extracted record, optionally with its text and validation errors.
type functionOutput struct {
	extraction.FunctionInfo
	Text   *functionText `json:"text,omitempty"`
	Errors []string      `json:"errors,omitempty"`
}

type functionText struct {
	Signature string `json:"signature"`
	Body      string `json:"body"`
	Full      string `json:"full"`
	Doc       string `json:"doc,omitempty"`
}

func runFunctions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if functionsStrategy != "" {
		cfg.Extraction.Strategy = functionsStrategy
	}

	loader := grammar.NewLoader(cfg.GrammarOptions())
	extractor, err := parsers.Select(cmd.Context(), cfg.Extraction.Language, cfg.Extraction.StrategyValue(), loader)
	if err != nil {
		return err
	}

	opts := functionsOptions{
		Match:    functionsMatch,
		Text:     functionsText,
		Validate: functionsValidate,
		Quiet:    functionsQuiet || len(args) < 2,
	}
	return executeFunctions(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), extractor, args, opts)
}

// executeFunctions extracts functions from each file and writes the results to out as JSON.
// Progress goes to errOut.
func executeFunctions(ctx context.Context, out, errOut io.Writer, extractor extraction.Extractor, files []string, opts functionsOptions) error {
	var matcher glob.Glob
	if opts.Match != "" {
		g, err := glob.Compile(opts.Match)
		if err != nil {
			return fmt.Errorf("invalid --match pattern %q: %w", opts.Match, err)
		}
		matcher = g
	}

	progress := newFileProgress(errOut, opts.Quiet)
	progress.OnStart(len(files))

	results := make([]fileResult, 0, len(files))
	invalid := 0

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		source, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		result := fileResult{
			File:      file,
			Language:  extractor.Language(),
			Strategy:  string(extractor.Strategy()),
			Functions: []functionOutput{},
		}

		for fn := range extractor.IterFunctions(source) {
			if matcher != nil && !matcher.Match(fn.Name) {
				continue
			}

			output := functionOutput{FunctionInfo: fn}
			if opts.Text {
				output.Text = sliceText(fn, source)
			}
			if opts.Validate {
				if err := extraction.Validate(fn, source); err != nil {
					output.Errors = []string{err.Error()}
					invalid++
				}
			}
			result.Functions = append(result.Functions, output)
		}

		results = append(results, result)
		progress.OnFileProcessed(file)
	}

	progress.OnComplete()

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	if invalid > 0 {
		return fmt.Errorf("%d function records failed validation", invalid)
	}
	return nil
}

func sliceText(fn extraction.FunctionInfo, source []byte) *functionText {
	text := &functionText{
		Signature: string(fn.Signature.Slice(source)),
		Body:      string(fn.Body.Slice(source)),
		Full:      string(fn.Full.Slice(source)),
	}
	if fn.Doc != nil {
		text.Doc = string(fn.Doc.Slice(source))
	}
	return text
}
