package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mvp-joe/autodoc/internal/extraction"
	"github.com/mvp-joe/autodoc/internal/grammar"
	"github.com/mvp-joe/autodoc/internal/parsers"
)

func main() {
	path := "testdata/code/c/simple.c"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	source, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}

	grammarExtractor, err := parsers.NewCExtractor(context.Background(), grammar.NewLoader(grammar.Options{Language: "c"}))
	if err != nil {
		log.Fatal(err)
	}

	for _, extractor := range []extraction.Extractor{grammarExtractor, parsers.NewFallbackCExtractor()} {
		fmt.Printf("=== %s ===\n", extractor.Strategy())
		for fn := range extractor.IterFunctions(source) {
			fmt.Printf("  %s %s\n", fn.ReturnType, fn.Name)
			fmt.Printf("    full %s signature %s body %s\n", fn.Full, fn.Signature, fn.Body)
			if fn.Doc != nil {
				fmt.Printf("    doc %s %q\n", fn.Doc, fn.Doc.Slice(source))
			}
			if err := extraction.Validate(fn, source); err != nil {
				fmt.Printf("    INVALID: %v\n", err)
			}
		}
		fmt.Println()
	}
}
