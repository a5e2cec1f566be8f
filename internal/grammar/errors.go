package grammar

import (
	"errors"
	"fmt"
)

var (
	// ErrToolNotFound indicates a required command-line tool is not on PATH
	ErrToolNotFound = errors.New("required tool not found")

	// ErrIncompatibleABI indicates a grammar built for a different tree-sitter ABI
	ErrIncompatibleABI = errors.New("incompatible grammar ABI")

	// ErrNoBundledGrammar indicates no precompiled grammar ships for the language
	ErrNoBundledGrammar = errors.New("no bundled grammar")

	// ErrDlopenUnsupported indicates grammar libraries cannot be loaded on this platform
	ErrDlopenUnsupported = errors.New("loading grammar libraries is not supported on this platform")

	// ErrBuildDisabled indicates the from-source build was turned off in configuration
	ErrBuildDisabled = errors.New("grammar build from source disabled")
)

// Stage names the initialization step that failed.
type Stage string

const (
	StagePrecompiled Stage = "precompiled"
	StageToolchain   Stage = "toolchain"
	StageClone       Stage = "clone"
	StageGenerate    Stage = "generate"
	StageBuild       Stage = "build"
	StageLoad        Stage = "load"
)

// InitError reports why a grammar could not be made available.
type InitError struct {
	Language   string
	Stage      Stage
	Dependency string // tool or artifact that was missing or failed, e.g. "tree-sitter"
	Err        error
}

func (e *InitError) Error() string {
	if e.Dependency != "" {
		return fmt.Sprintf("failed to initialize %s grammar at %s stage (%s): %v", e.Language, e.Stage, e.Dependency, e.Err)
	}
	return fmt.Sprintf("failed to initialize %s grammar at %s stage: %v", e.Language, e.Stage, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
