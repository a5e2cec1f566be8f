//go:build !(darwin || linux)

package grammar

import (
	"fmt"
	"runtime"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func loadLibrary(path, symbol string) (*sitter.Language, error) {
	return nil, fmt.Errorf("%w (%s): cannot load %s", ErrDlopenUnsupported, runtime.GOOS, path)
}
