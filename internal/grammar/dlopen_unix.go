//go:build darwin || linux

package grammar

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// loadLibrary opens a compiled grammar library and calls its language constructor.
// The handle stays open for the life of the process: the language points into it.
func loadLibrary(path, symbol string) (*sitter.Language, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("failed to open grammar library %s: %w", path, err)
	}

	sym, err := purego.Dlsym(handle, symbol)
	if err != nil {
		_ = purego.Dlclose(handle)
		return nil, fmt.Errorf("symbol %s not found in %s: %w", symbol, path, err)
	}

	var language func() uintptr
	purego.RegisterFunc(&language, sym)

	ptr := language()
	if ptr == 0 {
		_ = purego.Dlclose(handle)
		return nil, fmt.Errorf("%s in %s returned a nil language", symbol, path)
	}

	return sitter.NewLanguage(unsafe.Pointer(ptr)), nil
}
