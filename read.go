package tonel

import (
	"errors"
	"os"

	"github.com/opal-lang/tonel/internal/diag"
)

// readFile loads a file's text, translating OS-level failures into the
// I/O diagnostic kinds from spec.md §7 instead of leaking *os.PathError
// to callers that only expect the uniform Diagnostic shape.
func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &diag.Diagnostic{Kind: diag.FileNotFound, Reason: "file not found: " + path}
		}
		return "", &diag.Diagnostic{Kind: diag.ReadError, Reason: err.Error()}
	}
	return string(data), nil
}
