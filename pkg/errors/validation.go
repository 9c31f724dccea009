package errors

import (
	"os"
	"strings"
	"unicode"
)

// maxPathLength bounds user supplied paths.
const maxPathLength = 4096

// ValidateProjectRoot checks that root names an existing directory.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Must exist and be a directory
func ValidateProjectRoot(root string) error {
	if strings.TrimSpace(root) == "" {
		return New(ErrCodeInvalidInput, "project root cannot be empty")
	}
	if len(root) > maxPathLength {
		return New(ErrCodeInvalidInput, "project root too long (max %d characters)", maxPathLength)
	}
	for _, r := range root {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "project root contains invalid characters")
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "project root %s", root)
	}
	if !info.IsDir() {
		return New(ErrCodeInvalidInput, "project root %s is not a directory", root)
	}
	return nil
}

// ValidateWorkers checks a requested worker pool size. Zero selects the
// default; negative values are rejected.
func ValidateWorkers(n int) error {
	if n < 0 {
		return New(ErrCodeConfig, "workers must be >= 0, got %d", n)
	}
	return nil
}
