package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidatePath validates a dataset-relative file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// operatorNameRegex matches snake_case operator names such as "flip_vertical".
var operatorNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateOperatorName validates the syntax of an augmentation operator name.
// Whether the operator exists is checked by the registry.
func ValidateOperatorName(name string) error {
	if name == "" {
		return New(ErrCodeUnknownOperator, "operator name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeUnknownOperator, "operator name too long (max 64 characters)")
	}
	if !operatorNameRegex.MatchString(name) {
		return New(ErrCodeUnknownOperator, "invalid operator name: %q", name)
	}
	return nil
}

// ValidateRange checks that [lo, hi] is a finite, non-inverted interval.
// The name is used in the error message.
func ValidateRange(name string, lo, hi float64) error {
	if !isFinite(lo) || !isFinite(hi) {
		return New(ErrCodeInvalidParams, "%s range must be finite, got [%v, %v]", name, lo, hi)
	}
	if lo > hi {
		return New(ErrCodeInvalidParams, "%s range is inverted: [%v, %v]", name, lo, hi)
	}
	return nil
}

// ValidateFraction checks that v is a finite value in [0, 1].
func ValidateFraction(name string, v float64) error {
	if !isFinite(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidParams, "%s must be in [0, 1], got %v", name, v)
	}
	return nil
}

// ValidatePercent checks that v is a finite value in (0, 100].
func ValidatePercent(name string, v float64) error {
	if !isFinite(v) || v <= 0 || v > 100 {
		return New(ErrCodeInvalidParams, "%s must be in (0, 100], got %v", name, v)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
