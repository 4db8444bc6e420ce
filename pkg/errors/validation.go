package errors

import (
	"strings"
	"unicode"
)

// MaxNameLength bounds document and service names accepted at the API
// boundary.
const MaxNameLength = 256

// ValidateDocumentName validates a document name for use as a store key,
// URL segment and file name. It rejects names that could be used for path
// traversal:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or ".." sequences
//   - Maximum length of MaxNameLength characters
func ValidateDocumentName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "document name cannot be empty")
	}

	if len(name) > MaxNameLength {
		return New(ErrCodeInvalidName, "document name too long (max %d characters)", MaxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "document name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "document name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateServiceName checks a service name from an input document. Names
// only need to be non-empty and printable; they are labels, never paths.
func ValidateServiceName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "service name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return New(ErrCodeInvalidInput, "service name too long (max %d characters)", MaxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "service name %q contains control characters", name)
		}
	}
	return nil
}
