package errors

import (
	"strings"
	"unicode"
)

// ValidateEntityName validates a user-facing entity name (workspace, node,
// style, service, or service group). It rejects names that would corrupt the
// persisted file or the UI presentation.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No null bytes
//   - Maximum length of 256 characters
//
// Entity-specific rules (reserved prefixes, separator characters) are applied
// separately by the owning registries.
func ValidateEntityName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidArgument, "name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidArgument, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidArgument, "name contains control characters")
		}
	}

	if strings.ContainsRune(name, '\x00') {
		return New(ErrCodeInvalidArgument, "name contains a null byte")
	}

	return nil
}

// ValidateWorkspacePath validates a workspace file path before it is handed
// to the XML reader or writer.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateWorkspacePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidArgument, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidArgument, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidArgument, "path contains invalid characters")
		}
	}

	return nil
}
