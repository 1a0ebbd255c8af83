package application

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// ValidateOneOf checks that value is one of the allowed choices
func ValidateOneOf(fieldName, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return &ValidationError{
		Field:   fieldName,
		Message: fmt.Sprintf("unsupported %s %q (expected one of: %s)", formatFieldName(fieldName), value, strings.Join(allowed, ", ")),
	}
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "nodeID" -> "node ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"nodeID":    "node ID",
		"rootDir":   "root directory",
		"indexPath": "index path",
		"filePath":  "file path",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}
