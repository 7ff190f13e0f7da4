package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidateEntryName checks a file or folder display name. Names are path
// segments, so separators are rejected along with the usual filesystem
// troublemakers.
func ValidateEntryName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if len(name) > 255 {
		return fmt.Errorf("name too long (max 255 characters)")
	}

	if !utf8.ValidString(name) {
		return fmt.Errorf("name contains invalid UTF-8 characters")
	}

	invalidChars := []string{"<", ">", ":", "\"", "|", "?", "*", "\x00", "/", "\\"}
	for _, char := range invalidChars {
		if strings.Contains(name, char) {
			return fmt.Errorf("name contains invalid character: %s", char)
		}
	}

	if name == "." || name == ".." {
		return fmt.Errorf("name cannot be a directory reference")
	}

	return nil
}
