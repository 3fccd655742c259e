package errors

import (
	"strings"
	"unicode"
)

// maxNodeIDLength bounds explicit identifiers supplied by users.
const maxNodeIDLength = 128

// ValidateNodeID checks an explicitly supplied node identifier (an XML id
// attribute or a section anchor). Identifiers end up in scroll-to targets
// and HTML ids, so they must be non-empty, short, and free of whitespace,
// control characters and markup delimiters.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "identifier cannot be empty")
	}
	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidID, "identifier too long (max %d characters)", maxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "identifier %q contains whitespace or control characters", id)
		}
	}
	if strings.ContainsAny(id, `<>"'&#/`) {
		return New(ErrCodeInvalidID, "identifier %q contains reserved characters", id)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
