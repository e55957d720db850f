package errors

import (
	"strings"
	"unicode"
)

// ValidateSessionID validates a session identifier received from a client.
// It rejects identifiers that could escape a storage directory or key prefix.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "session id too long (max 128 characters)")
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "session id contains invalid characters: %q", pattern)
		}
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "session id contains invalid characters")
		}
	}
	return nil
}
