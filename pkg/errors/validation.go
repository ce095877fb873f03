package errors

import (
	"strings"
	"unicode"
)

// ValidateLayerID validates a layer id for safety and correctness. Layer ids
// are path-like identifiers minted by the parsing collaborator; they end up
// in cache keys, pixel-buffer filenames, and anchor references, so the rules
// are intentionally conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - No path traversal sequences
//   - Maximum length of 256 characters
func ValidateLayerID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidLayerID, "layer id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidLayerID, "layer id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLayerID, "layer id contains control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidLayerID, "layer id contains invalid sequence %q", pattern)
		}
	}

	return nil
}

// ValidateSlotID validates an output slot identifier. Slots name persisted
// payloads and cache namespaces, so the same conservative rules apply as for
// layer ids.
func ValidateSlotID(slot string) error {
	if slot == "" {
		return New(ErrCodeInvalidInput, "slot id cannot be empty")
	}
	if strings.ContainsAny(slot, " \t\n") {
		return New(ErrCodeInvalidInput, "slot id cannot contain whitespace")
	}
	return ValidateLayerIDAs(slot, ErrCodeInvalidInput)
}

// ValidateLayerIDAs applies the layer id rules but reports failures under a
// different error code. Used for slot and owner ids that share the format.
func ValidateLayerIDAs(id string, code Code) error {
	if err := ValidateLayerID(id); err != nil {
		return New(code, "%s", UserMessage(err))
	}
	return nil
}
