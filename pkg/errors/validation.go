package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxContentBytes is the largest payload a version-40 symbol holds in byte mode at level L.
const MaxContentBytes = 2953

// MaxGlyphRunes bounds emoji fields. Flag and family sequences with joiners stay well below it.
const MaxGlyphRunes = 16

// ValidateContent validates the payload text handed to the QR encoder.
//
// The validation rules are intentionally conservative:
//   - No empty content
//   - Valid UTF-8
//   - No null bytes
//   - At most MaxContentBytes bytes
func ValidateContent(content string) error {
	if content == "" {
		return New(ErrCodeInvalidPayload, "content cannot be empty")
	}
	if len(content) > MaxContentBytes {
		return New(ErrCodeInvalidPayload, "content too long (%d bytes, max %d)", len(content), MaxContentBytes)
	}
	if !utf8.ValidString(content) {
		return New(ErrCodeInvalidPayload, "content is not valid UTF-8")
	}
	if strings.ContainsRune(content, '\x00') {
		return New(ErrCodeInvalidPayload, "content contains a null byte")
	}
	return nil
}

// ValidateGlyph validates an emoji glyph field. Empty glyphs are allowed:
// they disable the feature that would draw them.
func ValidateGlyph(glyph string) error {
	if glyph == "" {
		return nil
	}
	if !utf8.ValidString(glyph) {
		return New(ErrCodeInvalidConfig, "glyph is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(glyph); n > MaxGlyphRunes {
		return New(ErrCodeInvalidConfig, "glyph too long (%d runes, max %d)", n, MaxGlyphRunes)
	}
	for _, r := range glyph {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "glyph contains control characters")
		}
	}
	return nil
}

// ValidateOutputBase validates the base name used for exported files.
// It must be a plain file name without directory components.
func ValidateOutputBase(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "output name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "output name cannot contain path separators")
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidInput, "output name cannot be %q", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output name contains invalid control characters")
		}
	}
	return nil
}
