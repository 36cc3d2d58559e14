package notes

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
)

// Ext is the note file extension
const Ext = ".md"

// IsNoteName reports whether name is a note file. A bare ".md" is a dotfile
// without an extension, not a note.
func IsNoteName(name string) bool {
	return name != Ext && filepath.Ext(name) == Ext
}

// Sanitize maps every rune outside [A-Za-z0-9_-] to '-'.
// The result is always a valid filename fragment and Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if isSafe(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

func isSafe(r rune) bool {
	return r >= 'a' && r <= 'z' ||
		r >= 'A' && r <= 'Z' ||
		r >= '0' && r <= '9' ||
		r == '-' || r == '_'
}

// NewFilename builds "<unix-millis>-<sanitized-title>.md"
func NewFilename(now time.Time, title string) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + Sanitize(title) + Ext
}

// Title derives the display title: trailing ".md" suffixes are stripped and
// everything up to and including the first '-' is dropped.
// "1700000000000-My-Note.md" yields "My-Note"; a name without '-' yields "".
func Title(filename string) string {
	name := filename
	for strings.HasSuffix(name, Ext) {
		name = strings.TrimSuffix(name, Ext)
	}
	_, title, ok := strings.Cut(name, "-")
	if !ok {
		return ""
	}
	return title
}

// TimestampPrefix returns the digits before the first '-'
func TimestampPrefix(filename string) (string, error) {
	prefix, _, _ := strings.Cut(filename, "-")
	if prefix == "" {
		return "", apperr.New(apperr.InvalidInput, "Invalid filename format")
	}
	for _, r := range prefix {
		if r < '0' || r > '9' {
			return "", apperr.New(apperr.InvalidInput, "Invalid filename format")
		}
	}
	return prefix, nil
}

// ValidateFilename rejects anything that is not a plain file name inside the notes directory
func ValidateFilename(filename string) error {
	switch {
	case filename == "":
		return apperr.New(apperr.InvalidInput, "filename parameter required")
	case filename == "." || filename == "..":
		return apperr.New(apperr.InvalidInput, "Invalid filename")
	case strings.ContainsAny(filename, `/\`) || filepath.Base(filename) != filename:
		return apperr.New(apperr.InvalidInput, "Invalid filename")
	case strings.ContainsRune(filename, 0):
		return apperr.New(apperr.InvalidInput, "Invalid filename")
	}
	return nil
}
