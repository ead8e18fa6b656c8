// Package slug canonicalizes free-text titles and identifiers into URL-safe
// keys. Slugs participate in store partition keys, so normalization also
// guarantees no reserved key characters (notably '#') survive.
package slug

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	invalidRe    = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRunRe  = regexp.MustCompile(`-{2,}`)
)

// Normalize lowercases and trims s, collapses interior whitespace and any
// run of characters outside [a-z0-9-] into single hyphens, squeezes repeated
// hyphens, and strips leading/trailing hyphens. The result may be empty;
// callers resolving a comment target must treat that as a missing slug.
// Normalize is idempotent.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = invalidRe.ReplaceAllString(s, "-")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FromTitle derives a slug from a post title. Unlike Normalize it never
// returns an empty string: a title that normalizes to nothing falls back to
// a fresh random identifier.
func FromTitle(title string) string {
	if s := Normalize(title); s != "" {
		return s
	}
	return uuid.New().String()
}
