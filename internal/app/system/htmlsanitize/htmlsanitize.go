// internal/app/system/htmlsanitize/htmlsanitize.go
// Package htmlsanitize strips dangerous markup from user-generated
// content (bios, descriptions, comment text) before it is stored.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var ugc = bluemonday.UGCPolicy()
var strict = bluemonday.StrictPolicy()

// Sanitize keeps the UGC-safe subset of HTML (paragraphs, emphasis,
// links with rel=nofollow) and removes scripts, event handlers, and
// embedded objects.
func Sanitize(s string) string {
	return strings.TrimSpace(ugc.Sanitize(s))
}

// PlainText strips all markup, leaving only text content. Used for
// fields that should never contain HTML (names, locations, tags).
func PlainText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
