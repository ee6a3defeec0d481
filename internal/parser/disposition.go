package parser

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Content-Disposition filename tokens. Both the RFC quoted form and the
// extended charset'lang'value form must be recognized.
var (
	quotedFilenamePattern   = regexp.MustCompile(`filename="([^"]+)"`)
	extendedFilenamePattern = regexp.MustCompile(`filename\*=[^']+'[^']*'([^;\s]+)`)
)

// DeriveFilename derives a storage filename from the final effective URL of
// a media response and its Content-Disposition header. Three tiers, each
// strictly overriding the previous when present:
//
//  1. the last path segment of the final URL, query string stripped
//  2. a quoted filename="..." token in the disposition header
//  3. an extended filename*=charset'lang'value token, percent-decoded
//
// The result is percent-decoded as a final step.
func DeriveFilename(finalURL, disposition string) string {
	raw := finalURL
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	filename := path.Base(raw)

	if m := quotedFilenamePattern.FindStringSubmatch(disposition); m != nil {
		filename = m[1]
	}
	if m := extendedFilenamePattern.FindStringSubmatch(disposition); m != nil {
		filename = m[1]
	}

	if decoded, err := url.PathUnescape(filename); err == nil {
		return decoded
	}
	return filename
}
