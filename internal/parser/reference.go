// Package parser contains the pure text-matching pieces of the resolution
// pipeline: video reference recognition and filename derivation from HTTP
// response metadata. Nothing in this package touches the network.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mlen/biliclip/internal/models"
)

// referencePattern recognizes either a bare identifier ("av<digits>" or a
// BV-style code, case-insensitive) or a full site URL containing
// /video/<identifier>/ with an optional p=<digits> query parameter.
var referencePattern = regexp.MustCompile(`(?:^|bilibili\.com/video/)(av\d+|[Bb][Vv][A-Za-z0-9]+)/?(?:\?(?:.*&)?p=(\d+))?`)

// ParseReference attempts to recognize a video reference inside raw text.
// On match it returns the reference and the 1-based part selector (0 when
// absent). On no match ok is false and the caller decides the routing:
// text starting with a URL scheme is a literal direct URL, anything else
// is invalid input.
func ParseReference(text string) (ref models.VideoRef, part int, ok bool) {
	m := referencePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return models.VideoRef{}, 0, false
	}

	ref, ok = models.ParseRefToken(m[1])
	if !ok {
		return models.VideoRef{}, 0, false
	}
	if m[2] != "" {
		// The pattern guarantees digits; a value too large to fit is not a
		// meaningful selector anyway.
		if n, err := strconv.Atoi(m[2]); err == nil {
			part = n
		}
	}
	return ref, part, true
}

// IsDirectURL reports whether unrecognized text should be treated as a
// literal media URL.
func IsDirectURL(text string) bool {
	return strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://")
}
