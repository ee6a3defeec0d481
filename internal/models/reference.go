package models

import (
	"fmt"
	"strconv"
	"strings"
)

// VideoRef is a parsed, immutable reference to a video. Exactly one of the
// two forms is populated: Bvid for BV-style codes (kept as typed by the user,
// the site accepts any casing) or Aid for numeric av identifiers.
type VideoRef struct {
	Bvid string
	Aid  int64
}

// NewBVRef builds a reference from a BV-style code token.
func NewBVRef(code string) VideoRef {
	return VideoRef{Bvid: code}
}

// NewAVRef builds a reference from a numeric identifier.
func NewAVRef(aid int64) VideoRef {
	return VideoRef{Aid: aid}
}

// ParseRefToken parses a bare identifier token ("BV..." or "av<digits>").
func ParseRefToken(token string) (VideoRef, bool) {
	s := strings.TrimSpace(token)
	if len(s) > 2 && strings.EqualFold(s[:2], "bv") {
		return NewBVRef(s), true
	}
	if strings.HasPrefix(s, "av") {
		if aid, err := strconv.ParseInt(s[2:], 10, 64); err == nil && aid > 0 {
			return NewAVRef(aid), true
		}
	}
	return VideoRef{}, false
}

// IsBV reports whether the reference is in BV code form.
func (r VideoRef) IsBV() bool {
	return r.Bvid != ""
}

// Token returns the reference as the token the user supplied: the BV code,
// or "av<digits>" for numeric references. Used for cache lookups and for
// building the referer header.
func (r VideoRef) Token() string {
	if r.IsBV() {
		return r.Bvid
	}
	return fmt.Sprintf("av%d", r.Aid)
}

func (r VideoRef) String() string {
	return r.Token()
}
