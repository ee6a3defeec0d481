package models

import (
	"fmt"
	"strconv"
)

// Part is one segment of a multi-segment video. Cid is the internal content
// ID used by the play-source endpoint, distinct from the public identifier.
type Part struct {
	Index int    `json:"index"` // 1-based position within the video
	Cid   int64  `json:"cid"`
	Title string `json:"title"`
}

// Video is the canonical metadata for one video. Fetched once per distinct
// identifier and shared between all aliases, so it must be treated as
// immutable after construction. Invariant: Parts is never empty.
type Video struct {
	Aid   int64  `json:"aid"`
	Bvid  string `json:"bvid"`
	Title string `json:"title"`
	Parts []Part `json:"parts"`
}

// Aliases returns every cache key this video is reachable under: the
// canonical BV code, the decimal numeric ID, and the "av"-prefixed form.
// All three must resolve to the same cached entry.
func (v *Video) Aliases() []string {
	return []string{
		v.Bvid,
		strconv.FormatInt(v.Aid, 10),
		fmt.Sprintf("av%d", v.Aid),
	}
}

// SelectPart resolves the 1-based part selector against the video's parts
// and returns the addressed part together with the display title for the
// resulting stream: the part's own title for multi-part videos, the video
// title for single-part videos regardless of selector. A selector of 0 means
// "first part". Out-of-range selectors on multi-part videos are rejected
// before any use.
func (v *Video) SelectPart(selector int) (Part, string, error) {
	if len(v.Parts) > 1 {
		if selector == 0 {
			selector = 1
		}
		if selector < 1 || selector > len(v.Parts) {
			return Part{}, "", &PartOutOfRangeError{Requested: selector, Parts: len(v.Parts)}
		}
		p := v.Parts[selector-1]
		return p, p.Title, nil
	}
	return v.Parts[0], v.Title, nil
}

// PartOutOfRangeError reports a part selector outside the video's parts.
type PartOutOfRangeError struct {
	Requested int
	Parts     int
}

// Error implements the error interface.
func (e *PartOutOfRangeError) Error() string {
	return fmt.Sprintf("part %d out of range (video has %d parts)", e.Requested, e.Parts)
}

// Is allows for error checking with errors.Is().
func (e *PartOutOfRangeError) Is(target error) bool {
	_, ok := target.(*PartOutOfRangeError)
	return ok
}
