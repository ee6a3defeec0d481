package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimecode parses a colon-separated timecode ("90", "1:30", "1:02:03.5")
// into seconds. Fractional seconds are only recognized when the input
// contains a dot, in which case every segment is parsed as a float.
// A malformed timecode is an input problem, not a pipeline failure: callers
// treat it as "absent" and warn the user.
func ParseTimecode(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty timecode")
	}

	fractional := strings.Contains(s, ".")
	var seconds float64
	for _, segment := range strings.Split(s, ":") {
		var v float64
		if fractional {
			f, err := strconv.ParseFloat(segment, 64)
			if err != nil {
				return 0, fmt.Errorf("malformed timecode %q: %w", s, err)
			}
			v = f
		} else {
			n, err := strconv.Atoi(segment)
			if err != nil {
				return 0, fmt.Errorf("malformed timecode %q: %w", s, err)
			}
			v = float64(n)
		}
		seconds = seconds*60 + v
	}
	return seconds, nil
}

// FormatSeconds renders a seconds value the way it is passed to ffmpeg and
// embedded in output filenames: no exponent, no trailing zeros.
func FormatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
