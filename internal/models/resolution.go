package models

// Resolution is the observable output of one resolution run: everything
// needed to fetch and store the media. A Resolution belongs to the run
// generation that produced it; a newer run supersedes it with a fresh
// object rather than mutating it.
type Resolution struct {
	Info         string            // human-readable title line
	QualityLabel string            // e.g. "1080P (80)"
	URL          string            // direct media URL
	Headers      map[string]string // outbound headers required to fetch URL
	Filename     string            // storage filename discovered from the media URL
}
