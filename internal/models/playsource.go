package models

import "fmt"

// PlaySource is a concrete, resolved stream for one part of a video.
// Immutable once cached; entries never expire within a process lifetime
// because content IDs are content-addressed and quality selection is
// deterministic per session. JSON tags exist for the play-source cache,
// which stores marshaled entries.
type PlaySource struct {
	// Title is the part title for multi-part videos, the video title otherwise.
	Title string `json:"title"`
	// Quality is the numeric tier actually granted by the server, which may
	// be lower than the requested ceiling.
	Quality int `json:"quality"`
	// QualityLabel is the server's human-readable description of Quality.
	QualityLabel string `json:"quality_label"`
	// URL is the direct media URL of the first delivery entry.
	URL string `json:"url"`
}

// Describe renders the quality line shown to the user, e.g. "1080P (80)".
func (p *PlaySource) Describe() string {
	return fmt.Sprintf("%s (%d)", p.QualityLabel, p.Quality)
}
