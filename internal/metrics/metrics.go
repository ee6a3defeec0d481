package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline metrics
var (
	// ResolutionsTotal counts resolution runs by outcome:
	// "resolved", "unresolved", or "superseded".
	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolutions_total",
			Help: "Total number of resolution runs by outcome.",
		},
		[]string{"status"},
	)

	// RemuxesTotal counts ffmpeg remux invocations by outcome.
	RemuxesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remuxes_total",
			Help: "Total number of remux invocations by outcome.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		ResolutionsTotal,
		RemuxesTotal,
	)
}
