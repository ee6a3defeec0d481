package resolver

import "github.com/mlen/biliclip/internal/models"

// Sink receives the observable output of resolution runs for one logical
// input. The orchestrator guarantees single-writer discipline: only the run
// holding the current generation ever calls a sink method, and calls are
// serialized under the input's lock. A superseded run publishes nothing —
// not even partial state.
type Sink interface {
	// Reset announces that a run started for a new snapshot; previously
	// published state is no longer valid.
	Reset()

	// Progress publishes the identifier echo shown before network stages
	// complete, e.g. "BV1xx411c7mD\t2".
	Progress(info string)

	// Source publishes the resolved stream and the outbound headers required
	// to fetch it. The filename is not yet known at this point.
	Source(source *models.PlaySource, headers map[string]string)

	// Complete publishes the final resolution tuple.
	Complete(resolution *models.Resolution)
}
