package resolver

import (
	"context"
	"sync"
)

// Input owns the live text of one logical input field together with the
// generation counter used to detect superseded resolution runs. Every change
// to the text bumps the generation and cancels the context of the run in
// flight; a run may only publish while its generation is still current.
//
// Cancellation is cooperative: stale runs are not force-terminated, they
// observe the canceled context at the next network call or fail the
// generation gate at the next publish.
type Input struct {
	mu     sync.Mutex
	text   string
	part   int
	gen    uint64
	cancel context.CancelFunc
}

// NewInput creates an input holding the given initial text.
func NewInput(text string) *Input {
	return &Input{text: text}
}

// Set replaces the live text, superseding any run in flight.
func (in *Input) Set(text string) {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.text = text
	in.gen++
	if in.cancel != nil {
		in.cancel()
		in.cancel = nil
	}
}

// OverridePart forces the part selector for subsequent runs, taking
// precedence over any p= parameter carried by the text. Zero clears the
// override. Like Set, it supersedes any run in flight: the selector is part
// of the input.
func (in *Input) OverridePart(part int) {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.part = part
	in.gen++
	if in.cancel != nil {
		in.cancel()
		in.cancel = nil
	}
}

// Text returns the current live text.
func (in *Input) Text() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.text
}

// begin snapshots the input for a new resolution run: it supersedes any
// previous run, bumps the generation, and installs the new run's cancel
// function. Returns the run context, the text and part-override snapshots,
// and the generation the run must hold to publish.
func (in *Input) begin(ctx context.Context) (context.Context, string, int, uint64) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.cancel != nil {
		in.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	in.gen++
	in.cancel = cancel
	return runCtx, in.text, in.part, in.gen
}

// publish runs fn if and only if gen is still the current generation. The
// check and fn execute under the input's lock, so a concurrent Set cannot
// interleave between the staleness check and the publish.
func (in *Input) publish(gen uint64, fn func()) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	if gen != in.gen {
		return false
	}
	fn()
	return true
}

// rewrite swaps the live text without superseding the given generation.
// Used when short-link expansion replaces the input with its canonical URL:
// the expanded URL becomes the new snapshot of the same run. Returns false
// when the run is already stale.
func (in *Input) rewrite(gen uint64, text string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	if gen != in.gen {
		return false
	}
	in.text = text
	return true
}
