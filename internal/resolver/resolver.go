// Package resolver drives the resolution pipeline for one input snapshot:
// short-link expansion, reference parsing, metadata and play-source
// resolution, filename discovery. Runs execute on their own goroutine and
// self-discard when the input changes underneath them, so a stale run can
// never overwrite state derived from a newer input.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mlen/biliclip/internal/client"
	"github.com/mlen/biliclip/internal/config"
	"github.com/mlen/biliclip/internal/credentials"
	"github.com/mlen/biliclip/internal/metrics"
	"github.com/mlen/biliclip/internal/models"
	"github.com/mlen/biliclip/internal/parser"
)

// Resolver orchestrates resolution runs. It is safe for concurrent use;
// state lives in the per-field Input handles, not here.
type Resolver struct {
	client          client.Client
	store           *credentials.Store
	siteDomain      string
	shortLinkDomain string
}

// New creates a resolver using the given client and credential store.
func New(c client.Client, store *credentials.Store, cfg *config.Config) *Resolver {
	return &Resolver{
		client:          c,
		store:           store,
		siteDomain:      cfg.SiteDomain,
		shortLinkDomain: cfg.ShortLinkDomain,
	}
}

// Resolve starts a resolution run for the input's current text and returns
// immediately. The returned channel closes when the run finishes, whether it
// published or discarded itself. Multiple runs may be in flight for one
// input; only the newest generation's output is ever published.
func (r *Resolver) Resolve(ctx context.Context, in *Input, sink Sink) <-chan struct{} {
	runCtx, text, partOverride, gen := in.begin(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.run(runCtx, in, gen, text, partOverride, sink)
	}()
	return done
}

func (r *Resolver) run(ctx context.Context, in *Input, gen uint64, text string, partOverride int, sink Sink) {
	logger := config.GetLogger()

	if !in.publish(gen, sink.Reset) {
		metrics.ResolutionsTotal.WithLabelValues("superseded").Inc()
		return
	}

	// Credentials are read fresh per run; the external login flow may have
	// changed them since the last one.
	creds := r.store.Load()

	// Short-link expansion rewrites the live text to the canonical URL,
	// still under this run's generation.
	if r.shortLinkDomain != "" && strings.Contains(text, r.shortLinkDomain) {
		finalURL, err := r.client.ResolveRedirect(ctx, text)
		if err == nil {
			if !in.rewrite(gen, finalURL) {
				metrics.ResolutionsTotal.WithLabelValues("superseded").Inc()
				return
			}
			text = finalURL
		} else {
			logger.Debug().Err(err).Str("text", text).Msg("Short link expansion failed")
		}
	}

	ref, part, ok := parser.ParseReference(text)
	if !ok {
		if parser.IsDirectURL(text) {
			r.runDirect(ctx, in, gen, text, sink)
			return
		}
		// Not an error, a routing decision: the input is simply not a
		// recognized reference, and the sink stays reset.
		metrics.ResolutionsTotal.WithLabelValues("unresolved").Inc()
		return
	}
	if partOverride > 0 {
		part = partOverride
	}

	echoPart := part
	if echoPart == 0 {
		echoPart = 1
	}
	if !in.publish(gen, func() { sink.Progress(fmt.Sprintf("%s\t%d", ref.Token(), echoPart)) }) {
		metrics.ResolutionsTotal.WithLabelValues("superseded").Inc()
		return
	}

	source, err := r.client.GetPlaySource(ctx, ref, part, creds)
	if err != nil {
		r.recordFailure(err, "play source resolution failed", ref.Token())
		return
	}

	headers := map[string]string{
		"referer": fmt.Sprintf("%s/video/%s/", r.siteDomain, ref.Token()),
	}
	if !in.publish(gen, func() { sink.Source(source, headers) }) {
		metrics.ResolutionsTotal.WithLabelValues("superseded").Inc()
		return
	}

	filename, err := r.client.ResolveFilename(ctx, source.URL, headers)
	if err != nil {
		r.recordFailure(err, "filename resolution failed", ref.Token())
		return
	}

	published := in.publish(gen, func() {
		sink.Complete(&models.Resolution{
			Info:         source.Title,
			QualityLabel: source.Describe(),
			URL:          source.URL,
			Headers:      headers,
			Filename:     filename,
		})
	})
	if !published {
		metrics.ResolutionsTotal.WithLabelValues("superseded").Inc()
		return
	}
	metrics.ResolutionsTotal.WithLabelValues("resolved").Inc()
}

// runDirect handles text that is not a recognized reference but carries a
// URL scheme: it is treated as a literal direct media URL and only the
// filename is resolved.
func (r *Resolver) runDirect(ctx context.Context, in *Input, gen uint64, mediaURL string, sink Sink) {
	filename, err := r.client.ResolveFilename(ctx, mediaURL, nil)
	if err != nil {
		r.recordFailure(err, "filename resolution failed", mediaURL)
		return
	}

	published := in.publish(gen, func() {
		sink.Complete(&models.Resolution{
			Info:     filename,
			URL:      mediaURL,
			Headers:  map[string]string{},
			Filename: filename,
		})
	})
	if !published {
		metrics.ResolutionsTotal.WithLabelValues("superseded").Inc()
		return
	}
	metrics.ResolutionsTotal.WithLabelValues("resolved").Inc()
}

// recordFailure logs a failed stage. Context cancellation means the run was
// superseded rather than failed; everything else degrades to "unresolved"
// with no partial publish.
func (r *Resolver) recordFailure(err error, msg, subject string) {
	if errors.Is(err, context.Canceled) {
		metrics.ResolutionsTotal.WithLabelValues("superseded").Inc()
		return
	}
	logger := config.GetLogger()
	logger.Debug().Err(err).Str("subject", subject).Msg(msg)
	metrics.ResolutionsTotal.WithLabelValues("unresolved").Inc()
}
