package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mlen/biliclip/internal/parser"
)

// ResolveFilename discovers the true filename behind a direct media URL by
// issuing a streaming GET — the body is never read, only the final effective
// URL after redirects and the Content-Disposition header matter. It is
// independent of the pipeline caches: media URLs carry expiring tokens, so
// caching their filenames by URL would be pointless.
func (c *client) ResolveFilename(ctx context.Context, mediaURL string, headers map[string]string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return "", fmt.Errorf("media url %q: %w", mediaURL, ErrUnresolved)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("filename request failed: %w: %w", err, ErrUnresolved)
	}
	defer resp.Body.Close()

	finalURL := resp.Request.URL.String()
	return parser.DeriveFilename(finalURL, resp.Header.Get("Content-Disposition")), nil
}
