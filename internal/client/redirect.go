package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mlen/biliclip/internal/config"
)

// ResolveRedirect expands a short link to its canonical URL by issuing a
// single GET and letting the HTTP layer follow redirects. Input lacking a
// scheme is coerced to http:// and retried exactly once; any scheme failure
// after that is a hard unresolved, never a loop. Successful expansions are
// cached for the process lifetime under the URL string the lookup used —
// short-link targets are stable.
func (c *client) ResolveRedirect(ctx context.Context, rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, "http") {
		return c.ResolveRedirect(ctx, "http://"+rawURL)
	}

	if cached, ok := c.redirects.Get(rawURL); ok {
		return string(cached), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("short link %q: %w", rawURL, ErrUnresolved)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("short link request failed: %w: %w", err, ErrUnresolved)
	}
	// The body is never read; only the final effective URL matters.
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger := config.GetLogger()
		logger.Debug().Str("url", rawURL).Int("status", resp.StatusCode).Msg("Short link expansion failed")
		return "", fmt.Errorf("short link status %d: %w", resp.StatusCode, ErrUnresolved)
	}

	finalURL := resp.Request.URL.String()
	c.redirects.Set(rawURL, []byte(finalURL))
	return finalURL, nil
}
