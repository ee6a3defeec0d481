package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mlen/biliclip/internal/config"
)

// apiEnvelope is the generic response wrapper used by every API endpoint:
// code 0 means success and data carries the payload; any other code is an
// application-level failure with no payload guarantee.
type apiEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// getAPI performs a GET against an enveloped API endpoint and returns the
// payload. Envelope failures (code != 0) are logged for diagnostics and
// surfaced as an APIError, which callers treat identically to a transport
// failure.
func (c *client) getAPI(ctx context.Context, endpoint string, params url.Values, cookies []*http.Cookie) (json.RawMessage, error) {
	requestURL := endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api request failed: %w: %w", err, ErrUnresolved)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api status %d: %w", resp.StatusCode, ErrUnresolved)
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", ErrUnresolved)
	}

	if envelope.Code != 0 {
		logger := config.GetLogger()
		logger.Warn().
			Str("endpoint", endpoint).
			Int("code", envelope.Code).
			Str("message", envelope.Message).
			Msg("API returned non-zero code")
		return nil, &APIError{Endpoint: endpoint, Code: envelope.Code, Message: envelope.Message}
	}

	return envelope.Data, nil
}
