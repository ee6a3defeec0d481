package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/samber/lo"

	"github.com/mlen/biliclip/internal/config"
	"github.com/mlen/biliclip/internal/credentials"
	"github.com/mlen/biliclip/internal/models"
)

// requestedQuality is the tier sent with every play-source request. It is a
// request ceiling, not a guarantee: the granted tier must always be read
// back from the response.
const requestedQuality = 120

// playurlPayload is the subset of the play-source endpoint's response the
// pipeline consumes. AcceptQuality and AcceptDescription are parallel lists,
// equal length and co-indexed by the upstream API contract.
type playurlPayload struct {
	Quality           int      `json:"quality"`
	AcceptQuality     []int    `json:"accept_quality"`
	AcceptDescription []string `json:"accept_description"`
	Durl              []struct {
		URL string `json:"url"`
	} `json:"durl"`
}

// GetPlaySource resolves a concrete stream for one part of a video. Results
// are cached per (session, content ID): two credential contexts never share
// an entry because stream entitlement depends on login state, and the
// anonymous session is its own valid partition.
func (c *client) GetPlaySource(ctx context.Context, ref models.VideoRef, part int, creds credentials.Credentials) (*models.PlaySource, error) {
	video, err := c.GetVideoInfo(ctx, ref)
	if err != nil {
		return nil, err
	}

	selected, title, err := video.SelectPart(part)
	if err != nil {
		return nil, err
	}

	session := creds.SessionKey()
	cidKey := strconv.FormatInt(selected.Cid, 10)
	if raw, ok := c.playURLs.Get(session, cidKey); ok {
		var source models.PlaySource
		if err := json.Unmarshal(raw, &source); err == nil {
			return &source, nil
		}
	}

	params := url.Values{}
	params.Set("bvid", video.Bvid)
	params.Set("cid", cidKey)
	params.Set("qn", strconv.Itoa(requestedQuality))
	params.Set("otype", "json")

	data, err := c.getAPI(ctx, c.apiBase+"/x/player/playurl", params, creds.Cookies())
	if err != nil {
		return nil, err
	}

	var payload playurlPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode play source: %w", ErrUnresolved)
	}
	if len(payload.Durl) == 0 {
		return nil, fmt.Errorf("play source for cid %d has no delivery URL: %w", selected.Cid, ErrUnresolved)
	}

	// The label for the granted tier lives at the same index in the
	// co-indexed description list; it is never derived independently.
	idx := lo.IndexOf(payload.AcceptQuality, payload.Quality)
	if idx < 0 || idx >= len(payload.AcceptDescription) {
		logger := config.GetLogger()
		logger.Warn().
			Int("quality", payload.Quality).
			Ints("accepted", payload.AcceptQuality).
			Msg("Granted quality missing from accepted list")
		return nil, fmt.Errorf("granted quality %d not in accepted list: %w", payload.Quality, ErrUnresolved)
	}

	source := &models.PlaySource{
		Title:        title,
		Quality:      payload.Quality,
		QualityLabel: payload.AcceptDescription[idx],
		URL:          payload.Durl[0].URL,
	}

	if raw, err := json.Marshal(source); err == nil {
		c.playURLs.Set(session, cidKey, raw)
	}
	return source, nil
}
