package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mlen/biliclip/internal/config"
	"github.com/mlen/biliclip/internal/models"
)

// viewPayload is the subset of the view endpoint's response the pipeline
// consumes.
type viewPayload struct {
	Aid   int64  `json:"aid"`
	Bvid  string `json:"bvid"`
	Title string `json:"title"`
	Pages []struct {
		Cid  int64  `json:"cid"`
		Page int    `json:"page"`
		Part string `json:"part"`
	} `json:"pages"`
}

// GetVideoInfo resolves a reference to canonical video metadata. Metadata is
// fetched once per distinct video and stored under all three aliases derived
// from the response itself (canonical code, decimal ID, "av"-prefixed ID),
// so a later lookup by any alias is a cache hit with no second network call.
func (c *client) GetVideoInfo(ctx context.Context, ref models.VideoRef) (*models.Video, error) {
	if video, ok := c.metadata.Get(ref.Token()); ok {
		return video, nil
	}

	params := url.Values{}
	if ref.IsBV() {
		params.Set("bvid", ref.Bvid)
	} else {
		params.Set("aid", strconv.FormatInt(ref.Aid, 10))
	}

	data, err := c.getAPI(ctx, c.apiBase+"/x/web-interface/view", params, nil)
	if err != nil {
		return nil, err
	}

	var payload viewPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode video info: %w", ErrUnresolved)
	}
	if len(payload.Pages) == 0 {
		// Metadata without parts is unusable downstream.
		logger := config.GetLogger()
		logger.Warn().Str("ref", ref.Token()).Msg("Video metadata has no parts")
		return nil, fmt.Errorf("video %s has no parts: %w", ref.Token(), ErrUnresolved)
	}

	video := &models.Video{
		Aid:   payload.Aid,
		Bvid:  payload.Bvid,
		Title: payload.Title,
		Parts: make([]models.Part, 0, len(payload.Pages)),
	}
	for i, page := range payload.Pages {
		index := page.Page
		if index == 0 {
			index = i + 1
		}
		video.Parts = append(video.Parts, models.Part{
			Index: index,
			Cid:   page.Cid,
			Title: page.Part,
		})
	}

	c.metadata.Put(video, video.Aliases()...)
	return video, nil
}
