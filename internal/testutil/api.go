// Package testutil provides API envelope fixtures shared by client and
// resolver tests.
package testutil

import "encoding/json"

// Page describes one part in a view endpoint fixture.
type Page struct {
	Cid   int64
	Index int
	Title string
}

// ViewEnvelope builds a successful view endpoint response body.
func ViewEnvelope(aid int64, bvid, title string, pages []Page) []byte {
	pagesData := make([]map[string]any, 0, len(pages))
	for _, p := range pages {
		pagesData = append(pagesData, map[string]any{
			"cid":  p.Cid,
			"page": p.Index,
			"part": p.Title,
		})
	}
	return marshalEnvelope(0, "0", map[string]any{
		"aid":   aid,
		"bvid":  bvid,
		"title": title,
		"pages": pagesData,
	})
}

// PlayurlEnvelope builds a successful play-source endpoint response body.
func PlayurlEnvelope(quality int, acceptQuality []int, acceptDescription []string, urls ...string) []byte {
	durl := make([]map[string]any, 0, len(urls))
	for _, u := range urls {
		durl = append(durl, map[string]any{"url": u})
	}
	return marshalEnvelope(0, "0", map[string]any{
		"quality":            quality,
		"accept_quality":     acceptQuality,
		"accept_description": acceptDescription,
		"durl":               durl,
	})
}

// ErrorEnvelope builds an application-level failure response body.
func ErrorEnvelope(code int, message string) []byte {
	return marshalEnvelope(code, message, nil)
}

func marshalEnvelope(code int, message string, data map[string]any) []byte {
	body := map[string]any{
		"code":    code,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	raw, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return raw
}
