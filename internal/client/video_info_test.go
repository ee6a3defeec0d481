package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mlen/biliclip/internal/models"
	"github.com/mlen/biliclip/internal/testutil"
)

func newViewServer(t *testing.T, requests *atomic.Int64, body []byte) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/x/web-interface/view" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if requests != nil {
			requests.Add(1)
		}
		w.Write(body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestGetVideoInfo(t *testing.T) {
	body := testutil.ViewEnvelope(170001, "BV1xx411c7mD", "my video", []testutil.Page{
		{Cid: 1000, Index: 1, Title: "part one"},
		{Cid: 1001, Index: 2, Title: "part two"},
	})
	var params string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params = r.URL.RawQuery
		w.Write(body)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	video, err := c.GetVideoInfo(context.Background(), models.NewBVRef("BV1xx411c7mD"))
	if err != nil {
		t.Fatalf("GetVideoInfo: %v", err)
	}

	if params != "bvid=BV1xx411c7mD" {
		t.Fatalf("Expected bvid query param, got %q", params)
	}
	if video.Aid != 170001 || video.Bvid != "BV1xx411c7mD" || video.Title != "my video" {
		t.Fatalf("Unexpected video: %+v", video)
	}
	if len(video.Parts) != 2 {
		t.Fatalf("Expected 2 parts, got %d", len(video.Parts))
	}
	if video.Parts[1].Cid != 1001 || video.Parts[1].Index != 2 || video.Parts[1].Title != "part two" {
		t.Fatalf("Unexpected second part: %+v", video.Parts[1])
	}
}

func TestGetVideoInfo_NumericReference(t *testing.T) {
	body := testutil.ViewEnvelope(170001, "BV1xx411c7mD", "my video", []testutil.Page{
		{Cid: 1000, Index: 1, Title: "p1"},
	})
	var params string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params = r.URL.RawQuery
		w.Write(body)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	if _, err := c.GetVideoInfo(context.Background(), models.NewAVRef(170001)); err != nil {
		t.Fatalf("GetVideoInfo: %v", err)
	}
	if params != "aid=170001" {
		t.Fatalf("Expected aid query param, got %q", params)
	}
}

func TestGetVideoInfo_AliasCaching(t *testing.T) {
	var requests atomic.Int64
	body := testutil.ViewEnvelope(170001, "BV1xx411c7mD", "my video", []testutil.Page{
		{Cid: 1000, Index: 1, Title: "p1"},
	})
	ts := newViewServer(t, &requests, body)

	c := newTestClient(t, ts.URL)

	first, err := c.GetVideoInfo(context.Background(), models.NewBVRef("BV1xx411c7mD"))
	if err != nil {
		t.Fatalf("GetVideoInfo by bvid: %v", err)
	}

	// Looking the same video up by its numeric form must hit the alias
	// index, return the same entry, and issue no second fetch.
	second, err := c.GetVideoInfo(context.Background(), models.NewAVRef(170001))
	if err != nil {
		t.Fatalf("GetVideoInfo by aid: %v", err)
	}

	if requests.Load() != 1 {
		t.Fatalf("Expected 1 network fetch, got %d", requests.Load())
	}
	if first != second {
		t.Fatal("Expected both aliases to yield the same cached entry")
	}
}

func TestGetVideoInfo_NoParts(t *testing.T) {
	ts := newViewServer(t, nil, testutil.ViewEnvelope(170001, "BV1xx411c7mD", "empty", nil))

	c := newTestClient(t, ts.URL)
	_, err := c.GetVideoInfo(context.Background(), models.NewBVRef("BV1xx411c7mD"))
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("Expected ErrUnresolved for partless metadata, got %v", err)
	}
}

func TestGetVideoInfo_MissingPageNumbers(t *testing.T) {
	// Some responses omit the page ordinal; positions substitute for it.
	body := testutil.ViewEnvelope(170001, "BV1xx411c7mD", "v", []testutil.Page{
		{Cid: 1000, Title: "a"},
		{Cid: 1001, Title: "b"},
	})
	ts := newViewServer(t, nil, body)

	c := newTestClient(t, ts.URL)
	video, err := c.GetVideoInfo(context.Background(), models.NewBVRef("BV1xx411c7mD"))
	if err != nil {
		t.Fatalf("GetVideoInfo: %v", err)
	}
	if video.Parts[0].Index != 1 || video.Parts[1].Index != 2 {
		t.Fatalf("Expected 1-based fallback indices, got %d and %d", video.Parts[0].Index, video.Parts[1].Index)
	}
}
