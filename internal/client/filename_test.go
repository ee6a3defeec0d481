package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveFilename_FromFinalURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stream":
			http.Redirect(w, r, "/cdn/1000-1-64.flv?deadline=99&token=abc", http.StatusFound)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	name, err := c.ResolveFilename(context.Background(), ts.URL+"/stream", nil)
	if err != nil {
		t.Fatalf("ResolveFilename: %v", err)
	}
	if name != "1000-1-64.flv" {
		t.Fatalf("Expected filename from redirected URL without query, got %q", name)
	}
}

func TestResolveFilename_DispositionOverridesURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="served name.flv"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	name, err := c.ResolveFilename(context.Background(), ts.URL+"/cdn/opaque.bin", nil)
	if err != nil {
		t.Fatalf("ResolveFilename: %v", err)
	}
	if name != "served name.flv" {
		t.Fatalf("Expected disposition filename, got %q", name)
	}
}

func TestResolveFilename_ExtendedDispositionDecoded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition",
			`attachment; filename="fallback.flv"; filename*=UTF-8''%E8%A7%86%E9%A2%91.flv`)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	name, err := c.ResolveFilename(context.Background(), ts.URL+"/cdn/opaque.bin", nil)
	if err != nil {
		t.Fatalf("ResolveFilename: %v", err)
	}
	if name != "视频.flv" {
		t.Fatalf("Expected decoded extended filename, got %q", name)
	}
}

func TestResolveFilename_ForwardsHeaders(t *testing.T) {
	var referer string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("Referer")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	headers := map[string]string{"Referer": "https://www.bilibili.com/video/BV1xx411c7mD/"}
	if _, err := c.ResolveFilename(context.Background(), ts.URL+"/cdn/a.flv", headers); err != nil {
		t.Fatalf("ResolveFilename: %v", err)
	}
	if referer != "https://www.bilibili.com/video/BV1xx411c7mD/" {
		t.Fatalf("Expected Referer header forwarded, got %q", referer)
	}
}
