package parser

import "testing"

func TestDeriveFilename_URLPathSegment(t *testing.T) {
	got := DeriveFilename("https://cdn.example.com/path/video.mp4?x=1&token=abc", "")
	if got != "video.mp4" {
		t.Fatalf("Expected video.mp4, got %q", got)
	}
}

func TestDeriveFilename_QuotedOverridesURL(t *testing.T) {
	got := DeriveFilename("https://cdn.example.com/video.mp4?x=1", `attachment; filename="clip.flv"`)
	if got != "clip.flv" {
		t.Fatalf("Expected clip.flv, got %q", got)
	}
}

func TestDeriveFilename_ExtendedOverridesQuoted(t *testing.T) {
	disposition := `attachment; filename="clip.flv"; filename*=UTF-8''clip2.mp4`
	got := DeriveFilename("https://cdn.example.com/video.mp4?x=1", disposition)
	if got != "clip2.mp4" {
		t.Fatalf("Expected clip2.mp4, got %q", got)
	}
}

func TestDeriveFilename_ExtendedPercentDecoded(t *testing.T) {
	disposition := `attachment; filename*=UTF-8''%E8%A7%86%E9%A2%91.mp4`
	got := DeriveFilename("https://cdn.example.com/video.mp4", disposition)
	if got != "视频.mp4" {
		t.Fatalf("Expected decoded filename, got %q", got)
	}
}

func TestDeriveFilename_ExtendedWithLanguage(t *testing.T) {
	disposition := `attachment; filename*=UTF-8'en'report.pdf; foo=bar`
	got := DeriveFilename("https://cdn.example.com/x", disposition)
	if got != "report.pdf" {
		t.Fatalf("Expected report.pdf, got %q", got)
	}
}

func TestDeriveFilename_PercentDecodesURLSegment(t *testing.T) {
	got := DeriveFilename("https://cdn.example.com/%E8%A7%86%E9%A2%91.flv?sig=1", "")
	if got != "视频.flv" {
		t.Fatalf("Expected decoded segment, got %q", got)
	}
}
