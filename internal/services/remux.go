// Package services holds the external collaborators of the resolution core:
// the media-remuxing tool and the interactive login helper, both out-of-process
// executables with deliberately thin contracts.
package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mlen/biliclip/internal/config"
	"github.com/mlen/biliclip/internal/metrics"
	"github.com/mlen/biliclip/internal/models"
)

// RemuxRequest describes one user-initiated download handed to ffmpeg.
type RemuxRequest struct {
	URL      string
	Headers  map[string]string
	Filename string
	Start    *float64 // optional trim start in seconds
	End      *float64 // optional trim end in seconds
}

// Remuxer defines the interface for stream-copying a media URL to a local file.
type Remuxer interface {
	Available() bool
	Remux(ctx context.Context, req RemuxRequest) (string, error)
}

// FFmpegRemuxer implements Remuxer using the ffmpeg command line tool.
// The stream is copied without re-encoding; trimming flags are attached only
// when trim times are provided.
type FFmpegRemuxer struct {
	Path      string
	UserAgent string
}

// NewFFmpegRemuxer returns a new FFmpegRemuxer.
// If path is empty, it looks for "ffmpeg" in PATH.
func NewFFmpegRemuxer(path, userAgent string) *FFmpegRemuxer {
	if path == "" {
		path = "ffmpeg"
	}
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	return &FFmpegRemuxer{Path: path, UserAgent: userAgent}
}

// Available checks if ffmpeg is executable.
func (f *FFmpegRemuxer) Available() bool {
	_, err := exec.LookPath(f.Path)
	return err == nil
}

// buildCommand assembles the ffmpeg argument list and the output filename.
// The output name embeds the trim window so differently trimmed downloads of
// one stream never collide: "<prefix>_<start|0>_<end|-1><ext>".
func (f *FFmpegRemuxer) buildCommand(req RemuxRequest) (string, []string) {
	ext := filepath.Ext(req.Filename)
	prefix := strings.TrimSuffix(req.Filename, ext)

	args := []string{"-y", "-hide_banner"}

	if req.Start != nil {
		start := models.FormatSeconds(*req.Start)
		args = append(args, "-ss", start)
		prefix += "_" + start
	} else {
		prefix += "_0"
	}
	if req.End != nil {
		end := models.FormatSeconds(*req.End)
		args = append(args, "-to", end)
		prefix += "_" + end
	} else {
		prefix += "_-1"
	}

	args = append(args, "-user_agent", f.UserAgent)

	// Sorted for deterministic invocations; header order is irrelevant to ffmpeg.
	names := make([]string, 0, len(req.Headers))
	for name := range req.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		args = append(args, "-headers", fmt.Sprintf("%s: %s", name, req.Headers[name]))
	}

	output := prefix + ext
	args = append(args,
		"-i", req.URL,
		"-c", "copy",
		"-avoid_negative_ts", "1",
		output,
	)
	return output, args
}

// Remux runs ffmpeg once for the request and returns the output filename.
// Exit code 0 means success; any other exit is surfaced as a failure with no
// retry and no partial-file cleanup.
func (f *FFmpegRemuxer) Remux(ctx context.Context, req RemuxRequest) (string, error) {
	logger := config.GetLogger()

	output, args := f.buildCommand(req)
	logger.Info().
		Str("output", output).
		Strs("args", args).
		Msg("Starting remux")

	cmd := exec.CommandContext(ctx, f.Path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		metrics.RemuxesTotal.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("ffmpeg remux failed: %w", err)
	}

	metrics.RemuxesTotal.WithLabelValues("succeeded").Inc()
	logger.Info().Str("output", output).Msg("Remux finished")
	return output, nil
}
