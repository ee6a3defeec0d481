package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlen/biliclip/internal/config"
	"github.com/mlen/biliclip/internal/models"
	"github.com/mlen/biliclip/internal/services"
)

var (
	downloadPart  int
	downloadStart string
	downloadEnd   string
)

func init() {
	downloadCmd.Flags().IntVarP(&downloadPart, "part", "p", 0, "1-based part selector for multi-part videos")
	downloadCmd.Flags().StringVar(&downloadStart, "start", "", "trim start timecode (e.g. 90, 1:30, 1:02:03.5)")
	downloadCmd.Flags().StringVar(&downloadEnd, "end", "", "trim end timecode")
	rootCmd.AddCommand(downloadCmd)
}

var downloadCmd = &cobra.Command{
	Use:   "download <reference>",
	Short: "Resolve a reference and stream-copy it (optionally trimmed) to a local file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		result, err := resolveReference(cmd.Context(), args[0], downloadPart)
		if err != nil {
			return err
		}

		remuxer := services.NewFFmpegRemuxer(cfg.FFmpegPath, cfg.UserAgent)
		if !remuxer.Available() {
			return fmt.Errorf("ffmpeg not found at %q", cfg.FFmpegPath)
		}

		req := services.RemuxRequest{
			URL:      result.URL,
			Headers:  result.Headers,
			Filename: result.Filename,
			Start:    parseTrim(downloadStart, "start"),
			End:      parseTrim(downloadEnd, "end"),
		}

		output, err := remuxer.Remux(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Println("saved:", output)
		return nil
	},
}

// parseTrim parses an optional trim timecode. A malformed value is treated
// as absent with a warning, never a hard failure.
func parseTrim(value, which string) *float64 {
	if value == "" {
		return nil
	}
	seconds, err := models.ParseTimecode(value)
	if err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("flag", which).Msg("Malformed timecode, ignoring")
		return nil
	}
	return &seconds
}
