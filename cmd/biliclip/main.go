// Command biliclip resolves video references (short links, BV/av identifiers,
// direct URLs) into playable media sources and stream-copies clips of them
// with ffmpeg.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mlen/biliclip/internal/config"
	"github.com/mlen/biliclip/internal/metrics"
)

var rootCmd = &cobra.Command{
	Use:           "biliclip",
	Short:         "Resolve video references and download clips",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.GetConfig()
		if cfg.Metrics.Enabled {
			server := metrics.NewHTTPServer(cfg.Metrics.Address, cfg.Metrics.Port)
			go func() {
				logger := config.GetLogger()
				logger.Info().Str("addr", server.Addr).Msg("Serving metrics")
				if err := server.ListenAndServe(); err != nil {
					logger.Warn().Err(err).Msg("Metrics server stopped")
				}
			}()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
