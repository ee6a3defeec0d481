package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlen/biliclip/internal/client"
	"github.com/mlen/biliclip/internal/config"
	"github.com/mlen/biliclip/internal/credentials"
	"github.com/mlen/biliclip/internal/models"
	"github.com/mlen/biliclip/internal/resolver"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <reference>",
	Short: "Resolve a reference to a direct media URL, headers, and filename",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := resolveReference(cmd.Context(), args[0], 0)
		if err != nil {
			return err
		}

		printResolution(result)
		return nil
	},
}

func printResolution(result *models.Resolution) {
	fmt.Println("title:   ", result.Info)
	if result.QualityLabel != "" {
		fmt.Println("quality: ", result.QualityLabel)
	}
	fmt.Println("url:     ", result.URL)
	for name, value := range result.Headers {
		fmt.Printf("header:   %s: %s\n", name, value)
	}
	fmt.Println("filename:", result.Filename)
}

// consoleSink collects the run's output for one CLI invocation and echoes
// progress to the log as intermediate stages land.
type consoleSink struct {
	result *models.Resolution
}

func (s *consoleSink) Reset() {
	s.result = nil
}

func (s *consoleSink) Progress(info string) {
	logger := config.GetLogger()
	logger.Info().Str("reference", info).Msg("Resolving")
}

func (s *consoleSink) Source(source *models.PlaySource, headers map[string]string) {
	logger := config.GetLogger()
	logger.Info().Str("title", source.Title).Str("quality", source.Describe()).Msg("Play source resolved")
}

func (s *consoleSink) Complete(resolution *models.Resolution) {
	s.result = resolution
}

// resolveReference runs one full resolution for the CLI. A non-zero part
// selector overrides whatever p= the reference itself may carry.
func resolveReference(ctx context.Context, reference string, part int) (*models.Resolution, error) {
	cfg := config.GetConfig()

	c, err := client.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	r := resolver.New(c, credentials.NewStore(cfg.CredentialsFile), cfg)
	in := resolver.NewInput(reference)
	if part > 0 {
		in.OverridePart(part)
	}
	sink := &consoleSink{}

	<-r.Resolve(ctx, in, sink)
	if sink.result == nil {
		return nil, fmt.Errorf("could not resolve %q", reference)
	}
	return sink.result, nil
}
