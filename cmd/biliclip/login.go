package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlen/biliclip/internal/config"
	"github.com/mlen/biliclip/internal/services"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login [reference]",
	Short: "Run the external login helper, then optionally re-resolve a reference",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		helper := services.NewLoginHelper(cfg.LoginHelper)
		if err := helper.Run(cmd.Context()); err != nil {
			return err
		}

		if len(args) == 0 {
			fmt.Println("login complete; rerun resolve to pick up the new session")
			return nil
		}

		// The helper exited, so credentials may have changed; resolve again
		// under the fresh session.
		result, err := resolveReference(cmd.Context(), args[0], 0)
		if err != nil {
			return err
		}
		printResolution(result)
		return nil
	},
}
