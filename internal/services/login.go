package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/mlen/biliclip/internal/config"
)

// LoginHelper invokes the external interactive login executable. The whole
// contract is: block until it exits, then credentials may have changed and
// the caller should re-run resolution. There is no IPC beyond process exit,
// and the helper's lifecycle is otherwise not managed here.
type LoginHelper struct {
	Path string
}

// NewLoginHelper returns a helper invoking the given executable.
func NewLoginHelper(path string) *LoginHelper {
	return &LoginHelper{Path: path}
}

// Run starts the helper's interactive login flow on the user's terminal and
// waits for it to exit.
func (l *LoginHelper) Run(ctx context.Context) error {
	logger := config.GetLogger()
	logger.Info().Str("helper", l.Path).Msg("Starting interactive login")

	cmd := exec.CommandContext(ctx, l.Path, "login")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("login helper failed: %w", err)
	}

	logger.Info().Msg("Login helper exited, credentials may have changed")
	return nil
}
