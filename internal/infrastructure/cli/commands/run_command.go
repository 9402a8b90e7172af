package commands

import (
	"errors"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/hangwatch/internal/app"
	"github.com/doeshing/hangwatch/internal/application/monitor"
	"github.com/doeshing/hangwatch/internal/domain"
)

// NewRunCommand creates the run command, the default action.
func NewRunCommand(container *app.Container) *cobra.Command {
	var (
		timeout time.Duration
		shell   string
		dir     string
		yesKill bool
	)

	cmd := &cobra.Command{
		Use:   "run [command string]",
		Short: "Run a shell command under the hang watchdog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// SIGINT during the decision wait maps to kill.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			req := domain.ExecuteRequest{
				Command:     strings.Join(args, " "),
				Shell:       domain.ShellKind(shell),
				WorkingDir:  dir,
				Timeout:     timeout,
				Interactive: !yesKill,
			}
			if timeout <= 0 {
				req.Timeout = container.Config.Execution.Timeout()
			}

			result, err := container.Monitor.Execute(ctx, req)
			RenderResult(cmd.OutOrStdout(), result)
			if errors.Is(err, monitor.ErrQuit) {
				os.Exit(1)
			}
			return err
		},
	}

	// Flags must precede the command string; whatever follows it is the
	// command's own, dashes included.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "Hang threshold (default from config)")
	cmd.Flags().StringVarP(&shell, "shell", "s", string(domain.ShellAuto), "Interpreter: auto, sh, bash, powershell, cmd")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Working directory for the command")
	cmd.Flags().BoolVar(&yesKill, "yes-kill", false, "Non-interactive: kill immediately on timeout instead of prompting")

	return cmd
}
