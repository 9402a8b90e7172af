// Package cli wires the cobra command tree and owns the terminal: the
// decision prompt, the result renderer, and the summary views.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/hangwatch/internal/app"
	"github.com/doeshing/hangwatch/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}
	container.Monitor.Decider = NewDecisionPrompt(nil, nil)
	return newRoot(container), nil
}

func newRoot(container *app.Container) *cobra.Command {
	runCmd := commands.NewRunCommand(container)

	root := &cobra.Command{
		Use:   "hangwatch [command string]",
		Short: "hangwatch - watchdog for shell commands that hang",
		Long:  "hangwatch runs a shell command under a timeout watchdog, offers bounded interactive recovery when it hangs, and can sweep the system for likely causes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			// Invoke the run handler directly: re-entering cobra parsing
			// would misread flag-like tokens inside the command string.
			return runCmd.RunE(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// Stop flag parsing at the first positional so the supervised command
	// string may carry its own dashes.
	root.Flags().SetInterspersed(false)

	root.AddCommand(runCmd)
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewStatsCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root
}
